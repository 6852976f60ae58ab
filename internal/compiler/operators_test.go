package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/searchops/internal/operator"
)

func compileOperators(t *testing.T, src string) (*File, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("operators.cue"))
	require.NoError(t, v.Err())
	return CompileFile(v)
}

func TestCompileOperatorsForms(t *testing.T) {
	f, err := compileOperators(t, `
operator: {
	p: {query_var: "post_id", pattern: "[1-9]\\d*"}
	page_id: "[1-9]\\d*"
	author: {key: "author_name", pattern: "\\w+"}
	tag: {pattern: "[a-z]+"}
}
`)
	require.NoError(t, err)

	assert.Equal(t, []string{"p", "page_id", "author", "tag"}, f.Set.Keys())

	spec, _ := f.Set.Get("p")
	assert.Equal(t, operator.Structured{QueryVar: "post_id", Pattern: `[1-9]\d*`}, spec)

	spec, _ = f.Set.Get("page_id")
	assert.Equal(t, operator.Pattern(`[1-9]\d*`), spec)

	spec, _ = f.Set.Get("author")
	assert.Equal(t, operator.Structured{QueryVar: "author_name", Pattern: `\w+`}, spec)

	spec, _ = f.Set.Get("tag")
	assert.Equal(t, operator.Structured{Pattern: `[a-z]+`}, spec)

	assert.Equal(t, 3, f.Positions["p"].Line())
	assert.Equal(t, 4, f.Positions["page_id"].Line())
}

func TestCompileFileWithoutOperators(t *testing.T) {
	f, err := compileOperators(t, `other: 1`)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Set.Len())
}

func TestCompileOperatorsShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "operator not a struct",
			src:     `operator: "title"`,
			wantErr: "must be a struct",
		},
		{
			name:    "entry is a number",
			src:     `operator: {p: 5}`,
			wantErr: "must be a string or struct",
		},
		{
			name:    "query_var and key together",
			src:     `operator: {p: {query_var: "a", key: "b", pattern: "x"}}`,
			wantErr: "mutually exclusive",
		},
		{
			name:    "unknown field",
			src:     `operator: {p: {pattern: "x", flags: "i"}}`,
			wantErr: "unknown field",
		},
		{
			name:    "pattern not a string",
			src:     `operator: {p: {pattern: 1}}`,
			wantErr: "must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileOperators(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var cerr *CompileError
			require.ErrorAs(t, err, &cerr)
			assert.True(t, cerr.Pos.IsValid())
			assert.Contains(t, err.Error(), "operators.cue:")
		})
	}
}

func TestCompileStructuredMissingPatternIsDroppedByBuild(t *testing.T) {
	f, err := compileOperators(t, `
operator: {
	bad: {query_var: "x"}
	author: "\\w+"
}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad", "author"}, f.Set.Keys())

	spec, ok := f.Set.Get("bad")
	require.True(t, ok)
	assert.Equal(t, operator.Structured{QueryVar: "x"}, spec)

	reg, dropped := operator.Build(f.Set)
	assert.Equal(t, []string{"author"}, reg.Keys())
	require.Len(t, dropped, 1)
	assert.Equal(t, operator.ErrEmptyPattern, dropped[0].Code)
}

func TestCompileOperatorsNonConcreteString(t *testing.T) {
	_, err := compileOperators(t, `operator: {title: string}`)
	require.Error(t, err)
}

func TestFileProviderOverwritesDefaults(t *testing.T) {
	f, err := compileOperators(t, `
operator: {
	title: {query_var: "name", pattern: "\\w+"}
	author: "\\w+"
}
`)
	require.NoError(t, err)

	c := operator.NewCollector(nil, operator.DefaultProvider, f.Provider())
	reg := c.Registry()

	def, ok := reg.Lookup("title")
	require.True(t, ok)
	assert.Equal(t, "name", def.QueryVar)

	keys := reg.Keys()
	assert.Equal(t, "author", keys[len(keys)-1])
	assert.Equal(t, len(operator.Defaults().Keys())+1, reg.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.cue")
	require.NoError(t, os.WriteFile(path, []byte(`operator: author: {key: "author_name", pattern: "\\w+"}`), 0644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"author"}, f.Set.Keys())
	assert.Equal(t, path, f.Positions["author"].Filename())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`operator: {`), 0644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileAllSkipsBrokenEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.cue")
	require.NoError(t, os.WriteFile(path, []byte(`operator: {
	bad: {query_var: "x", flags: "i"}
	author: {key: "author_name", pattern: "\\w+"}
}
`), 0644))

	f, errs := LoadFileAll(path)
	require.NotNil(t, f)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "bad.flags: unknown field")
	assert.Equal(t, []string{"author"}, f.Set.Keys())

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestCompileFileAllCollectsEntryErrors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
operator: {
	a: 1
	b: "\\w+"
	c: {query_var: "x", flags: "i"}
}
`, cue.Filename("operators.cue"))
	require.NoError(t, v.Err())

	f, errs := CompileFileAll(v)
	require.NotNil(t, f)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "a: operator must be a string or struct")
	assert.Contains(t, errs[1].Error(), "c.flags: unknown field")
	assert.Equal(t, []string{"b"}, f.Set.Keys())

	_, err := CompileFile(v)
	assert.Equal(t, errs[0].Error(), err.Error())
}
