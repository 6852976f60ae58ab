package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Normalize
// =============================================================================

func TestNormalizeShorthand(t *testing.T) {
	def, err := Normalize("post_type", Pattern(`[\w\-]+`))
	require.Nil(t, err)
	assert.Equal(t, Definition{Key: "post_type", QueryVar: "post_type", Pattern: `[\w\-]+`}, def)
}

func TestNormalizeStructured(t *testing.T) {
	def, err := Normalize("p", Structured{QueryVar: "post_id", Pattern: `[1-9]\d*`})
	require.Nil(t, err)
	assert.Equal(t, "post_id", def.QueryVar)
	assert.Equal(t, "p", def.Key)
}

func TestNormalizeStructuredDefaultsQueryVarToKey(t *testing.T) {
	def, err := Normalize("author", Structured{Pattern: `\w+`})
	require.Nil(t, err)
	assert.Equal(t, "author", def.QueryVar)
}

func TestNormalizeStructuredPointer(t *testing.T) {
	def, err := Normalize("author", &Structured{Pattern: `\w+`})
	require.Nil(t, err)
	assert.Equal(t, "author", def.QueryVar)

	var nilSpec *Structured
	_, err = Normalize("author", nilSpec)
	require.NotNil(t, err)
	assert.Equal(t, ErrUnknownSpec, err.Code)
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		spec  Spec
		code  string
		field string
	}{
		{name: "empty key", key: "", spec: Pattern(`\w+`), code: ErrEmptyKey, field: "key"},
		{name: "empty shorthand pattern", key: "title", spec: Pattern(""), code: ErrEmptyPattern, field: "pattern"},
		{name: "structured missing pattern", key: "title", spec: Structured{QueryVar: "title"}, code: ErrEmptyPattern, field: "pattern"},
		{name: "structured reserved query var", key: "q", spec: Structured{QueryVar: "s", Pattern: `\w+`}, code: ErrReservedQueryVar, field: "query_var"},
		{name: "shorthand reserved key", key: "s", spec: Pattern(`\w+`), code: ErrReservedQueryVar, field: "query_var"},
		{name: "invalid regexp", key: "title", spec: Pattern(`(\w+`), code: ErrInvalidPattern, field: "pattern"},
		{name: "pattern escapes its fragment", key: "raw", spec: Pattern(`\Qabc`), code: ErrInvalidPattern, field: "pattern"},
		{name: "nil spec", key: "title", spec: nil, code: ErrUnknownSpec, field: "spec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.key, tt.spec)
			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.field, err.Field)
			assert.Equal(t, tt.key, err.Key)
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}

func TestFragment(t *testing.T) {
	assert.Equal(t, `(post\.type:(?:[\w\-]+))`, Fragment("post.type", `[\w\-]+`))
}

// =============================================================================
// Build
// =============================================================================

func TestBuildDropsPatternThatBreaksTheAlternation(t *testing.T) {
	raw := Defaults()
	raw.Put("raw", Pattern(`\Qabc`))

	reg, errs := Build(raw)
	require.Len(t, errs, 1)
	assert.Equal(t, "raw", errs[0].Key)
	assert.Equal(t, ErrInvalidPattern, errs[0].Code)
	assert.Equal(t, []string{"p", "page_id", "post_status", "post_type", "title"}, reg.Keys())
}

func TestBuildDropsInvalidEntriesAndKeepsOthers(t *testing.T) {
	raw := NewRawSet()
	raw.Put("title", Pattern(`\w+`))
	raw.Put("", Pattern(`\w+`))
	raw.Put("bad", Structured{QueryVar: "s", Pattern: `\w+`})
	raw.Put("post_type", Pattern(`[\w\-]+`))
	raw.Put("empty", Pattern(""))

	reg, errs := Build(raw)

	assert.Equal(t, []string{"title", "post_type"}, reg.Keys())
	require.Len(t, errs, 3)
	assert.Equal(t, ErrEmptyKey, errs[0].Code)
	assert.Equal(t, ErrReservedQueryVar, errs[1].Code)
	assert.Equal(t, ErrEmptyPattern, errs[2].Code)
}

func TestBuildPreservesOrder(t *testing.T) {
	raw := NewRawSet()
	for _, k := range []string{"zeta", "alpha", "mid"} {
		raw.Put(k, Pattern(`\w+`))
	}

	reg, errs := Build(raw)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, reg.Keys())

	defs := reg.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "alpha", defs[1].Key)
}

func TestBuildNil(t *testing.T) {
	reg, errs := Build(nil)
	assert.Empty(t, errs)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryLookup(t *testing.T) {
	reg := DefaultRegistry()

	def, ok := reg.Lookup("p")
	require.True(t, ok)
	assert.Equal(t, "post_id", def.QueryVar)

	_, ok = reg.Lookup("post_id")
	assert.False(t, ok, "lookup is by operator key, not query variable")
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, reg.Keys())
	assert.Nil(t, reg.Definitions())
	_, ok := reg.Lookup("title")
	assert.False(t, ok)
}

func TestDefinitionsReturnsCopy(t *testing.T) {
	reg := DefaultRegistry()
	defs := reg.Definitions()
	defs[0].QueryVar = "mutated"

	def, _ := reg.Lookup("p")
	assert.Equal(t, "post_id", def.QueryVar)
}

// =============================================================================
// Defaults
// =============================================================================

func TestDefaults(t *testing.T) {
	reg, errs := Build(Defaults())
	require.Empty(t, errs)
	assert.Equal(t, []string{"p", "page_id", "post_status", "post_type", "title"}, reg.Keys())

	vars := make([]string, 0, reg.Len())
	for _, d := range reg.Definitions() {
		vars = append(vars, d.QueryVar)
	}
	assert.Equal(t, []string{"post_id", "page_id", "post_status", "post_type", "title"}, vars)
}
