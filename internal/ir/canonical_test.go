package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalFields(t *testing.T) {
	f := Fields{
		"title": String("community"),
		"s":     String("hello world"),
	}

	data, err := MarshalCanonical(f)
	require.NoError(t, err)
	assert.Equal(t, `{"s":"hello world","title":"community"}`, string(data))
}

func TestMarshalCanonicalList(t *testing.T) {
	data, err := MarshalCanonical(Fields{"title": List{"alpha", "beta"}})
	require.NoError(t, err)
	assert.Equal(t, `{"title":["alpha","beta"]}`, string(data))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + COMBINING ACUTE ACCENT normalizes to U+00E9.
	data, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(data))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	data, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(data))

	// A literal backslash followed by u2028 text stays escaped.
	data, err = MarshalCanonical(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(data))
}

func TestMarshalCanonicalNestedMaps(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"z":     true,
		"cases": []any{map[string]any{"n": 2, "name": "x"}},
		"a":     int64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"cases":[{"n":2,"name":"x"}],"z":true}`, string(data))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": struct{}{}})
	assert.Error(t, err)
}
