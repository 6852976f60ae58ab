package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing a query variable value.
// Only String and List implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// String is a single query variable value.
type String string

func (String) value() {}

// List is an ordered multi-valued query variable.
// Order is first-seen order within the search text.
type List []string

func (List) value() {}

// Fields maps query variable names to their values.
// Use SortedKeys() for deterministic iteration.
type Fields map[string]Value

// NewFields creates an empty Fields map.
func NewFields() Fields {
	return make(Fields)
}

// Append records value under name.
//
// The first value stored for a name is a String. A second value upgrades the
// entry to a List holding the earlier String followed by the new value; later
// values are appended to that List.
func (f Fields) Append(name, value string) {
	switch cur := f[name].(type) {
	case nil:
		f[name] = String(value)
	case String:
		f[name] = List{string(cur), value}
	case List:
		f[name] = append(cur, value)
	}
}

// Set stores value under name, replacing any previous value.
func (f Fields) Set(name string, value Value) {
	f[name] = value
}

// Lookup returns the value stored under name.
func (f Fields) Lookup(name string) (Value, bool) {
	v, ok := f[name]
	return v, ok
}

// Text returns the String stored under name, or "" when absent or multi-valued.
func (f Fields) Text(name string) string {
	if s, ok := f[name].(String); ok {
		return string(s)
	}
	return ""
}

// Clone returns a copy of f whose Lists do not share backing arrays with f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if l, ok := v.(List); ok {
			v = slices.Clone(l)
		}
		out[k] = v
	}
	return out
}

// Native converts f to plain Go values: string for String, []string for List.
// This is the shape written back into a host query.
func (f Fields) Native() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = ToNative(v)
	}
	return out
}

// ToNative converts a Value to string or []string.
func ToNative(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case List:
		return []string(slices.Clone(val))
	default:
		return nil
	}
}

// FromNative converts a plain Go value into a Value.
// Accepts string, []string and []any whose elements are all strings
// (the shape produced by YAML and JSON decoders).
func FromNative(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case []string:
		return List(slices.Clone(val)), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("list[%d]: expected string, got %T", i, elem)
			}
			list[i] = s
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (f Fields) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// MarshalJSON implements json.Marshaler for Fields with sorted keys.
// NOTE: This is NOT canonical marshaling - may have HTML escaping. Use
// MarshalCanonical for fingerprints.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range f.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := json.Marshal(ToNative(f[k]))
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Fields.
// Strings become String, arrays of strings become List.
func (f *Fields) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = make(Fields, len(raw))
	for k, v := range raw {
		val, err := FromNative(v)
		if err != nil {
			return fmt.Errorf("fields key %q: %w", k, err)
		}
		(*f)[k] = val
	}
	return nil
}
