package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// AssertionError is returned when a case expectation fails.
type AssertionError struct {
	Case     int            // Case index
	Search   string         // Case search text
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Query    map[string]any // Full query for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: cases[%d] %q\n", e.Case, e.Search)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nQuery:\n")
	keys := make([]string, 0, len(e.Query))
	for k := range e.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, "  %s = %v\n", k, e.Query[k])
	}

	return buf.String()
}

// checkCase validates expect (subset semantics) and absent clauses.
// Expected keys are checked in sorted order for stable output.
func checkCase(index int, c Case, query map[string]any) []error {
	var errs []error

	names := make([]string, 0, len(c.Expect))
	for name := range c.Expect {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		expected := c.Expect[name]
		actual, ok := query[name]
		if !ok {
			errs = append(errs, &AssertionError{
				Case:     index,
				Search:   c.Search,
				Expected: fmt.Sprintf("%s = %s", name, formatValue(expected)),
				Actual:   fmt.Sprintf("%s not set", name),
				Query:    query,
			})
			continue
		}
		if !valuesEqual(expected, actual) {
			errs = append(errs, &AssertionError{
				Case:     index,
				Search:   c.Search,
				Expected: fmt.Sprintf("%s = %s", name, formatValue(expected)),
				Actual:   fmt.Sprintf("%s = %s", name, formatValue(actual)),
				Query:    query,
			})
		}
	}

	for _, name := range c.Absent {
		if actual, ok := query[name]; ok {
			errs = append(errs, &AssertionError{
				Case:     index,
				Search:   c.Search,
				Expected: fmt.Sprintf("%s not set", name),
				Actual:   fmt.Sprintf("%s = %s", name, formatValue(actual)),
				Query:    query,
			})
		}
	}

	return errs
}

// valuesEqual compares an expected YAML value with a query variable.
// A scalar only matches a string; a list only matches a list of the same
// strings in the same order.
func valuesEqual(expected, actual any) bool {
	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		return ok && act == exp
	case []any:
		act, ok := asStrings(actual)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i, item := range exp {
			if s, ok := item.(string); !ok || s != act[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asStrings(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func formatValue(v any) string {
	if list, ok := asStrings(v); ok {
		quoted := slices.Clone(list)
		for i, s := range quoted {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v (%T)", v, v)
}
