package operator

import (
	"fmt"
	"regexp"
	"slices"
)

// Definition is a validated, normalized operator.
type Definition struct {
	Key      string `json:"key"`
	QueryVar string `json:"query_var"`
	Pattern  string `json:"pattern"`
}

// Registry is an ordered, immutable set of operator Definitions keyed by
// operator key. A nil *Registry behaves as an empty registry.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// Build folds raw entries into a Registry.
//
// Invalid entries are dropped and returned as DefinitionErrors in raw order;
// len(errs) is the dropped count. Build never fails as a whole.
func Build(raw *RawSet) (*Registry, []*DefinitionError) {
	reg := &Registry{index: make(map[string]int)}
	if raw == nil {
		return reg, nil
	}

	var errs []*DefinitionError
	for _, key := range raw.keys {
		def, err := Normalize(key, raw.specs[key])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg.index[def.Key] = len(reg.defs)
		reg.defs = append(reg.defs, def)
	}

	return reg, errs
}

// Fragment returns the match expression for one operator as it is embedded
// in the combined pattern: the quoted key, a colon and the value pattern in
// a non-capturing group, all in one capture group.
func Fragment(key, pattern string) string {
	return "(" + regexp.QuoteMeta(key) + ":(?:" + pattern + "))"
}

// Normalize validates one raw entry and resolves its query variable.
func Normalize(key string, spec Spec) (Definition, *DefinitionError) {
	if key == "" {
		return Definition{}, &DefinitionError{
			Key:     key,
			Field:   "key",
			Code:    ErrEmptyKey,
			Message: "operator key must not be empty",
		}
	}

	var def Definition
	switch s := spec.(type) {
	case Pattern:
		def = Definition{Key: key, QueryVar: key, Pattern: string(s)}
	case Structured:
		def = Definition{Key: key, QueryVar: s.QueryVar, Pattern: s.Pattern}
		if def.QueryVar == "" {
			def.QueryVar = key
		}
	case *Structured:
		if s == nil {
			return Definition{}, unknownSpec(key, spec)
		}
		return Normalize(key, *s)
	default:
		return Definition{}, unknownSpec(key, spec)
	}

	if def.QueryVar == "" {
		return Definition{}, &DefinitionError{
			Key:     key,
			Field:   "query_var",
			Code:    ErrEmptyQueryVar,
			Message: "query variable must not be empty",
		}
	}
	if def.QueryVar == SearchVar {
		return Definition{}, &DefinitionError{
			Key:     key,
			Field:   "query_var",
			Code:    ErrReservedQueryVar,
			Message: fmt.Sprintf("query variable %q is reserved for the search term", SearchVar),
		}
	}
	if def.Pattern == "" {
		return Definition{}, &DefinitionError{
			Key:     key,
			Field:   "pattern",
			Code:    ErrEmptyPattern,
			Message: "pattern must not be empty",
		}
	}
	// A pattern can be valid alone and still escape its fragment (\Q
	// quotes the closing parentheses), which would break the alternation
	// for every operator.
	if _, err := regexp.Compile(Fragment(def.Key, def.Pattern)); err != nil {
		return Definition{}, &DefinitionError{
			Key:     key,
			Field:   "pattern",
			Code:    ErrInvalidPattern,
			Message: err.Error(),
		}
	}

	return def, nil
}

func unknownSpec(key string, spec Spec) *DefinitionError {
	return &DefinitionError{
		Key:     key,
		Field:   "spec",
		Code:    ErrUnknownSpec,
		Message: fmt.Sprintf("unsupported operator entry: %T", spec),
	}
}

// Len returns the number of operators.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}

// Lookup returns the Definition registered under key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	i, ok := r.index[key]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the operators in registration order.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	return slices.Clone(r.defs)
}

// Keys returns the operator keys in registration order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.defs))
	for i, d := range r.defs {
		keys[i] = d.Key
	}
	return keys
}
