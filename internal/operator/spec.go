package operator

import "slices"

// SearchVar is the reserved query variable holding the free-text search term.
// No operator may target it.
const SearchVar = "s"

// Spec is a sealed interface for raw operator entries.
// Only Pattern and Structured implement it.
type Spec interface {
	spec() // Sealed - only these types implement it
}

// Pattern is the shorthand entry form: the value is the regular expression
// fragment and the query variable defaults to the operator key.
type Pattern string

func (Pattern) spec() {}

// Structured is the explicit entry form.
type Structured struct {
	// QueryVar is the target query variable. Empty defaults to the key.
	QueryVar string `json:"query_var,omitempty" yaml:"query_var,omitempty"`

	// Pattern is the regular expression fragment matching the value.
	Pattern string `json:"pattern" yaml:"pattern"`
}

func (Structured) spec() {}

// RawSet is an insertion-ordered collection of raw operator entries.
// Iteration order is the alternation order of the compiled pattern.
//
// Overwriting an existing key keeps its original position.
type RawSet struct {
	keys  []string
	specs map[string]Spec
}

// NewRawSet creates an empty RawSet.
func NewRawSet() *RawSet {
	return &RawSet{specs: make(map[string]Spec)}
}

// Put stores spec under key, replacing any existing entry.
func (s *RawSet) Put(key string, spec Spec) {
	if _, ok := s.specs[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.specs[key] = spec
}

// PutIfAbsent stores spec under key only when key is not present.
// Reports whether the entry was stored.
func (s *RawSet) PutIfAbsent(key string, spec Spec) bool {
	if _, ok := s.specs[key]; ok {
		return false
	}
	s.Put(key, spec)
	return true
}

// Merge puts every entry of other into s, in other's order.
func (s *RawSet) Merge(other *RawSet) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Put(k, other.specs[k])
	}
}

// Delete removes key from the set.
func (s *RawSet) Delete(key string) {
	if _, ok := s.specs[key]; !ok {
		return
	}
	delete(s.specs, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
}

// Get returns the entry stored under key.
func (s *RawSet) Get(key string) (Spec, bool) {
	spec, ok := s.specs[key]
	return spec, ok
}

// Keys returns the keys in insertion order.
func (s *RawSet) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of entries.
func (s *RawSet) Len() int {
	return len(s.keys)
}
