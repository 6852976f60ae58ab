package queryargs

import (
	"maps"
	"strconv"
	"sync"
)

// IgnoreOperatorsVar is the query variable that disables operator parsing.
const IgnoreOperatorsVar = "ignore_search_operators"

// Query is the accessor contract shared by both query shapes.
type Query interface {
	// Get returns the value stored under name and whether it was present.
	Get(name string) (any, bool)

	// Set stores value under name.
	Set(name string, value any)
}

// Args is a plain query-argument mapping.
type Args map[string]any

// Get implements Query.
func (a Args) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// Set implements Query.
func (a Args) Set(name string, value any) {
	a[name] = value
}

// Clone returns a shallow copy of a. A nil Args clones to an empty one.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return maps.Clone(a)
}

// Vars is a stateful query object: variables are only reachable through
// its accessors.
//
// Thread-safety: all methods are safe for concurrent use.
type Vars struct {
	mu   sync.RWMutex
	vars map[string]any
}

// NewVars creates a Vars holding a copy of initial.
func NewVars(initial map[string]any) *Vars {
	vars := make(map[string]any, len(initial))
	maps.Copy(vars, initial)
	return &Vars{vars: vars}
}

// Get implements Query.
func (v *Vars) Get(name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.vars[name]
	return val, ok
}

// GetOr returns the value stored under name, or def when absent.
func (v *Vars) GetOr(name string, def any) any {
	if val, ok := v.Get(name); ok {
		return val
	}
	return def
}

// Set implements Query.
func (v *Vars) Set(name string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vars[name] = value
}

// All returns a snapshot of every variable.
func (v *Vars) All() Args {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(Args(v.vars))
}

// truthy interprets a flag value loosely: booleans as is, strings via
// strconv.ParseBool with "" and "0" false and other text true, numbers as
// non-zero. Absent values are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		return val != "" && val != "0"
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
