package compiler

import (
	"fmt"

	"github.com/roach88/searchops/internal/operator"
)

// ValidationError is a definition rule violation located in its source.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate applies the registry rules to every entry of f.
// Returns all errors found (does not fail-fast); each one names an entry
// that operator.Build would drop.
func Validate(f *File) []ValidationError {
	if f == nil || f.Set == nil {
		return nil
	}

	var errs []ValidationError
	for _, key := range f.Set.Keys() {
		spec, _ := f.Set.Get(key)
		if _, derr := operator.Normalize(key, spec); derr != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.%s.%s", OperatorPath, key, derr.Field),
				Message: derr.Message,
				Code:    derr.Code,
				Line:    f.Positions[key].Line(),
			})
		}
	}
	return errs
}
