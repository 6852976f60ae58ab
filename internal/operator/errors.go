package operator

import "fmt"

// Definition error codes (E200-E299)
const (
	ErrEmptyKey         = "E201" // operator key is empty
	ErrEmptyPattern     = "E202" // pattern is empty or missing
	ErrEmptyQueryVar    = "E203" // query variable resolves to empty
	ErrReservedQueryVar = "E204" // query variable is the reserved search variable
	ErrInvalidPattern   = "E205" // pattern does not compile
	ErrUnknownSpec      = "E206" // entry is neither Pattern nor Structured
)

// DefinitionError reports why a raw entry was excluded from a Registry.
type DefinitionError struct {
	Key     string `json:"key"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("[%s] operator %q: %s: %s", e.Code, e.Key, e.Field, e.Message)
}
