package harness

// CaseResult is the outcome of one parse case.
type CaseResult struct {
	// Search is the case's raw search text.
	Search string `json:"search"`

	// Query holds every query variable after parsing.
	Query map[string]any `json:"query"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every case met its expectations.
	Pass bool `json:"pass"`

	// Operators lists the registry keys in alternation order.
	Operators []string `json:"operators"`

	// Dropped describes operator entries excluded from the registry.
	Dropped []string `json:"dropped,omitempty"`

	// Cases holds one result per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Operators: []string{},
		Cases:     []CaseResult{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
