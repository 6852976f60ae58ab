package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/roach88/searchops/internal/compiler"
	"github.com/roach88/searchops/internal/operator"
	"github.com/roach88/searchops/internal/queryargs"
)

// Harness runs the cases of one scenario against one collector.
type Harness struct {
	collector *operator.Collector
	adapter   *queryargs.Adapter
	shape     string
}

// New builds a Harness for scenario: the built-in defaults when enabled,
// then every operator file in order.
func New(scenario *Scenario, logger *slog.Logger) (*Harness, error) {
	if logger == nil {
		// Suppress logs in tests
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var providers []operator.Provider
	if scenario.DefaultsEnabled() {
		providers = append(providers, operator.DefaultProvider)
	}
	for _, path := range scenario.Operators {
		f, errs := compiler.LoadFileAll(path)
		if f == nil {
			return nil, fmt.Errorf("load operators %s: %w", path, errors.Join(errs...))
		}
		for _, err := range errs {
			logger.Warn("operator entry skipped", "file", path, "error", err)
		}
		providers = append(providers, f.Provider())
	}

	collector := operator.NewCollector(logger, providers...)
	return &Harness{
		collector: collector,
		adapter:   queryargs.New(collector, logger),
		shape:     scenario.Shape,
	}, nil
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Collect operators (defaults, then scenario files)
// 2. Parse each case through the adapter in the scenario's query shape
// 3. Check expect and absent clauses, collecting every failure
func Run(scenario *Scenario) (*Result, error) {
	h, err := New(scenario, nil)
	if err != nil {
		return nil, err
	}
	return h.Run(scenario), nil
}

// Run executes scenario's cases.
func (h *Harness) Run(scenario *Scenario) *Result {
	result := NewResult()

	reg, dropped := h.collector.RegistryWithErrors()
	result.Operators = append(result.Operators, reg.Keys()...)
	for _, d := range dropped {
		result.Dropped = append(result.Dropped, d.Error())
	}

	for i, c := range scenario.Cases {
		query := h.parse(c)
		result.Cases = append(result.Cases, CaseResult{Search: c.Search, Query: query})

		for _, err := range checkCase(i, c, query) {
			result.AddError(err.Error())
		}
	}

	return result
}

// parse runs one case through the adapter and returns every query
// variable afterwards.
func (h *Harness) parse(c Case) map[string]any {
	initial := make(map[string]any, len(c.Args)+2)
	maps.Copy(initial, c.Args)
	initial[operator.SearchVar] = c.Search
	if c.Ignore {
		initial[queryargs.IgnoreOperatorsVar] = true
	}

	if h.shape == ShapeVars {
		q := queryargs.NewVars(initial)
		h.adapter.ParseQuery(q)
		return map[string]any(q.All())
	}
	return map[string]any(h.adapter.ParseArgs(queryargs.Args(initial)))
}
