package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/searchops/internal/ir"
)

// Snapshot serializes a scenario result as canonical JSON.
// Only deterministic content is included: operator keys, dropped entries
// and every case's final query.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	cases := make([]any, len(result.Cases))
	for i, c := range result.Cases {
		cases[i] = map[string]any{
			"search": c.Search,
			"query":  c.Query,
		}
	}

	snapshot := map[string]any{
		"scenario_name": scenarioName,
		"operators":     result.Operators,
		"cases":         cases,
	}
	if len(result.Dropped) > 0 {
		snapshot["dropped"] = result.Dropped
	}

	return ir.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
