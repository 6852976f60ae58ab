package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Query shapes.
const (
	ShapeArgs = "args"
	ShapeVars = "vars"
)

// Scenario defines a parse scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Operators lists CUE operator definition files to load after the
	// defaults. Paths are relative to the scenario file location.
	Operators []string `yaml:"operators,omitempty"`

	// Defaults controls the built-in operators. Nil means enabled.
	Defaults *bool `yaml:"defaults,omitempty"`

	// Shape selects plain args ("args", the default) or a stateful query
	// object ("vars").
	Shape string `yaml:"shape,omitempty"`

	// Cases are parsed in order.
	Cases []Case `yaml:"cases"`
}

// Case is one parse request and its expectations.
type Case struct {
	// Search is the raw search text stored under the search variable.
	Search string `yaml:"search"`

	// Args are additional query variables present before parsing.
	Args map[string]any `yaml:"args,omitempty"`

	// Ignore sets the bypass flag.
	Ignore bool `yaml:"ignore,omitempty"`

	// Expect holds expected query variables after parsing (subset match).
	// Values are strings or lists of strings.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Absent lists query variables that must not be set after parsing.
	Absent []string `yaml:"absent,omitempty"`
}

// DefaultsEnabled reports whether the built-in operators apply.
func (s *Scenario) DefaultsEnabled() bool {
	return s.Defaults == nil || *s.Defaults
}

// LoadScenario reads and parses a scenario YAML file.
// Operator paths are resolved relative to the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML, resolving operator paths against
// basePath.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve operator paths BEFORE validation
	for i, opPath := range scenario.Operators {
		if !filepath.IsAbs(opPath) && basePath != "" {
			scenario.Operators[i] = filepath.Join(basePath, opPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Shape {
	case "", ShapeArgs, ShapeVars:
	default:
		return fmt.Errorf("shape must be %q or %q, got %q", ShapeArgs, ShapeVars, s.Shape)
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for _, opPath := range s.Operators {
		if _, err := os.Stat(opPath); os.IsNotExist(err) {
			return fmt.Errorf("operator file not found: %s", opPath)
		}
	}

	for i, c := range s.Cases {
		for name, v := range c.Expect {
			if !isExpectValue(v) {
				return fmt.Errorf("cases[%d].expect.%s: must be a string or list of strings, got %T", i, name, v)
			}
		}
		for j, name := range c.Absent {
			if name == "" {
				return fmt.Errorf("cases[%d].absent[%d]: name is required", i, j)
			}
			if _, ok := c.Expect[name]; ok {
				return fmt.Errorf("cases[%d]: %q is both expected and absent", i, name)
			}
		}
	}

	return nil
}

func isExpectValue(v any) bool {
	switch val := v.(type) {
	case string:
		return true
	case []any:
		for _, item := range val {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
