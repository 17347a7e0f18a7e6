package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fieldgate/internal/engine"
)

// Scenario defines a conformance test case for the validation pipeline.
// Scenarios are YAML documents carrying a full request plus the expected
// outcome, so pipeline behavior can be pinned down without writing Go.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden
	// file name for RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Request is the full validation request: schema, rules, data.
	Request map[string]any `yaml:"request"`

	// Expect specifies the expected outcome. If nil, the scenario only
	// asserts that the request is not rejected.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected pipeline outcome.
type ExpectClause struct {
	// Valid is the expected overall verdict.
	Valid bool `yaml:"valid"`

	// Errors are the expected error entries. Subset match - each listed
	// entry must appear in the result with matching field, rule, and
	// code; the message is compared only when given.
	Errors []ExpectedError `yaml:"errors,omitempty"`
}

// ExpectedError is one expected entry in the error collection.
type ExpectedError struct {
	Field   string `yaml:"field,omitempty"`
	Rule    string `yaml:"rule,omitempty"`
	Code    string `yaml:"code"`
	Message string `yaml:"message,omitempty"`
}

// LoadScenario reads a single scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if s.Request == nil {
		return nil, fmt.Errorf("scenario %s has no request", path)
	}
	return &s, nil
}

// LoadScenarios reads every *.yaml scenario in a directory, sorted by
// file name for stable test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Run executes the scenario's request through the pipeline.
// A rejected request surfaces as the returned error.
func Run(s *Scenario) (*engine.Result, error) {
	// Round-trip through JSON so the schema decoder sees declaration
	// order and the value model applies its usual number handling.
	raw, err := json.Marshal(s.Request)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var req engine.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	return engine.New().Validate(&req)
}

// Check compares a pipeline result against the scenario's expectations
// and returns one message per mismatch. An empty slice means the
// scenario passed.
func Check(s *Scenario, res *engine.Result) []string {
	if s.Expect == nil {
		return nil
	}

	var mismatches []string
	if res.Valid() != s.Expect.Valid {
		mismatches = append(mismatches,
			fmt.Sprintf("expected valid=%v, got valid=%v", s.Expect.Valid, res.Valid()))
	}

	for _, want := range s.Expect.Errors {
		if !containsEntry(res.Errors, want) {
			mismatches = append(mismatches,
				fmt.Sprintf("expected error not found: field=%q rule=%q code=%q", want.Field, want.Rule, want.Code))
		}
	}
	return mismatches
}

func containsEntry(entries []engine.Entry, want ExpectedError) bool {
	for _, e := range entries {
		if e.Field != want.Field || e.Rule != want.Rule || string(e.Code) != want.Code {
			continue
		}
		if want.Message != "" && e.Message != want.Message {
			continue
		}
		return true
	}
	return false
}
