package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenariosAgainstGolden(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestScenarioExpectations(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			res, err := Run(s)
			require.NoError(t, err)
			assert.Empty(t, Check(s, res))
		})
	}
}

func TestCheckReportsMismatches(t *testing.T) {
	s := &Scenario{
		Name: "inline",
		Request: map[string]any{
			"schema": map[string]any{
				"version": "1.0",
				"fields":  map[string]any{"age": "number"},
			},
			"rules": []any{},
			"data":  map[string]any{"age": 30},
		},
		Expect: &ExpectClause{
			Valid: false,
			Errors: []ExpectedError{
				{Field: "age", Code: "TYPE_MISMATCH"},
			},
		},
	}

	res, err := Run(s)
	require.NoError(t, err)

	mismatches := Check(s, res)
	require.Len(t, mismatches, 2)
	assert.Contains(t, mismatches[0], "expected valid=false")
	assert.Contains(t, mismatches[1], "expected error not found")
}

func TestRunRejectsBadSchema(t *testing.T) {
	s := &Scenario{
		Name: "rejected",
		Request: map[string]any{
			"schema": map[string]any{"fields": map[string]any{}},
			"data":   map[string]any{},
		},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema")
}

func TestLoadScenarioValidation(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "nope.yaml"))
	require.Error(t, err)
}
