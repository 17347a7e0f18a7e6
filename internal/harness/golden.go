package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fieldgate/internal/engine"
)

// Snapshot captures a scenario outcome for golden comparison.
type Snapshot struct {
	ScenarioName string         `json:"scenarioName"`
	Valid        bool           `json:"valid"`
	Result       *engine.Result `json:"result"`
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file named after the scenario under testdata/.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error only when the request is rejected outright; result
// mismatches fail the test through goldie.
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	res, err := Run(s)
	if err != nil {
		return err
	}

	g := goldie.New(t)
	g.AssertJson(t, s.Name, Snapshot{
		ScenarioName: s.Name,
		Valid:        res.Valid(),
		Result:       res,
	})
	return nil
}
