package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldgate/internal/ir"
)

func TestParseRule(t *testing.T) {
	raw := ir.Object{
		"id":        ir.String("r1"),
		"level":     ir.String("field"),
		"field":     ir.String("age"),
		"condition": ir.String("value >= 18"),
		"action":    ir.String("validate"),
	}

	rule, err := ParseRule(raw)
	require.NoError(t, err)
	assert.Equal(t, Rule{
		ID:        "r1",
		Level:     "field",
		Field:     "age",
		Condition: "value >= 18",
		Action:    "validate",
	}, rule)
}

func TestParseRuleOptionalField(t *testing.T) {
	raw := ir.Object{
		"id":        ir.String("r1"),
		"level":     ir.String("record"),
		"condition": ir.String("true"),
		"action":    ir.String("validate"),
	}

	rule, err := ParseRule(raw)
	require.NoError(t, err)
	assert.Empty(t, rule.Field)

	raw["field"] = ir.Null{}
	rule, err = ParseRule(raw)
	require.NoError(t, err)
	assert.Empty(t, rule.Field)
}

func TestParseRuleMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  ir.Value
	}{
		{"not an object", ir.String("nope")},
		{"missing id", ir.Object{"level": ir.String("field"), "condition": ir.String("true"), "action": ir.String("validate")}},
		{"missing condition", ir.Object{"id": ir.String("r1"), "level": ir.String("field"), "action": ir.String("validate")}},
		{"non-string level", ir.Object{"id": ir.String("r1"), "level": ir.Int(1), "condition": ir.String("true"), "action": ir.String("validate")}},
		{"non-string field", ir.Object{"id": ir.String("r1"), "level": ir.String("field"), "field": ir.Int(3), "condition": ir.String("true"), "action": ir.String("validate")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestBestEffortID(t *testing.T) {
	assert.Equal(t, "r9", bestEffortID(ir.Object{"id": ir.String("r9")}))
	assert.Equal(t, placeholderID, bestEffortID(ir.Object{"id": ir.Int(9)}))
	assert.Equal(t, placeholderID, bestEffortID(ir.String("not an object")))
}
