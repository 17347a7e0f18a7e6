package engine

import (
	"fmt"

	"github.com/roach88/fieldgate/internal/ir"
)

// LevelField is the only rule level that executes; every other level is
// a forward-compatibility placeholder and is silently skipped.
const LevelField = "field"

// ActionValidate is the only enforced action; other action values are
// currently no-ops.
const ActionValidate = "validate"

// placeholderID stands in for a rule whose id cannot be recovered.
const placeholderID = "<unknown>"

// Rule is a parsed, immutable validation rule. Ownership is transient:
// rules are parsed per request and discarded with it.
type Rule struct {
	ID        string
	Level     string
	Field     string
	Condition string
	Action    string
}

// ParseRule converts a raw rule record into a Rule. id, level,
// condition, and action are required strings; field is optional.
func ParseRule(v ir.Value) (Rule, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return Rule{}, fmt.Errorf("rule must be an object, got %s", ir.Kind(v))
	}

	var r Rule
	var err error
	if r.ID, err = requiredString(obj, "id"); err != nil {
		return Rule{}, err
	}
	if r.Level, err = requiredString(obj, "level"); err != nil {
		return Rule{}, err
	}
	if r.Condition, err = requiredString(obj, "condition"); err != nil {
		return Rule{}, err
	}
	if r.Action, err = requiredString(obj, "action"); err != nil {
		return Rule{}, err
	}

	if f, ok := obj["field"]; ok {
		switch fv := f.(type) {
		case ir.String:
			r.Field = string(fv)
		case ir.Null:
			// Explicit null is the same as absent.
		default:
			return Rule{}, fmt.Errorf("rule field must be a string, got %s", ir.Kind(f))
		}
	}

	return r, nil
}

func requiredString(obj ir.Object, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("rule is missing %q", key)
	}
	s, ok := v.(ir.String)
	if !ok {
		return "", fmt.Errorf("rule %q must be a string, got %s", key, ir.Kind(v))
	}
	return string(s), nil
}

// bestEffortID recovers a rule id from a malformed record for error
// reporting, falling back to a placeholder.
func bestEffortID(v ir.Value) string {
	obj, ok := v.(ir.Object)
	if !ok {
		return placeholderID
	}
	if id, ok := obj["id"].(ir.String); ok && id != "" {
		return string(id)
	}
	return placeholderID
}
