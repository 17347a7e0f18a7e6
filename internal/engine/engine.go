package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/fieldgate/internal/expr"
	"github.com/roach88/fieldgate/internal/ir"
	"github.com/roach88/fieldgate/internal/tmpl"
)

// Request is one validation request: a schema, a list of raw rule
// records, and the data record to validate. Rules stay raw because a
// malformed rule must surface as a per-rule error, not a request
// decode failure.
type Request struct {
	Schema *Schema   `json:"schema"`
	Rules  ir.Array  `json:"rules"`
	Data   ir.Object `json:"data"`
}

// Result is the outcome of a validation run: either the finalized
// working record or an aggregated error collection, never both.
type Result struct {
	ValidatedData ir.Object `json:"validatedData,omitempty"`
	Errors        []Entry   `json:"errors,omitempty"`
}

// Valid reports whether the run produced no errors.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Engine runs the validation pipeline. It holds no per-request state;
// one instance serves any number of concurrent requests.
type Engine struct{}

// New returns a validation engine.
func New() *Engine {
	return &Engine{}
}

// Validate runs the five pipeline stages in order: schema admission,
// field-spec normalization, computed-field resolution, type validation
// with coercion, and rule execution. The pipeline halts at the first
// stage producing errors and returns that stage's collection.
//
// A non-nil error is always a *RequestError (malformed request); every
// validation outcome, failed or not, is expressed in the Result.
func (e *Engine) Validate(req *Request) (*Result, error) {
	// Stage 1: schema admission.
	if err := req.Schema.Admit(); err != nil {
		return nil, err
	}

	// Stage 2: field-spec normalization.
	fields := req.Schema.NormalizedFields()

	// The working record is the only mutable state; it starts as a
	// clone so the caller's data is never touched.
	working := req.Data.Clone()
	if working == nil {
		working = ir.Object{}
	}

	// Stage 3: computed-field resolution, in declaration order. Each
	// resolved value is stored back immediately so later computed
	// fields can reference it.
	for _, c := range req.Schema.Computed {
		resolved, err := tmpl.Resolve(c.Template, working)
		if err != nil {
			code := CodeTemplate
			if tmpl.IsMaxDepth(err) {
				code = CodeTemplateDepth
			}
			return &Result{Errors: []Entry{{Field: c.Name, Code: code, Message: err.Error()}}}, nil
		}
		working[c.Name] = ir.String(resolved)
	}

	// Stage 4: type validation with coercion.
	if errs := checkTypes(fields, working); len(errs) > 0 {
		return &Result{Errors: errs}, nil
	}

	// Stage 5: rule execution, strictly in request order.
	if errs := e.runRules(req.Rules, working); len(errs) > 0 {
		return &Result{Errors: errs}, nil
	}

	return &Result{ValidatedData: working}, nil
}

// checkTypes validates every declared field present in the working
// record, coercing string values toward number and boolean expectations
// first. Declared fields absent from the record are optional. All
// mismatches are collected; none aborts the stage.
func checkTypes(fields []FieldSpec, working ir.Object) []Entry {
	var errs []Entry
	for _, f := range fields {
		val, ok := working[f.Name]
		if !ok {
			continue
		}

		if coerced, ok := coerce(val, f.Type); ok {
			working[f.Name] = coerced
			val = coerced
		}

		if !matchesType(val, f.Type) {
			errs = append(errs, Entry{
				Field:   f.Name,
				Code:    CodeTypeMismatch,
				Message: fmt.Sprintf("expected %s, got %s", f.Type, ir.Kind(val)),
			})
		}
	}
	return errs
}

// coerce attempts the string-to-number and string-to-boolean
// conversions. Failures are swallowed: the original value is retained
// and surfaced only if the type check then fails.
func coerce(val ir.Value, expected FieldType) (ir.Value, bool) {
	s, isString := val.(ir.String)
	if !isString {
		return nil, false
	}

	switch expected {
	case TypeNumber:
		text := string(s)
		if strings.Contains(text, ".") {
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				return ir.Float(f), true
			}
			return nil, false
		}
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return ir.Int(n), true
		}

	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(string(s))) {
		case "true":
			return ir.Bool(true), true
		case "false":
			return ir.Bool(false), true
		}
	}
	return nil, false
}

// matchesType reports whether a value satisfies a normalized type tag.
// Booleans are a distinct kind: a boolean never satisfies "number".
func matchesType(val ir.Value, expected FieldType) bool {
	switch expected {
	case TypeString:
		_, ok := val.(ir.String)
		return ok
	case TypeNumber:
		switch val.(type) {
		case ir.Int, ir.Float:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := val.(ir.Bool)
		return ok
	default:
		return false
	}
}

// runRules parses and executes each raw rule in order. Failures local
// to one rule are isolated: a malformed or erroring rule never blocks
// its siblings.
func (e *Engine) runRules(rules ir.Array, working ir.Object) []Entry {
	var errs []Entry
	for _, raw := range rules {
		rule, err := ParseRule(raw)
		if err != nil {
			errs = append(errs, Entry{
				Rule:    bestEffortID(raw),
				Code:    CodeRuleInvalid,
				Message: err.Error(),
			})
			continue
		}

		if rule.Level != LevelField {
			continue
		}

		value, ok := working[rule.Field]
		if !ok {
			value = ir.Null{}
		}
		env := ir.Object{"value": value, "data": working}

		res, err := expr.Evaluate(rule.Condition, env)
		if err != nil {
			errs = append(errs, Entry{
				Rule:    rule.ID,
				Field:   rule.Field,
				Code:    CodeRuleEval,
				Message: err.Error(),
			})
			continue
		}

		if rule.Action == ActionValidate && !ir.Truthy(res) {
			errs = append(errs, Entry{
				Rule:    rule.ID,
				Field:   rule.Field,
				Code:    CodeRuleFailed,
				Message: fmt.Sprintf("rule %s failed: %s", rule.ID, rule.Condition),
			})
		}
	}
	return errs
}
