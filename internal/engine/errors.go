package engine

import "errors"

// Code identifies the error category of a result entry.
type Code string

const (
	// CodeTemplate indicates a computed-field template failed to render.
	CodeTemplate Code = "TEMPLATE_ERROR"

	// CodeTemplateDepth indicates computed-field re-expansion exceeded
	// the depth guard.
	CodeTemplateDepth Code = "TEMPLATE_DEPTH_EXCEEDED"

	// CodeTypeMismatch indicates a field value does not match its
	// declared type after coercion.
	CodeTypeMismatch Code = "TYPE_MISMATCH"

	// CodeRuleInvalid indicates a rule record with malformed shape.
	CodeRuleInvalid Code = "RULE_INVALID"

	// CodeRuleEval indicates a rule condition that failed to evaluate.
	CodeRuleEval Code = "RULE_EVAL_ERROR"

	// CodeRuleFailed indicates a validate-action condition that
	// evaluated false.
	CodeRuleFailed Code = "RULE_FAILED"
)

// Entry is one error in an aggregated validation result. The shape is
// uniform across all failure sources so callers never need
// source-specific deserialization.
type Entry struct {
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// RequestError is a protocol-level rejection: the request itself is
// malformed (missing or invalid schema) and no validation result
// exists. Transports should map it to a distinct status.
type RequestError struct {
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// IsRequestError reports whether err is a protocol-level rejection.
// Uses errors.As to handle wrapped errors.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
