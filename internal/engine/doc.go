// Package engine implements the validation pipeline: schema admission,
// field-spec normalization, computed-field resolution, type validation
// with string coercion, and rule execution with per-rule error
// isolation. A request is processed synchronously with no shared
// mutable state; the working record lives exactly as long as the call.
package engine
