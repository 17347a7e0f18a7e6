// Package expr implements the restricted expression language used for
// rule conditions.
//
// Expressions arrive inside HTTP request bodies and are therefore
// treated as hostile input. The grammar is a closed set: literals,
// variable lookup, arithmetic, chainable comparisons, short-circuit
// and/or, subscripts, and list literals. Everything else - attribute
// access, calls, assignment, bitwise operators, control flow - is
// rejected with a structured error rather than sandboxed. Parsing is
// bounded by token-count and nesting-depth caps, so no input can cause
// unbounded recursion or memory growth.
package expr
