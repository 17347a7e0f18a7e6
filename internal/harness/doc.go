// Package harness runs YAML-defined conformance scenarios against the
// validation pipeline.
//
// A scenario carries a complete request (schema, rules, data) and the
// expected outcome. Scenarios pin pipeline behavior in data rather than
// Go, and RunWithGolden additionally snapshots the full result with
// golden files. New behavior gets a scenario before it gets code.
package harness
