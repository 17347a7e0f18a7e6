// Package server exposes the validation pipeline over HTTP.
//
// The surface is small: a health probe at /, the validation endpoint at
// /validate, Prometheus metrics at /metrics, and the recent audit log
// at /audit/recent. Malformed requests return 400 with a structured
// error body; validation outcomes, failed or not, return 200.
package server
