package engine

// Version is the validation engine version, reported by the health
// endpoint and the CLI.
const Version = "0.1.0"
