// Package cli implements the fieldgate command-line interface.
//
// Two commands: check runs the pipeline once against a .json or .cue
// request document, serve runs the HTTP server. Output is text or JSON
// per the --format flag; exit codes distinguish validation failures
// from command errors.
package cli
