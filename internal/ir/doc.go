// Package ir defines the value model shared by every stage of the
// validation pipeline: a closed, sealed-interface sum over the JSON
// value kinds, plus deterministic and canonical serialization and
// content-addressed hashing of validation requests.
package ir
