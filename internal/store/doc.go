// Package store persists the validation audit log in SQLite.
//
// Every request handled by the validation endpoint is recorded with its
// request hash, outcome, and any validation errors, so operators can
// inspect recent activity without scraping logs. The database runs in
// WAL mode with a single writer connection.
package store
