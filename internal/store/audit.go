package store

import (
	"context"
	"fmt"
	"time"
)

// Outcome classifies how a validation request finished.
const (
	OutcomeValid    = "valid"    // request produced validatedData
	OutcomeInvalid  = "invalid"  // request produced validation errors
	OutcomeRejected = "rejected" // request was rejected before the pipeline ran
)

// Record is one audit log entry for a validation request.
type Record struct {
	ID          string    `json:"id"`
	RequestHash string    `json:"requestHash"`
	Outcome     string    `json:"outcome"`
	ErrorCount  int       `json:"errorCount"`
	ErrorsJSON  string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Write inserts an audit record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., CHECK on outcome) will still return errors.
func (s *Store) Write(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO validations
		(id, request_hash, outcome, error_count, errors_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.RequestHash,
		rec.Outcome,
		rec.ErrorCount,
		rec.ErrorsJSON,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}

	return nil
}

// Recent returns the most recent audit records, newest first.
// Ordering is deterministic: created_at DESC, then id DESC for ties.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.Search(ctx, Filter{Limit: limit})
}
