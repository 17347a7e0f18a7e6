package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Filter narrows an audit log search. Zero values mean "no constraint".
type Filter struct {
	Outcome   string    // exact outcome match
	Since     time.Time // created_at >= Since
	Until     time.Time // created_at < Until
	MinErrors int       // error_count >= MinErrors
	Limit     int       // defaults to 20
}

// Validate rejects filters the schema cannot satisfy.
func (f Filter) Validate() error {
	switch f.Outcome {
	case "", OutcomeValid, OutcomeInvalid, OutcomeRejected:
	default:
		return fmt.Errorf("unknown outcome %q", f.Outcome)
	}
	if f.MinErrors < 0 {
		return fmt.Errorf("min errors must be non-negative, got %d", f.MinErrors)
	}
	return nil
}

// compile builds the WHERE clause and parameter list for the filter.
// All values are parameterized, never interpolated.
func (f Filter) compile() (string, []any) {
	var preds []string
	var params []any

	if f.Outcome != "" {
		preds = append(preds, "outcome = ?")
		params = append(params, f.Outcome)
	}
	if !f.Since.IsZero() {
		preds = append(preds, "created_at >= ?")
		params = append(params, f.Since.UTC().Format(time.RFC3339Nano))
	}
	if !f.Until.IsZero() {
		preds = append(preds, "created_at < ?")
		params = append(params, f.Until.UTC().Format(time.RFC3339Nano))
	}
	if f.MinErrors > 0 {
		preds = append(preds, "error_count >= ?")
		params = append(params, f.MinErrors)
	}

	if len(preds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(preds, " AND "), params
}

// Search returns audit records matching the filter, newest first.
// Every query carries a deterministic ORDER BY with an id tiebreaker,
// so repeated searches over the same log return identical orderings.
func (s *Store) Search(ctx context.Context, f Filter) ([]Record, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("search audit records: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	where, params := f.compile()
	query := fmt.Sprintf(`
		SELECT id, request_hash, outcome, error_count, errors_json, created_at
		FROM validations%s
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, where)
	params = append(params, limit)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.RequestHash, &rec.Outcome, &rec.ErrorCount, &rec.ErrorsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}

	return records, nil
}
