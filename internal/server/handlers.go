package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/roach88/fieldgate/internal/engine"
	"github.com/roach88/fieldgate/internal/ir"
	"github.com/roach88/fieldgate/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "fieldgate",
		"version": engine.Version,
		"status":  "ok",
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.Observe(store.OutcomeRejected, time.Since(start))
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.metrics.Observe(store.OutcomeRejected, time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	var req engine.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.metrics.Observe(store.OutcomeRejected, time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	reqHash := s.hashRequest(body)

	res, err := s.engine.Validate(&req)
	if err != nil {
		if engine.IsRequestError(err) {
			s.metrics.Observe(store.OutcomeRejected, time.Since(start))
			s.recordAudit(r, reqHash, store.OutcomeRejected, nil)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.log.Error("validation pipeline failed",
			"request_id", RequestIDFrom(r.Context()), "error", err)
		s.metrics.Observe(store.OutcomeRejected, time.Since(start))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	outcome := store.OutcomeValid
	if !res.Valid() {
		outcome = store.OutcomeInvalid
	}
	s.metrics.Observe(outcome, time.Since(start))
	s.recordAudit(r, reqHash, outcome, res.Errors)

	writeJSON(w, http.StatusOK, res)
}

// hashRequest content-addresses the request body for the audit log.
// A body that does not decode to the expected shape still hashes; the
// missing parts are treated as null.
func (s *Server) hashRequest(body []byte) string {
	doc, err := ir.FromJSON(body)
	if err != nil {
		return ""
	}
	obj, ok := doc.(ir.Object)
	if !ok {
		return ""
	}
	rules, _ := obj["rules"].(ir.Array)
	hash, err := ir.RequestHash(obj["schema"], obj["data"], rules)
	if err != nil {
		return ""
	}
	return hash
}

func (s *Server) recordAudit(r *http.Request, reqHash, outcome string, entries []engine.Entry) {
	if s.audit == nil {
		return
	}

	errorsJSON := "[]"
	if len(entries) > 0 {
		if data, err := json.Marshal(entries); err == nil {
			errorsJSON = string(data)
		}
	}

	rec := store.Record{
		ID:          RequestIDFrom(r.Context()),
		RequestHash: reqHash,
		Outcome:     outcome,
		ErrorCount:  len(entries),
		ErrorsJSON:  errorsJSON,
		CreatedAt:   time.Now(),
	}
	if rec.ID == "" {
		rec.ID = "unknown"
	}

	if err := s.audit.Write(r.Context(), rec); err != nil {
		s.log.Error("audit write failed", "request_id", rec.ID, "error", err)
	}
}

func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "audit log disabled"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be an integer between 1 and 500"})
			return
		}
		limit = n
	}

	filter := store.Filter{Outcome: r.URL.Query().Get("outcome"), Limit: limit}
	if err := filter.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	records, err := s.audit.Search(r.Context(), filter)
	if err != nil {
		s.log.Error("audit read failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
