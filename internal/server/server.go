package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/fieldgate/internal/engine"
	"github.com/roach88/fieldgate/internal/store"
)

// Server exposes the validation pipeline over HTTP.
type Server struct {
	cfg     Config
	log     *slog.Logger
	engine  *engine.Engine
	audit   *store.Store // nil disables the audit log
	metrics *Metrics
}

// New returns a configured server. The audit store may be nil.
func New(cfg Config, log *slog.Logger, eng *engine.Engine, audit *store.Store) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:     cfg,
		log:     log,
		engine:  eng,
		audit:   audit,
		metrics: NewMetrics(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/", s.handleRoot)
	r.Post("/validate", s.handleValidate)
	r.Get("/metrics", s.metrics.Handler().ServeHTTP)
	r.Get("/audit/recent", s.handleAuditRecent)

	return r
}

// Run starts the HTTP server and blocks until the context is canceled,
// a SIGINT/SIGTERM arrives, or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	s.log.Info("server listening", "addr", s.cfg.Addr)

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.shutdown(srv, errCh)
	case sig := <-stop:
		s.log.Info("shutting down", "signal", sig.String())
		runErr = s.shutdown(srv, errCh)
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return runErr
	}
	return nil
}

func (s *Server) shutdown(srv *http.Server, errCh <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
