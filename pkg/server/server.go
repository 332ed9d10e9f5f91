// Package server exposes the dashboard views over HTTP.
//
// Routes:
//
//	GET /healthz                 build info
//	GET /views                   the view catalogue
//	GET /views/{view}            one rendered view (?format=svg|png|json)
//	GET /f1/choices              filter choices for the results table
//	GET /nfl/teams               teams in the EPA table
//
// View parameters are passed as query strings: season, week, team, preset,
// labels, upright, season_from, season_to, grand_prix, driver, top, width,
// height and refresh. Repeat grand_prix, team and driver to select several
// values on f1 views.
//
// Errors are JSON objects with the error code and message. Validation
// failures map to 400, missing data to 404, anything else to 500.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/statboard/pkg/config"
	"github.com/matzehuels/statboard/pkg/dashboard"
)

const shutdownTimeout = 5 * time.Second

// Server serves the dashboard views.
type Server struct {
	Runner *dashboard.Runner
	Config config.Config
	Logger *log.Logger
}

// New creates a server rendering through runner. Dataset paths and label
// presets come from cfg.
func New(runner *dashboard.Runner, cfg config.Config, logger *log.Logger) *Server {
	if runner == nil {
		runner = dashboard.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Config: cfg, Logger: logger}
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/views", s.handleViews)
	r.Get("/views/{view}", s.handleView)
	r.Get("/f1/choices", s.handleF1Choices)
	r.Get("/nfl/teams", s.handleNFLTeams)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
