// Package server exposes the lead pipeline over a small REST API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/config"
	"github.com/wcpay/gtm-agent/internal/enrich"
	"github.com/wcpay/gtm-agent/internal/leadgen"
	"github.com/wcpay/gtm-agent/internal/outreach"
	"github.com/wcpay/gtm-agent/internal/store"
)

// Server wires the pipeline components behind HTTP handlers.
type Server struct {
	store     store.Store
	enricher  *enrich.Enricher
	drafter   *outreach.Drafter
	sender    *outreach.Sender
	generator *leadgen.Generator
	cfg       config.ServerConfig
}

func New(st store.Store, e *enrich.Enricher, d *outreach.Drafter, s *outreach.Sender, g *leadgen.Generator, cfg config.ServerConfig) *Server {
	return &Server{store: st, enricher: e, drafter: d, sender: s, generator: g, cfg: cfg}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.handleListLeads)
			r.Post("/", s.handleCreateLead)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLead)
				r.Patch("/", s.handleUpdateLead)
				r.Delete("/", s.handleDeleteLead)
				r.Post("/enrich", s.handleEnrich)
				r.Post("/draft", s.handleDraft)
				r.Post("/send", s.handleSend)
			})
		})
		r.Post("/qualify/batch", s.handleQualifyBatch)
		r.Post("/generate", s.handleGenerate)
		r.Get("/followups/due", s.handleDueFollowUps)
		r.Post("/followups/process", s.handleProcessFollowUps)
	})

	return r
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, eris.Wrap(err, "store unreachable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps pipeline errors onto HTTP status codes. Anything not
// recognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, outreach.ErrNotEnriched),
		errors.Is(err, outreach.ErrAlreadySent),
		errors.Is(err, outreach.ErrNoEmail),
		errors.Is(err, outreach.ErrUnverifiedEmail),
		errors.Is(err, leadgen.ErrEmptyProfile),
		errors.Is(err, leadgen.ErrNoCompanies):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
