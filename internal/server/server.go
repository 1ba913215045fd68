// Package server provides the HTTP surface: a chi router exposing the
// latest visibility evaluation, the alert settings, and a health probe.
// Cross-cutting concerns (request IDs, panic recovery, request logging)
// are applied before requests reach the handlers.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"auroracast/internal/store"
	"auroracast/internal/types"
)

// EvaluationSource yields the most recent evaluation, or nil before the
// first scheduler tick completes. Satisfied by *scheduler.Runner.
type EvaluationSource interface {
	Latest() *types.VisibilityEvaluation
}

// Server holds the handler dependencies and the router.
type Server struct {
	evals      EvaluationSource
	store      store.Store
	defaults   types.AlertState
	staleAfter time.Duration
	clock      types.Clock
	validate   *validator.Validate
	logger     *slog.Logger

	router *chi.Mux
}

// NewServer builds the router with middleware and routes mounted. The
// defaults alert state is surfaced until a caller persists an explicit one.
func NewServer(
	evals EvaluationSource,
	st store.Store,
	defaults types.AlertState,
	staleAfter time.Duration,
	clock types.Clock,
	logger *slog.Logger,
) *Server {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		evals:      evals,
		store:      st,
		defaults:   defaults,
		staleAfter: staleAfter,
		clock:      clock,
		validate:   validator.New(),
		logger:     logger,
		router:     chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/visibility", s.handleVisibility)
		r.Get("/alerts/settings", s.handleGetAlertSettings)
		r.Put("/alerts/settings", s.handlePutAlertSettings)
	})

	return s
}

// Handler returns the router as an http.Handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// recoverer catches panics in the handler chain, logs the stack trace, and
// writes a standardized 500 response. Mounted outermost after RequestID.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprintf("%v", rvr)),
					slog.String("stack", string(debug.Stack())),
				)
				s.writeError(w, r, types.NewAppError(
					types.ErrCodeInternalUnexpected, "an unexpected error occurred", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with method, path, status, and
// latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", s.clock.Now().Sub(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
