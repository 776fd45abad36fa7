// Package api exposes the pipeline behind the single HTTP route.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Lllllllleong/audiotranscriptflow/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Runner executes one full pipeline invocation.
type Runner interface {
	Process(ctx context.Context) (*models.RunReport, error)
}

type Server struct {
	runner Runner
	debug  bool
}

func NewServer(runner Runner, debug bool) *Server {
	return &Server{runner: runner, debug: debug}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})
	// GET and POST run the pipeline identically; OPTIONS answers 200 with no
	// body for non-preflight probes (the cors middleware already handles
	// preflight).
	r.Get("/", s.run)
	r.Post("/", s.run)
	r.Options("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Process(r.Context())
	if err != nil {
		slog.Error("Run aborted.", "error", err)
		body := map[string]string{"error": err.Error()}
		if s.debug {
			body["stack"] = string(debug.Stack())
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}
