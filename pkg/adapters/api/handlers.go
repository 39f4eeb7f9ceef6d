// Package api exposes a note store over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aretw0/folio/pkg/core"
)

// Server holds the HTTP handlers dependencies
type Server struct {
	repo   core.Repository
	logger *slog.Logger
}

// New creates a new API server over repo.
func New(repo core.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repo: repo, logger: logger}
}

// Router returns the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HealthCheck)
		r.Get("/notes", s.ListNotes)
		r.Post("/notes", s.CreateNote)
		r.Delete("/notes", s.DeleteNote)
		r.Get("/notes/{id}", s.GetNote)
		r.Put("/notes/{id}", s.SaveNote)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListNotes handles GET /api/notes
// With ?summary=true and an indexing store, only summaries are returned.
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("summary") == "true" {
		if idx, ok := s.repo.(core.Indexer); ok {
			summaries, err := idx.Summaries(r.Context())
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, summaries)
			return
		}
	}

	notes, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if notes == nil {
		notes = []core.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /api/notes/{id}
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// CreateNote handles POST /api/notes
// A missing id is replaced by a random UUID.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	var n core.Note
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	created, err := s.repo.Create(r.Context(), n)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// SaveNote handles PUT /api/notes/{id}
func (s *Server) SaveNote(w http.ResponseWriter, r *http.Request) {
	var n core.Note
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.ID = chi.URLParam(r, "id")

	if err := s.repo.Save(r.Context(), n); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNote handles DELETE /api/notes?path=<location>
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("path")
	if location == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	if err := s.repo.Delete(r.Context(), location); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /api/health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusFor maps store errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnauthorized), errors.Is(err, core.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidID), errors.Is(err, core.ErrInvalidMetadata):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
