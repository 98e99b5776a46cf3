// Package api exposes the file-management service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fileharbor/internal/analytics"
	"fileharbor/internal/config"
	"fileharbor/internal/engine"
	"fileharbor/internal/filesystem"
	"fileharbor/internal/history"
	"fileharbor/internal/pathsafe"
	"fileharbor/internal/task"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	logger   *slog.Logger
	cfg      *config.Settings
	resolver *pathsafe.Resolver
	engine   *engine.Engine
	tasks    *task.Manager
	history  *history.Store
	stats    *analytics.StatsManager
	router   *chi.Mux
}

func NewServer(logger *slog.Logger, cfg *config.Settings, resolver *pathsafe.Resolver,
	eng *engine.Engine, tasks *task.Manager, hist *history.Store, stats *analytics.StatsManager) *Server {

	s := &Server{
		logger:   logger,
		cfg:      cfg,
		resolver: resolver,
		engine:   eng,
		tasks:    tasks,
		history:  hist,
		stats:    stats,
		router:   chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/files", s.handleListFiles)
		r.Get("/path-info", s.handlePathInfo)
		r.Get("/search", s.handleSearch)
		r.Get("/file-content", s.handleFileContent)

		r.Post("/create-folder", s.handleCreateFolder)
		r.Post("/create-file", s.handleCreateFile)
		r.Post("/update-file", s.handleUpdateFile)
		r.Post("/rename", s.handleRename)
		r.Post("/count-files", s.handleCountFiles)

		r.Delete("/delete", s.handleDelete)
		r.Post("/delete/batch", s.handleBatchDelete)
		r.Post("/copy/batch", s.handleBatchCopy)
		r.Post("/move", s.handleMove)
		r.Post("/move/batch", s.handleBatchMove)

		r.Get("/tasks/{id}/progress", s.handleTaskProgress)
		r.Post("/tasks/{id}/cancel", s.handleTaskCancel)

		r.Get("/history", s.handleGetHistory)
		r.Post("/history", s.handleSaveHistory)
		r.Get("/config", s.handleConfig)
		r.Get("/disk-usage", s.handleDiskUsage)
		r.Get("/stats", s.handleStats)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain sentinel errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pathsafe.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, pathsafe.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, filesystem.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, filesystem.ErrExists):
		status = http.StatusConflict
	case errors.Is(err, filesystem.ErrNotDirectory), errors.Is(err, filesystem.ErrIsDirectory):
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return false
	}
	return true
}
