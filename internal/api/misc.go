package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"fileharbor/internal/analytics"
	"fileharbor/internal/filesystem"
	"fileharbor/internal/history"
	"fileharbor/internal/search"
)

// SearchResponse is the live-search payload.
type SearchResponse struct {
	Query string             `json:"query"`
	Path  string             `json:"path"`
	Depth int                `json:"depth"`
	Total int                `json:"total"`
	Items []filesystem.Entry `json:"items"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	depth, _ := strconv.Atoi(q.Get("depth"))
	maxResults, _ := strconv.Atoi(q.Get("max_results"))

	var ignore []string
	if raw := q.Get("ignore"); raw != "" {
		ignore = strings.Split(raw, ",")
	}

	target, err := s.resolver.Resolve(q.Get("path"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if strings.TrimSpace(query) == "" {
		s.writeJSON(w, http.StatusOK, SearchResponse{Query: query, Path: target, Depth: depth, Items: []filesystem.Entry{}})
		return
	}

	info, err := os.Stat(target)
	if err != nil {
		s.writeError(w, filesystem.ErrNotFound)
		return
	}
	if !info.IsDir() {
		s.writeError(w, filesystem.ErrNotDirectory)
		return
	}

	items := search.Run(target, search.Options{
		Query:      query,
		MaxDepth:   depth,
		Ignore:     ignore,
		MaxResults: maxResults,
		TypeFilter: q.Get("file_type"),
	})

	s.writeJSON(w, http.StatusOK, SearchResponse{
		Query: query,
		Path:  target,
		Depth: depth,
		Total: len(items),
		Items: items,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.history.Load())
}

type historyPayload struct {
	History []history.Item `json:"history"`
}

func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	var payload historyPayload
	if !s.decode(w, r, &payload) {
		return
	}
	if err := s.history.Save(payload.History); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "failed to save history: " + err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"defaultBasePath": s.cfg.StartDir,
		"isWindows":       s.cfg.IsWindows,
	})
}

func (s *Server) handleDiskUsage(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolver.Resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	usage, err := analytics.DiskUsage(target)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, usage)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	data, err := s.stats.GetStats(days)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}
