package api

import (
	"net/http"
	"os"
	"path/filepath"

	"fileharbor/internal/engine"
	"fileharbor/internal/filesystem"

	"github.com/go-chi/chi/v5"
)

type batchDeleteRequest struct {
	Paths     []string `json:"paths"`
	AsyncMode bool     `json:"async_mode"`
}

func (s *Server) handleBatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Paths) == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "paths is required"})
		return
	}

	if req.AsyncMode {
		taskID := s.engine.StartBatchDelete(req.Paths)
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "async", "task_id": taskID})
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.BatchDelete(req.Paths))
}

type batchCopyRequest struct {
	SrcPaths       []string `json:"src_paths"`
	DestPath       string   `json:"dest_path"`
	Overwrite      bool     `json:"overwrite"`
	VerifyChecksum bool     `json:"verify_checksum"`
	AsyncMode      bool     `json:"async_mode"`
}

// resolveBatchDest validates the shared destination of a copy or move batch:
// it must resolve inside the allowed tree and be an existing directory.
func (s *Server) resolveBatchDest(w http.ResponseWriter, raw string) (string, bool) {
	dest, err := s.resolver.Resolve(raw)
	if err != nil {
		s.writeError(w, err)
		return "", false
	}
	info, err := os.Stat(dest)
	if err != nil {
		s.writeError(w, filesystem.ErrNotFound)
		return "", false
	}
	if !info.IsDir() {
		s.writeError(w, filesystem.ErrNotDirectory)
		return "", false
	}
	return dest, true
}

func (s *Server) handleBatchCopy(w http.ResponseWriter, r *http.Request) {
	var req batchCopyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.SrcPaths) == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "src_paths is required"})
		return
	}

	dest, ok := s.resolveBatchDest(w, req.DestPath)
	if !ok {
		return
	}
	opts := engine.Options{Overwrite: req.Overwrite, VerifyChecksum: req.VerifyChecksum}

	if req.AsyncMode {
		taskID := s.engine.StartBatchCopy(req.SrcPaths, dest, opts)
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "async", "task_id": taskID})
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.BatchCopy(req.SrcPaths, dest, opts))
}

func (s *Server) handleBatchMove(w http.ResponseWriter, r *http.Request) {
	var req batchCopyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.SrcPaths) == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "src_paths is required"})
		return
	}

	dest, ok := s.resolveBatchDest(w, req.DestPath)
	if !ok {
		return
	}
	opts := engine.Options{Overwrite: req.Overwrite, VerifyChecksum: req.VerifyChecksum}

	if req.AsyncMode {
		taskID := s.engine.StartBatchMove(req.SrcPaths, dest, opts)
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "async", "task_id": taskID})
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.BatchMove(req.SrcPaths, dest, opts))
}

type moveRequest struct {
	SrcPath  string `json:"src_path"`
	DestPath string `json:"dest_path"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}

	src, err := s.resolver.Resolve(req.SrcPath)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := os.Lstat(src); err != nil {
		s.writeError(w, filesystem.ErrNotFound)
		return
	}

	dest, err := s.resolver.Resolve(req.DestPath)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// A directory destination means "move into"; anything else must not
	// exist yet. An existing file destination is a conflict, never an
	// implicit overwrite.
	finalDest := dest
	if info, err := os.Stat(dest); err == nil {
		if !info.IsDir() {
			s.writeError(w, filesystem.ErrExists)
			return
		}
		finalDest = filepath.Join(dest, filepath.Base(src))
	}
	if _, err := os.Lstat(finalDest); err == nil {
		s.writeError(w, filesystem.ErrExists)
		return
	}

	if info, err := os.Stat(src); err == nil && info.IsDir() {
		if finalDest == src || len(finalDest) > len(src) && finalDest[:len(src)+1] == src+string(filepath.Separator) {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "cannot move a directory into itself"})
			return
		}
	}

	if err := s.engine.SafeMove(src, finalDest, false); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "moved: " + src + " -> " + finalDest,
	})
}

func (s *Server) handleTaskProgress(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.tasks.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"detail": "task not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTaskCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.tasks.Get(id); !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"detail": "task not found"})
		return
	}
	accepted := s.tasks.Cancel(id)
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "cancelled": accepted})
}
