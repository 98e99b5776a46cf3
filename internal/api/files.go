package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"fileharbor/internal/filesystem"
	"fileharbor/internal/volume"
)

// DirectoryResponse is the listing payload.
type DirectoryResponse struct {
	Type  string             `json:"type"`
	Items []filesystem.Entry `json:"items"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolver.Resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	items, err := filesystem.List(target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DirectoryResponse{Type: "directory", Items: items})
}

func (s *Server) handlePathInfo(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolver.Resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, filesystem.Probe(target))
}

func (s *Server) handleFileContent(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolver.Resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	content, err := filesystem.ReadText(target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": target, "content": content})
}

type createFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "name is required"})
		return
	}

	parent, err := s.resolver.Resolve(req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	created, err := filesystem.CreateFolder(parent, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("folder created: %s", created),
		"path":    created,
	})
}

type createFileRequest struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req createFileRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "name is required"})
		return
	}

	parent, err := s.resolver.Resolve(req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	created, err := filesystem.CreateFile(parent, req.Name, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("file created: %s", created),
		"path":    created,
	})
}

type updateFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (s *Server) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	var req updateFileRequest
	if !s.decode(w, r, &req) {
		return
	}

	target, err := s.resolver.Resolve(req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := filesystem.WriteText(target, req.Content); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

type renameRequest struct {
	OldPath string `json:"old_path"`
	NewName string `json:"new_name"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.NewName == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "new_name is required"})
		return
	}

	oldPath, err := s.resolver.Resolve(req.OldPath)
	if err != nil {
		s.writeError(w, err)
		return
	}

	newPath, err := filesystem.Rename(oldPath, req.NewName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("renamed: %s -> %s", oldPath, newPath),
		"path":    newPath,
	})
}

type countFilesRequest struct {
	Paths    []string `json:"paths"`
	MaxDepth int      `json:"max_depth"`
}

type countDetail struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleCountFiles(w http.ResponseWriter, r *http.Request) {
	var req countFilesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.MaxDepth <= 0 {
		req.MaxDepth = 3
	}

	total := 0
	details := make([]countDetail, 0, len(req.Paths))
	for _, raw := range req.Paths {
		target, err := s.resolver.Resolve(raw)
		if err != nil {
			details = append(details, countDetail{Path: raw, Type: "error", Error: err.Error()})
			continue
		}
		count := filesystem.CountFiles(target, req.MaxDepth)
		kind := "file"
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			kind = "directory"
		}
		total += count
		details = append(details, countDetail{Path: raw, Count: count, Type: kind})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"total_count": total, "details": details})
}

type deleteRequest struct {
	Path      string `json:"path"`
	AsyncMode bool   `json:"async_mode"`
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !s.decode(w, r, &req) {
		return
	}

	target, err := s.resolver.Resolve(req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := os.Lstat(target); err != nil {
		s.writeError(w, filesystem.ErrNotFound)
		return
	}

	if req.AsyncMode {
		taskID := s.engine.StartBatchDelete([]string{req.Path})
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "async", "task_id": taskID})
		return
	}

	message, err := filesystem.SafeDelete(target, volume.IsNetwork(target))
	if err != nil {
		s.writeError(w, errors.New("delete failed: "+err.Error()))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": message})
}
