// Package filesystem implements the single-item operations and the platform
// primitives the bulk engine builds on.
package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("path not found")
	ErrExists       = errors.New("path already exists")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrIsDirectory  = errors.New("path is a directory")
)

// Entry is one listed file or directory. Size and Modified are only present
// for files whose stat succeeded.
type Entry struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "file" or "directory"
	Path     string `json:"path"`
	Size     *int64 `json:"size,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// NewEntry builds an Entry from a stat result.
func NewEntry(path string, info os.FileInfo) Entry {
	if info.IsDir() {
		return Entry{Name: info.Name(), Type: "directory", Path: path}
	}
	size := info.Size()
	return Entry{
		Name:     info.Name(),
		Type:     "file",
		Path:     path,
		Size:     &size,
		Modified: info.ModTime().Format(time.RFC3339),
	}
}

// List enumerates a directory. Entries whose stat fails are omitted rather
// than reported; symlinks resolving inside the listed directory are skipped
// to prevent cycles.
func List(dir string) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	items := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		path := filepath.Join(dir, d.Name())

		isLink := d.Type()&os.ModeSymlink != 0
		if isLink {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				continue
			}
			if target == dir || strings.HasPrefix(target, dir+string(filepath.Separator)) {
				continue
			}
		}

		fi, err := d.Info()
		if err != nil {
			continue
		}
		if isLink {
			// Classify through the link so a link to a directory lists
			// as one; fall back to the lstat info if the target vanished.
			if si, err := os.Stat(path); err == nil {
				fi = si
			}
		}
		items = append(items, NewEntry(path, fi))
	}
	return items, nil
}

// PathInfo classifies a path as file, directory, or not_found. For files the
// parent directory is reported too.
type PathInfo struct {
	Path   string `json:"path"`
	Type   string `json:"type"` // "file", "directory", or "not_found"
	Parent string `json:"parent,omitempty"`
}

// Probe returns the PathInfo for a canonical path.
func Probe(path string) PathInfo {
	info, err := os.Stat(path)
	if err != nil {
		return PathInfo{Path: path, Type: "not_found"}
	}
	if info.IsDir() {
		return PathInfo{Path: path, Type: "directory"}
	}
	return PathInfo{Path: path, Type: "file", Parent: filepath.Dir(path)}
}

// CountFiles counts files under path down to maxDepth directory levels.
// Unreadable entries are skipped.
func CountFiles(path string, maxDepth int) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return 1
	}
	return countFilesIn(path, maxDepth, 0)
}

func countFilesIn(dir string, maxDepth, depth int) int {
	if depth >= maxDepth {
		return 0
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, d := range dirents {
		if d.IsDir() {
			count += countFilesIn(filepath.Join(dir, d.Name()), maxDepth, depth+1)
		} else {
			count++
		}
	}
	return count
}
