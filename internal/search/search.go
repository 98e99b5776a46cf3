// Package search implements the bounded live filename search.
package search

import (
	"os"
	"path/filepath"
	"strings"

	"fileharbor/internal/filesystem"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnores are always appended to the caller's ignore patterns:
// version-control and OS noise nobody wants in results.
var DefaultIgnores = []string{".git", ".svn", "__pycache__", ".DS_Store", "node_modules"}

// DefaultMaxResults caps a search when the caller does not.
const DefaultMaxResults = 1000

// Options bound a search run.
type Options struct {
	Query string
	// MaxDepth limits recursion; 0 means unlimited.
	MaxDepth int
	// Ignore patterns (globs) on top of DefaultIgnores.
	Ignore     []string
	MaxResults int
	// TypeFilter is "all", "file", or "directory".
	TypeFilter string
}

// Run walks root collecting entries whose name contains the query,
// case-insensitively. It early-exits once MaxResults entries matched.
func Run(root string, opts Options) []filesystem.Entry {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.TypeFilter == "" {
		opts.TypeFilter = "all"
	}

	patterns := make([]string, 0, len(opts.Ignore)+len(DefaultIgnores))
	for _, p := range opts.Ignore {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	patterns = append(patterns, DefaultIgnores...)

	w := &walker{
		query:    strings.ToLower(opts.Query),
		opts:     opts,
		patterns: patterns,
	}
	w.walk(root, 1)
	return w.results
}

type walker struct {
	query    string
	opts     Options
	patterns []string
	results  []filesystem.Entry
}

func (w *walker) full() bool {
	return len(w.results) >= w.opts.MaxResults
}

func (w *walker) walk(dir string, depth int) {
	if w.full() {
		return
	}
	if w.opts.MaxDepth > 0 && depth > w.opts.MaxDepth {
		return
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, d := range dirents {
		if w.full() {
			return
		}

		path := filepath.Join(dir, d.Name())
		if ignored(path, d.Name(), w.patterns) {
			continue
		}

		// Skip links pointing back into the walked tree to avoid cycles.
		if d.Type()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				continue
			}
			if target == dir || strings.HasPrefix(target, dir+string(filepath.Separator)) {
				continue
			}
		}

		if strings.Contains(strings.ToLower(d.Name()), w.query) {
			w.record(path, d)
		}

		if d.IsDir() {
			w.walk(path, depth+1)
		}
	}
}

func (w *walker) record(path string, d os.DirEntry) {
	kind := "file"
	if d.IsDir() {
		kind = "directory"
	}
	if w.opts.TypeFilter != "all" && w.opts.TypeFilter != kind {
		return
	}

	if info, err := d.Info(); err == nil {
		w.results = append(w.results, filesystem.NewEntry(path, info))
		return
	}
	// Stat failed; report the bare entry rather than dropping the match.
	w.results = append(w.results, filesystem.Entry{Name: d.Name(), Type: kind, Path: path})
}

func ignored(path, name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
		if name == pattern || strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}
