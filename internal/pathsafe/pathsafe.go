// Package pathsafe normalizes user-supplied paths and confines them to the
// configured base directory.
package pathsafe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalid marks a path that cannot be canonicalized.
	ErrInvalid = errors.New("invalid path")
	// ErrForbidden marks a path that resolves outside the base directory.
	ErrForbidden = errors.New("path outside the base directory")
)

// Resolver canonicalizes paths against a confinement root.
type Resolver struct {
	base string
	// allowOutside permits absolute paths that resolve outside the base
	// directory. Relative paths must stay inside the base either way.
	allowOutside bool
}

// NewResolver canonicalizes baseDir and returns a resolver rooted at it.
func NewResolver(baseDir string, allowOutside bool) (*Resolver, error) {
	base, err := Canonicalize(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: base directory: %v", ErrInvalid, err)
	}
	return &Resolver{base: base, allowOutside: allowOutside}, nil
}

// Base returns the canonical confinement root.
func (r *Resolver) Base() string {
	return r.base
}

// Resolve canonicalizes a user path. An empty path resolves to the base
// directory. Absolute paths (UNC paths included) are canonicalized and
// returned; relative paths are joined to the base and must remain inside it.
// Existence is the caller's concern.
func (r *Resolver) Resolve(raw string) (string, error) {
	if raw == "" {
		return r.base, nil
	}

	if filepath.IsAbs(raw) || strings.HasPrefix(raw, `\\`) {
		p, err := Canonicalize(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if !r.allowOutside && !r.contains(p) {
			return "", ErrForbidden
		}
		return p, nil
	}

	p, err := Canonicalize(filepath.Join(r.base, raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !r.contains(p) {
		return "", ErrForbidden
	}
	return p, nil
}

func (r *Resolver) contains(p string) bool {
	if p == r.base {
		return true
	}
	return strings.HasPrefix(p, r.base+string(filepath.Separator))
}

// Canonicalize returns the absolute, symlink-free form of a path. For paths
// that do not exist yet, the nearest existing ancestor is resolved and the
// remaining segments are rejoined onto it.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	// Walk up to the nearest existing ancestor, resolve that, and append
	// the pending segments back.
	var pending []string
	dir := abs
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Hit the filesystem root without finding anything.
			return abs, nil
		}
		pending = append(pending, filepath.Base(dir))
		dir = parent

		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			for i := len(pending) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, pending[i])
			}
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}
}
