package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyBufferSize is the buffer used for file-to-file copies.
const CopyBufferSize = 256 * 1024

// CopyFile copies a single file, preserving mode and modification time.
// Symlinks are followed: the destination is a plain file holding the target's
// bytes. The destination's parent is created if missing, so workers can run
// out of order.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	buf := make([]byte, CopyBufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	// Metadata preservation is best effort within filesystem capability.
	os.Chmod(dst, info.Mode().Perm())
	os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// CopyTree copies a directory tree sequentially, preserving metadata per
// file. Used by the single-item safe move; bulk copies go through the engine
// pipeline instead.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return CopyFile(path, target)
	})
}
