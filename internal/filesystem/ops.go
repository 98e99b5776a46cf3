package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateFolder creates a single new directory under an existing parent.
func CreateFolder(parent, name string) (string, error) {
	if err := requireDir(parent); err != nil {
		return "", err
	}
	target := filepath.Join(parent, name)
	if _, err := os.Lstat(target); err == nil {
		return "", ErrExists
	}
	if err := os.Mkdir(target, 0755); err != nil {
		return "", err
	}
	return target, nil
}

// CreateFile creates a new file under an existing parent, optionally with
// initial content. Refuses to clobber an existing entry.
func CreateFile(parent, name, content string) (string, error) {
	if err := requireDir(parent); err != nil {
		return "", err
	}
	target := filepath.Join(parent, name)
	if _, err := os.Lstat(target); err == nil {
		return "", ErrExists
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return "", err
	}
	return target, nil
}

// WriteText overwrites the content of an existing text file.
func WriteText(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

// ReadText reads a text file.
func ReadText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrIsDirectory
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Rename gives an existing entry a new name within its directory. Refuses to
// overwrite an existing target.
func Rename(oldPath, newName string) (string, error) {
	if _, err := os.Lstat(oldPath); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if _, err := os.Lstat(newPath); err == nil {
		return "", ErrExists
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("parent directory: %w", ErrNotFound)
		}
		return err
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	return nil
}
