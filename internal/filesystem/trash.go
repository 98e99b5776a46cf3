package filesystem

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Trash moves a path to the platform trash. On Linux this follows the
// freedesktop trash layout under ~/.local/share/Trash; on macOS files land in
// ~/.Trash. Windows and unknown platforms return an error so the caller falls
// back to direct removal.
func Trash(path string) error {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		return moveToTrashDir(path, filepath.Join(home, ".Trash"), "")
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		trashRoot := filepath.Join(home, ".local", "share", "Trash")
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			trashRoot = filepath.Join(xdg, "Trash")
		}
		return moveToTrashDir(path, filepath.Join(trashRoot, "files"), filepath.Join(trashRoot, "info"))
	default:
		return fmt.Errorf("trash unsupported on %s", runtime.GOOS)
	}
}

func moveToTrashDir(path, filesDir, infoDir string) error {
	if err := os.MkdirAll(filesDir, 0700); err != nil {
		return err
	}

	name := filepath.Base(path)
	target := filepath.Join(filesDir, name)
	for i := 2; ; i++ {
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(name)
		target = filepath.Join(filesDir, fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), i, ext))
	}

	if infoDir != "" {
		if err := os.MkdirAll(infoDir, 0700); err != nil {
			return err
		}
		info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
			url.PathEscape(path), time.Now().Format("2006-01-02T15:04:05"))
		infoPath := filepath.Join(infoDir, filepath.Base(target)+".trashinfo")
		if err := os.WriteFile(infoPath, []byte(info), 0600); err != nil {
			return err
		}
	}

	// Rename fails across filesystems; the engine falls back to direct
	// removal in that case.
	return os.Rename(path, target)
}

// RemoveDirect unlinks a file or removes a directory tree without touching
// the trash.
func RemoveDirect(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// SafeDelete removes a path the way its volume demands: network volumes are
// removed directly, local volumes go to the trash with a fallback to direct
// removal when trashing fails. The returned message describes what happened.
func SafeDelete(path string, network bool) (string, error) {
	if network {
		if err := RemoveDirect(path); err != nil {
			return "", err
		}
		return "deleted (network volume)", nil
	}

	if err := Trash(path); err == nil {
		return "moved to trash", nil
	}
	if err := RemoveDirect(path); err != nil {
		return "", err
	}
	return "deleted", nil
}
