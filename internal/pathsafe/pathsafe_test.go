package pathsafe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	base := t.TempDir()
	r, err := NewResolver(base, true)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return r, r.Base()
}

func TestResolveEmptyReturnsBase(t *testing.T) {
	r, base := newTestResolver(t)

	got, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != base {
		t.Errorf("Expected %s, got %s", base, got)
	}
}

func TestResolveRelativeInsideBase(t *testing.T) {
	r, base := newTestResolver(t)

	got, err := r.Resolve("sub/file.txt")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := filepath.Join(base, "sub", "file.txt")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveEscapeIsForbidden(t *testing.T) {
	r, _ := newTestResolver(t)

	for _, raw := range []string{"../etc", "sub/../../etc/passwd", ".."} {
		if _, err := r.Resolve(raw); !errors.Is(err, ErrForbidden) {
			t.Errorf("Resolve(%q): expected ErrForbidden, got %v", raw, err)
		}
	}
}

func TestResolveDotDotStayingInside(t *testing.T) {
	r, base := newTestResolver(t)

	got, err := r.Resolve("sub/../other")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(base, "other"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveAbsoluteOutsideAllowed(t *testing.T) {
	r, _ := newTestResolver(t)
	other := t.TempDir()

	got, err := r.Resolve(other)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want, _ := Canonicalize(other)
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestResolveAbsoluteOutsideForbiddenWhenConfined(t *testing.T) {
	base := t.TempDir()
	r, err := NewResolver(base, false)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	if _, err := r.Resolve(t.TempDir()); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestCanonicalizeNonExistent(t *testing.T) {
	base := t.TempDir()

	got, err := Canonicalize(filepath.Join(base, "does", "not", "exist.txt"))
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	resolvedBase, _ := Canonicalize(base)
	want := filepath.Join(resolvedBase, "does", "not", "exist.txt")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestCanonicalizeResolvesSymlinks(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := Canonicalize(filepath.Join(link, "inner.txt"))
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	resolvedTarget, _ := Canonicalize(target)
	if want := filepath.Join(resolvedTarget, "inner.txt"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
