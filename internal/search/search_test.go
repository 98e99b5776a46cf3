package search

import (
	"os"
	"path/filepath"
	"testing"
)

func seed(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDefaultIgnoresExcludeNoise(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "node_modules/foo.txt", "src/foo.txt", ".git/foo.txt")

	items := Run(root, Options{Query: "foo"})

	if len(items) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(items))
	}
	if items[0].Path != filepath.Join(root, "src", "foo.txt") {
		t.Errorf("Unexpected result: %s", items[0].Path)
	}
}

func TestCaseInsensitiveSubstring(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "Report-FINAL.pdf", "notes.txt")

	items := Run(root, Options{Query: "final"})

	if len(items) != 1 || items[0].Name != "Report-FINAL.pdf" {
		t.Fatalf("Expected the pdf, got %+v", items)
	}
}

func TestDepthBound(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "hit1.txt", "l1/hit2.txt", "l1/l2/hit3.txt")

	items := Run(root, Options{Query: "hit", MaxDepth: 2})

	if len(items) != 2 {
		t.Fatalf("Expected 2 results within depth 2, got %d", len(items))
	}
}

func TestMaxResultsCap(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		seed(t, root, filepath.Join("d", "match"+string(rune('a'+i))+".txt"))
	}

	items := Run(root, Options{Query: "match", MaxResults: 5})

	if len(items) != 5 {
		t.Fatalf("Expected the cap of 5, got %d", len(items))
	}
}

func TestTypeFilter(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "box/box.txt")

	dirs := Run(root, Options{Query: "box", TypeFilter: "directory"})
	if len(dirs) != 1 || dirs[0].Type != "directory" {
		t.Fatalf("Expected one directory, got %+v", dirs)
	}

	files := Run(root, Options{Query: "box", TypeFilter: "file"})
	if len(files) != 1 || files[0].Type != "file" {
		t.Fatalf("Expected one file, got %+v", files)
	}
}

func TestCustomIgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "a.log", "a.txt")

	items := Run(root, Options{Query: "a", Ignore: []string{"*.log"}})

	if len(items) != 1 || items[0].Name != "a.txt" {
		t.Fatalf("Expected only a.txt, got %+v", items)
	}
}

func TestSymlinkCycleIsSkipped(t *testing.T) {
	root := t.TempDir()
	seed(t, root, "sub/needle.txt")
	if err := os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	items := Run(root, Options{Query: "needle"})

	if len(items) != 1 {
		t.Fatalf("Cycle must not duplicate results: got %d", len(items))
	}
}
