package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "folder_history.json"))
	if items := s.Load(); len(items) != 0 {
		t.Fatalf("Expected empty history, got %d items", len(items))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "folder_history.json"))

	want := []Item{
		{Path: "/data/projects", Count: 3, Timestamp: 1700000000},
		{Path: "/data/archive", Count: 1, Timestamp: 1700000100},
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := s.Load()
	if len(got) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Item %d mismatch: %+v != %+v", i, got[i], want[i])
		}
	}
}

func TestLoadLegacyStringList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folder_history.json")
	legacy := `["/old/one", "/old/two"]`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	got := NewStore(path).Load()
	if len(got) != 2 {
		t.Fatalf("Expected 2 items from legacy shape, got %d", len(got))
	}
	if got[0].Path != "/old/one" || got[0].Count != 1 || got[0].Timestamp == 0 {
		t.Errorf("Legacy conversion wrong: %+v", got[0])
	}
	if got[1].Path != "/old/two" {
		t.Errorf("Order must be preserved: %+v", got[1])
	}
}

func TestLoadGarbageIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folder_history.json")
	os.WriteFile(path, []byte(`{"not": "a list"}`), 0644)

	if items := NewStore(path).Load(); len(items) != 0 {
		t.Fatalf("Expected empty history for malformed file, got %d", len(items))
	}
}
