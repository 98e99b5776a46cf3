package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{EnvBaseDir, EnvStartDir, EnvHost, EnvPort, EnvHistoryFile, EnvDBPath, EnvTaskMaxAge} {
		t.Setenv(key, "")
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Host != "0.0.0.0" {
		t.Errorf("Expected default host, got %s", s.Host)
	}
	if s.Port != 8001 {
		t.Errorf("Expected default port, got %d", s.Port)
	}
	if filepath.Base(s.BaseDir) != "Documents" {
		t.Errorf("Expected Documents default, got %s", s.BaseDir)
	}
	if s.StartDir != s.BaseDir {
		t.Errorf("Start dir must default to the base dir")
	}
	if s.TaskMaxAge != time.Hour {
		t.Errorf("Expected 1h task max age, got %v", s.TaskMaxAge)
	}
}

func TestOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvBaseDir, dir)
	t.Setenv(EnvStartDir, filepath.Join(dir, "start"))
	t.Setenv(EnvHost, "127.0.0.1")
	t.Setenv(EnvPort, "9999")
	t.Setenv(EnvTaskMaxAge, "30m")
	t.Setenv(EnvDBPath, filepath.Join(dir, "x.db"))

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.BaseDir != dir || s.StartDir != filepath.Join(dir, "start") {
		t.Errorf("Directory overrides not applied: %+v", s)
	}
	if s.Host != "127.0.0.1" || s.Port != 9999 {
		t.Errorf("Host/port overrides not applied: %+v", s)
	}
	if s.TaskMaxAge != 30*time.Minute {
		t.Errorf("Expected 30m, got %v", s.TaskMaxAge)
	}
	if s.DBPath != filepath.Join(dir, "x.db") {
		t.Errorf("DB path override not applied: %s", s.DBPath)
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")
	t.Setenv(EnvTaskMaxAge, "soon")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Port != 8001 {
		t.Errorf("Malformed port must fall back, got %d", s.Port)
	}
	if s.TaskMaxAge != time.Hour {
		t.Errorf("Malformed duration must fall back, got %v", s.TaskMaxAge)
	}
}
