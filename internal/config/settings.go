// Package config loads service settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names. Defaults derive from the invoking user's home.
const (
	EnvBaseDir     = "FILEHARBOR_BASE_DIR"
	EnvStartDir    = "FILEHARBOR_START_DIR"
	EnvHost        = "FILEHARBOR_HOST"
	EnvPort        = "FILEHARBOR_PORT"
	EnvHistoryFile = "FILEHARBOR_HISTORY_FILE"
	EnvDBPath      = "FILEHARBOR_DB_PATH"
	EnvTaskMaxAge  = "FILEHARBOR_TASK_MAX_AGE"
)

// Settings holds the resolved service configuration.
type Settings struct {
	Host string
	Port int

	// BaseDir is the confinement root; relative user paths may not resolve
	// outside it.
	BaseDir string
	// StartDir is the directory the UI opens first.
	StartDir string

	// HistoryFile is the folder-history JSON document.
	HistoryFile string
	// DBPath is the sqlite statistics database.
	DBPath string

	// TaskMaxAge is how long terminal tasks are kept before the janitor
	// evicts them.
	TaskMaxAge      time.Duration
	JanitorInterval time.Duration

	IsWindows bool
}

// Load reads settings from the environment, consulting an optional .env file
// first. Missing or malformed values fall back to defaults.
func Load() (*Settings, error) {
	// Ignore a missing .env; explicit environment always wins.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Host:            getEnv(EnvHost, "0.0.0.0"),
		Port:            getEnvInt(EnvPort, 8001),
		BaseDir:         getEnv(EnvBaseDir, filepath.Join(home, "Documents")),
		HistoryFile:     getEnv(EnvHistoryFile, "folder_history.json"),
		TaskMaxAge:      getEnvDuration(EnvTaskMaxAge, time.Hour),
		JanitorInterval: 10 * time.Minute,
		IsWindows:       runtime.GOOS == "windows",
	}
	s.StartDir = getEnv(EnvStartDir, s.BaseDir)

	if s.DBPath = os.Getenv(EnvDBPath); s.DBPath == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		s.DBPath = filepath.Join(confDir, "fileharbor", "fileharbor.db")
	}

	return s, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
