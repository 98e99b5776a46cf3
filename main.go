package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fileharbor/internal/analytics"
	"fileharbor/internal/api"
	"fileharbor/internal/config"
	"fileharbor/internal/engine"
	"fileharbor/internal/history"
	"fileharbor/internal/logger"
	"fileharbor/internal/pathsafe"
	"fileharbor/internal/storage"
	"fileharbor/internal/task"
)

// Durable setting keys in the app_settings table.
const settingCopyLimit = "copy_limit_bytes_per_sec"

func main() {
	log, err := logger.New(os.Stdout)
	if err != nil {
		println("Error initializing logger:", err.Error())
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	resolver, err := pathsafe.NewResolver(cfg.BaseDir, true)
	if err != nil {
		log.Error("Invalid base directory", "dir", cfg.BaseDir, "error", err)
		os.Exit(1)
	}
	log.Info("Serving files", "base_dir", resolver.Base())

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("Error opening statistics database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := task.NewManager()
	tasks.StartJanitor(ctx, log, cfg.JanitorInterval, cfg.TaskMaxAge)

	stats := analytics.NewStatsManager(store, log)
	eng := engine.New(log, resolver, tasks, stats)

	// Restore a durable copy throttle if one was configured.
	if v, err := store.GetString(settingCopyLimit); err == nil && v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			eng.Throttle().SetLimit(limit)
			log.Info("Copy throttle restored", "bytes_per_sec", limit)
		}
	}

	server := api.NewServer(log, cfg, resolver, eng, tasks, history.NewStore(cfg.HistoryFile), stats)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	go func() {
		log.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	log.Info("Shutdown complete")
}
