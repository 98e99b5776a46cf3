// Package engine implements the parallel scan/execute pipeline behind the
// bulk copy, move, and delete operations.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"fileharbor/internal/analytics"
	"fileharbor/internal/filesystem"
	"fileharbor/internal/integrity"
	"fileharbor/internal/pathsafe"
	"fileharbor/internal/task"
)

// QueueCapacity bounds the scanner/worker channel. Filesystem scanning is
// much faster than execution; the cap keeps memory flat on huge trees.
const QueueCapacity = 10000

// Workers returns the per-task worker pool size. Filesystem work is
// overwhelmingly I/O-bound, so oversubscription hides latency.
func Workers() int {
	n := 8 * runtime.NumCPU()
	if n > 64 {
		n = 64
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Options carry the per-request flags shared by batch copy and move.
type Options struct {
	Overwrite      bool
	VerifyChecksum bool
}

// ItemResult reports the outcome of one top-level requested path.
type ItemResult struct {
	Path    string `json:"path"`
	Status  string `json:"status"` // "success" or "error"
	Message string `json:"message"`
}

// OperationResult summarizes a batch. Counts are per top-level path, not per
// internal work item.
type OperationResult struct {
	Status       string       `json:"status"`
	SuccessCount int          `json:"success_count"`
	FailCount    int          `json:"fail_count"`
	Results      []ItemResult `json:"results"`
}

// Engine coordinates bulk operations. One engine serves the whole process;
// every operation gets its own pipeline and task.
type Engine struct {
	logger   *slog.Logger
	resolver *pathsafe.Resolver
	tasks    *task.Manager
	stats    *analytics.StatsManager
	throttle *Throttle
	workers  int
}

func New(logger *slog.Logger, resolver *pathsafe.Resolver, tasks *task.Manager, stats *analytics.StatsManager) *Engine {
	return &Engine{
		logger:   logger,
		resolver: resolver,
		tasks:    tasks,
		stats:    stats,
		throttle: NewThrottle(),
		workers:  Workers(),
	}
}

// Throttle exposes the copy bandwidth limiter.
func (e *Engine) Throttle() *Throttle {
	return e.throttle
}

// StartBatchCopy runs a batch copy in the background and returns the task id.
func (e *Engine) StartBatchCopy(srcs []string, destDir string, opts Options) string {
	t := e.tasks.Create(len(srcs) * initialEstimatePerSource)
	go e.runCopy(t.ID, srcs, destDir, opts)
	return t.ID
}

// BatchCopy runs a batch copy inline and returns its result.
func (e *Engine) BatchCopy(srcs []string, destDir string, opts Options) OperationResult {
	t := e.tasks.Create(len(srcs) * initialEstimatePerSource)
	return e.runCopy(t.ID, srcs, destDir, opts)
}

// StartBatchMove runs a batch move in the background and returns the task id.
func (e *Engine) StartBatchMove(srcs []string, destDir string, opts Options) string {
	t := e.tasks.Create(len(srcs) * initialEstimatePerSource)
	go e.runMove(t.ID, srcs, destDir, opts)
	return t.ID
}

// BatchMove runs a batch move inline and returns its result.
func (e *Engine) BatchMove(srcs []string, destDir string, opts Options) OperationResult {
	t := e.tasks.Create(len(srcs) * initialEstimatePerSource)
	return e.runMove(t.ID, srcs, destDir, opts)
}

// StartBatchDelete runs a batch delete in the background and returns the
// task id.
func (e *Engine) StartBatchDelete(paths []string) string {
	t := e.tasks.Create(len(paths) * initialEstimatePerSource)
	go e.runDelete(t.ID, paths)
	return t.ID
}

// BatchDelete runs a batch delete inline and returns its result.
func (e *Engine) BatchDelete(paths []string) OperationResult {
	t := e.tasks.Create(len(paths) * initialEstimatePerSource)
	return e.runDelete(t.ID, paths)
}

func (e *Engine) runCopy(taskID string, srcs []string, destDir string, opts Options) (res OperationResult) {
	p := newPipeline(e, taskID, opts)
	defer p.recoverPanic(&res)

	e.tasks.SetRunning(taskID)
	e.tasks.UpdateProgress(taskID, 0, "preparing...")
	e.logger.Info("Batch copy started", "task", taskID, "sources", len(srcs), "dest", destDir)

	p.runPhase(func() { p.scanCopy(srcs, destDir, 1) })
	return p.finalize("copied")
}

func (e *Engine) runMove(taskID string, srcs []string, destDir string, opts Options) (res OperationResult) {
	p := newPipeline(e, taskID, opts)
	defer p.recoverPanic(&res)

	e.tasks.SetRunning(taskID)
	e.tasks.UpdateProgress(taskID, 0, "preparing...")
	e.logger.Info("Batch move started", "task", taskID, "sources", len(srcs), "dest", destDir)

	// Copy half. total_files is planned as 2x the discovered count so the
	// delete half is budgeted from the start.
	p.runPhase(func() { p.scanCopy(srcs, destDir, 2) })

	// Delete half: only sources whose entire subtree copied cleanly. This
	// runs even when a cancel arrived between the phases — deleting a
	// fully copied source completes its move; partially copied sources
	// are never eligible and stay intact.
	p.flush = true
	p.runPhase(func() { p.scanMoveDelete() })
	p.removeDirs(false)

	return p.finalize("moved")
}

func (e *Engine) runDelete(taskID string, paths []string) (res OperationResult) {
	p := newPipeline(e, taskID, Options{})
	defer p.recoverPanic(&res)

	e.tasks.SetRunning(taskID)
	e.tasks.UpdateProgress(taskID, 0, "preparing...")
	e.logger.Info("Batch delete started", "task", taskID, "sources", len(paths))

	p.runPhase(func() { p.scanDelete(paths) })
	p.removeDirs(true)
	return p.finalize("deleted")
}

// SafeMove moves a single item by copy, verify, delete. The source survives
// until the destination is proven correct; on any failure the partial
// destination is removed.
func (e *Engine) SafeMove(src, dst string, verifyChecksum bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("source unreadable: %w", err)
	}

	cleanup := func() {
		filesystem.RemoveDirect(dst)
	}

	if info.IsDir() {
		if err := filesystem.CopyTree(src, dst); err != nil {
			cleanup()
			return fmt.Errorf("copy failed: %w", err)
		}
	} else {
		if err := filesystem.CopyFile(src, dst); err != nil {
			cleanup()
			return fmt.Errorf("copy failed: %w", err)
		}
	}

	if err := integrity.VerifyCopy(src, dst, verifyChecksum); err != nil {
		cleanup()
		return fmt.Errorf("verification failed: %w", err)
	}

	if err := filesystem.RemoveDirect(src); err != nil {
		return fmt.Errorf("source removal failed: %w", err)
	}
	return nil
}

// initialEstimatePerSource seeds total_files before scanning so progress bars
// animate immediately; the scanner corrects it as it discovers real counts.
const initialEstimatePerSource = 10

// containsPath reports whether child lies inside (or equals) parent.
func containsPath(parent, child string) bool {
	if parent == child {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
