// Package task tracks the state, progress, and cancellation of background
// file operations.
package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusError     Status = "error"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusError
}

// Snapshot is a point-in-time copy of a task's state, safe to serialize.
type Snapshot struct {
	ID             string     `json:"id"`
	Status         Status     `json:"status"`
	Progress       int        `json:"progress"`
	CurrentFile    string     `json:"current_file"`
	TotalFiles     int        `json:"total_files"`
	ProcessedFiles int        `json:"processed_files"`
	Cancelled      bool       `json:"cancelled"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	Result         any        `json:"result,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// task is the mutable record behind a snapshot, serialized by its own lock.
type task struct {
	mu   sync.Mutex
	snap Snapshot
}

// Manager is a process-wide concurrent registry of tasks keyed by id.
// The registry map has a coarse lock for insertion and eviction; all state
// mutation is serialized by per-task locks so independent tasks progress in
// parallel.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*task
}

func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*task)}
}

// Create registers a new pending task with an initial total-files estimate.
func (m *Manager) Create(totalFiles int) Snapshot {
	t := &task{snap: Snapshot{
		ID:         uuid.New().String(),
		Status:     StatusPending,
		TotalFiles: totalFiles,
		CreatedAt:  time.Now(),
	}}

	m.mu.Lock()
	m.tasks[t.snap.ID] = t
	m.mu.Unlock()

	return t.snap
}

// Get returns a snapshot of the task, if it exists.
func (m *Manager) Get(id string) (Snapshot, bool) {
	t, ok := m.lookup(id)
	if !ok {
		return Snapshot{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap, true
}

// SetRunning transitions a pending task to running.
func (m *Manager) SetRunning(id string) bool {
	return m.mutate(id, func(s *Snapshot) {
		if !s.Status.IsTerminal() {
			s.Status = StatusRunning
		}
	})
}

// UpdateProgress records worker progress. Safe to call at high frequency;
// processed_files and progress never decrease.
func (m *Manager) UpdateProgress(id string, processedFiles int, currentFile string) bool {
	return m.mutate(id, func(s *Snapshot) {
		if processedFiles > s.ProcessedFiles {
			s.ProcessedFiles = processedFiles
		}
		if currentFile != "" {
			s.CurrentFile = currentFile
		}
		s.recomputeProgress()
	})
}

// SetTotal updates the total-files estimate while scanning is in progress.
func (m *Manager) SetTotal(id string, totalFiles int) bool {
	return m.mutate(id, func(s *Snapshot) {
		s.TotalFiles = totalFiles
		s.recomputeProgress()
	})
}

// Complete transitions the task to completed and stores the result.
func (m *Manager) Complete(id string, result any) bool {
	return m.finalize(id, func(s *Snapshot) {
		s.Status = StatusCompleted
		s.Progress = 100
		s.Result = result
	})
}

// Fail transitions the task to error.
func (m *Manager) Fail(id string, message string) bool {
	return m.finalize(id, func(s *Snapshot) {
		s.Status = StatusError
		s.ErrorMessage = message
	})
}

// SetCancelled transitions the task to cancelled, after workers have drained.
// The partial result accumulated so far is attached.
func (m *Manager) SetCancelled(id string, result any) bool {
	return m.finalize(id, func(s *Snapshot) {
		s.Status = StatusCancelled
		s.Result = result
	})
}

// Cancel requests cooperative cancellation. It only flips the flag; the
// status transition happens once the engine observes it and drains. Returns
// false for unknown, terminal, or already-cancelled tasks.
func (m *Manager) Cancel(id string) bool {
	t, ok := m.lookup(id)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.Status.IsTerminal() || t.snap.Cancelled {
		return false
	}
	t.snap.Cancelled = true
	return true
}

// IsCancelled reports the cancellation flag. Workers poll this on every
// iteration.
func (m *Manager) IsCancelled(id string) bool {
	t, ok := m.lookup(id)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap.Cancelled
}

// GC evicts terminal tasks whose completion is older than maxAge and returns
// how many were removed.
func (m *Manager) GC(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, t := range m.tasks {
		t.mu.Lock()
		evict := t.snap.CompletedAt != nil && !t.snap.CompletedAt.After(cutoff)
		t.mu.Unlock()
		if evict {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}

// StartJanitor evicts old terminal tasks on an interval until ctx is done.
func (m *Manager) StartJanitor(ctx context.Context, logger *slog.Logger, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.GC(maxAge); n > 0 {
					logger.Info("Evicted finished tasks", "count", n)
				}
			}
		}
	}()
}

func (m *Manager) lookup(id string) (*task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	return t, ok
}

// mutate applies fn under the task lock unless the task is already terminal.
func (m *Manager) mutate(id string, fn func(*Snapshot)) bool {
	t, ok := m.lookup(id)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.Status.IsTerminal() {
		return false
	}
	fn(&t.snap)
	return true
}

// finalize applies the one-shot transition to a terminal state.
func (m *Manager) finalize(id string, fn func(*Snapshot)) bool {
	t, ok := m.lookup(id)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.Status.IsTerminal() {
		return false
	}
	fn(&t.snap)
	now := time.Now()
	t.snap.CompletedAt = &now
	return true
}

func (s *Snapshot) recomputeProgress() {
	if s.TotalFiles <= 0 {
		return
	}
	p := s.ProcessedFiles * 100 / s.TotalFiles
	if p > 100 {
		p = 100
	}
	if p > s.Progress {
		s.Progress = p
	}
}
