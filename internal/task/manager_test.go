package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	m := NewManager()

	snap := m.Create(5)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, StatusPending, snap.Status)
	assert.Equal(t, 5, snap.TotalFiles)

	require.True(t, m.SetRunning(snap.ID))
	got, ok := m.Get(snap.ID)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, got.Status)

	require.True(t, m.Complete(snap.ID, map[string]int{"n": 1}))
	got, _ = m.Get(snap.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.CompletedAt)
}

func TestProgressComputation(t *testing.T) {
	m := NewManager()
	snap := m.Create(0)
	m.SetRunning(snap.ID)

	m.SetTotal(snap.ID, 200)
	m.UpdateProgress(snap.ID, 50, "a.txt")

	got, _ := m.Get(snap.ID)
	assert.Equal(t, 25, got.Progress)
	assert.Equal(t, "a.txt", got.CurrentFile)

	// The scanner may raise the total mid-flight; progress never decreases.
	m.SetTotal(snap.ID, 400)
	got, _ = m.Get(snap.ID)
	assert.Equal(t, 25, got.Progress)

	// Stale worker updates cannot move processed_files backwards.
	m.UpdateProgress(snap.ID, 40, "old.txt")
	got, _ = m.Get(snap.ID)
	assert.Equal(t, 50, got.ProcessedFiles)
}

func TestCancelIdempotence(t *testing.T) {
	m := NewManager()
	snap := m.Create(10)
	m.SetRunning(snap.ID)

	assert.True(t, m.Cancel(snap.ID))
	assert.False(t, m.Cancel(snap.ID), "second cancel must return false")
	assert.True(t, m.IsCancelled(snap.ID))

	// The flag alone never changes the status.
	got, _ := m.Get(snap.ID)
	assert.Equal(t, StatusRunning, got.Status)

	require.True(t, m.SetCancelled(snap.ID, nil))
	got, _ = m.Get(snap.ID)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.False(t, m.Cancel(snap.ID), "cancel on a terminal task must return false")
}

func TestTerminalMonotonicity(t *testing.T) {
	m := NewManager()
	snap := m.Create(10)
	m.SetRunning(snap.ID)
	require.True(t, m.Complete(snap.ID, "done"))

	assert.False(t, m.Fail(snap.ID, "nope"))
	assert.False(t, m.SetRunning(snap.ID))
	assert.False(t, m.UpdateProgress(snap.ID, 99, "x"))
	assert.False(t, m.SetCancelled(snap.ID, nil))

	got, _ := m.Get(snap.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "done", got.Result)
}

func TestFail(t *testing.T) {
	m := NewManager()
	snap := m.Create(1)
	require.True(t, m.Fail(snap.ID, "disk on fire"))

	got, _ := m.Get(snap.ID)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "disk on fire", got.ErrorMessage)
}

func TestGCRemovesExactlyTerminalTasks(t *testing.T) {
	m := NewManager()

	running := m.Create(1)
	m.SetRunning(running.ID)

	done := m.Create(1)
	m.Complete(done.ID, nil)

	failed := m.Create(1)
	m.Fail(failed.ID, "x")

	assert.Equal(t, 2, m.GC(0))

	_, ok := m.Get(running.ID)
	assert.True(t, ok, "running task must survive gc")
	_, ok = m.Get(done.ID)
	assert.False(t, ok)
	_, ok = m.Get(failed.ID)
	assert.False(t, ok)
}

func TestGCRespectsMaxAge(t *testing.T) {
	m := NewManager()
	done := m.Create(1)
	m.Complete(done.ID, nil)

	assert.Equal(t, 0, m.GC(time.Hour))
	_, ok := m.Get(done.ID)
	assert.True(t, ok)
}

func TestUnknownTask(t *testing.T) {
	m := NewManager()
	_, ok := m.Get("nope")
	assert.False(t, ok)
	assert.False(t, m.Cancel("nope"))
	assert.False(t, m.IsCancelled("nope"))
	assert.False(t, m.SetRunning("nope"))
}

func TestConcurrentProgressUpdates(t *testing.T) {
	m := NewManager()
	snap := m.Create(1000)
	m.SetRunning(snap.ID)

	doneCh := make(chan struct{})
	for w := 0; w < 8; w++ {
		go func() {
			for i := 1; i <= 1000; i++ {
				m.UpdateProgress(snap.ID, i, "f")
			}
			doneCh <- struct{}{}
		}()
	}

	last := 0
	deadline := time.After(5 * time.Second)
	for finished := 0; finished < 8; {
		select {
		case <-doneCh:
			finished++
		case <-deadline:
			t.Fatal("timed out")
		default:
			got, _ := m.Get(snap.ID)
			require.GreaterOrEqual(t, got.Progress, last, "progress must be monotonic")
			last = got.Progress
		}
	}
}
