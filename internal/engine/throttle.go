package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Throttle caps aggregate copy bandwidth across all running tasks. Disabled
// it costs a single atomic load per file.
type Throttle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	burst   int
	enabled atomic.Bool
}

func NewThrottle() *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Inf, 0)}
}

// SetLimit updates the copy bandwidth limit in bytes per second; 0 means
// unlimited.
func (t *Throttle) SetLimit(bytesPerSec int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bytesPerSec <= 0 {
		t.enabled.Store(false)
		t.limiter.SetLimit(rate.Inf)
		return
	}
	t.limiter.SetLimit(rate.Limit(bytesPerSec))
	t.limiter.SetBurst(bytesPerSec) // allow a 1s burst
	t.burst = bytesPerSec
	t.enabled.Store(true)
}

// Wait blocks until n bytes may be copied. Requests larger than the burst are
// consumed in burst-sized chunks.
func (t *Throttle) Wait(ctx context.Context, n int64) error {
	if !t.enabled.Load() {
		return nil
	}

	t.mu.Lock()
	burst := t.burst
	t.mu.Unlock()
	if burst <= 0 {
		return nil
	}

	for n > 0 {
		chunk := int64(burst)
		if n < chunk {
			chunk = n
		}
		if err := t.limiter.WaitN(ctx, int(chunk)); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
