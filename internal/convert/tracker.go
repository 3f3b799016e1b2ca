package convert

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// Tracker counts frames that finished conversion, successfully or not.
//
// It is the only state every worker writes. Workers store a frame before
// advancing, and the atomic add orders that store before any load that
// observes it, so once Done reports true every frame is visible to the reader.
type Tracker struct {
	total int64
	count atomic.Int64
}

// NewTracker creates a tracker expecting total frames
func NewTracker(total int) *Tracker {
	return &Tracker{total: int64(total)}
}

// Advance records one more finished frame
func (t *Tracker) Advance() {
	t.count.Add(1)
}

// Count returns the number of finished frames
func (t *Tracker) Count() int {
	return int(t.count.Load())
}

// Total returns the number of frames expected
func (t *Tracker) Total() int {
	return int(t.total)
}

// Progress returns count/total in 0.0 to 1.0.
// An empty batch is complete from the start.
func (t *Tracker) Progress() float64 {
	if t.total <= 0 {
		return 1.0
	}
	progress := float64(t.count.Load()) / float64(t.total)
	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

// Done reports whether every frame has been attempted.
// It tests count >= total rather than equality so a double count can never
// leave a poller spinning forever.
func (t *Tracker) Done() bool {
	return t.count.Load() >= t.total
}

// Overrun reports a count above total. It indicates an accounting bug, never a fatal error.
func (t *Tracker) Overrun() bool {
	return t.count.Load() > t.total
}

// WaitPolling re-reads the counter every interval until the batch is done.
//
// onProgress (if not nil) is called with the count after every poll and once
// more when the batch completes. An interval of zero polls as fast as the
// scheduler allows.
func (t *Tracker) WaitPolling(ctx context.Context, interval time.Duration, onProgress func(count, total int)) error {
	for {
		done := t.Done()
		if onProgress != nil {
			onProgress(t.Count(), t.Total())
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if interval > 0 {
			time.Sleep(interval)
		} else {
			runtime.Gosched()
		}
	}
}
