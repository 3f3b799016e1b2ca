package convert

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/linuxmatters/asciireel/internal/config"
)

// Status is the conversion state of a single frame
type Status int

const (
	StatusPending Status = iota
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Frame is one converted frame. Text is written once by the worker that owns
// the index and never changes afterwards.
type Frame struct {
	Index  int
	Source string // Path of the still image
	Text   string // Rendered rows joined by '\n' (empty when failed)
	Status Status
	Err    error // Why the frame failed, nil otherwise
}

// Sampler reduces an image to a width×height grid of average intensities (0-255)
type Sampler interface {
	Sample(ctx context.Context, path string, width, height int) ([][]uint8, error)
}

// SamplerFunc adapts a plain function to the Sampler interface
type SamplerFunc func(ctx context.Context, path string, width, height int) ([][]uint8, error)

// Sample calls f
func (f SamplerFunc) Sample(ctx context.Context, path string, width, height int) ([][]uint8, error) {
	return f(ctx, path, width, height)
}

// WorkerStats summarises the work done by one worker
type WorkerStats struct {
	Worker    int
	Range     Range
	Converted int // Frames rendered successfully
	Failed    int // Frames that could not be read or were cancelled
	Elapsed   time.Duration
}

// Converter renders still frames as text using a sampler and a glyph ramp
type Converter struct {
	Sampler Sampler
	Ramp    Ramp
	Width   int
	Height  int
}

// Render samples one image and maps every cell through the ramp
func (c *Converter) Render(ctx context.Context, path string) (string, error) {
	grid, err := c.Sampler.Sample(ctx, path, c.Width, c.Height)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow((c.Width + 1) * c.Height)
	for y, row := range grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, avg := range row {
			sb.WriteRune(c.Ramp.Glyph(avg))
		}
	}
	return sb.String(), nil
}

// ConvertRange converts frames r.Start..r.End-1 in ascending order.
//
// Each result lands in out[i], which no other worker touches, and only then is
// the tracker advanced. A frame that fails to read is stored as failed with
// empty text and still advances the tracker exactly once. After ctx is
// cancelled the rest of the range is marked failed the same way, so the
// tracker always reaches the end of the range.
func (c *Converter) ConvertRange(ctx context.Context, worker int, r Range, sources []string, out []Frame, tracker *Tracker) WorkerStats {
	stats := WorkerStats{Worker: worker, Range: r}
	start := time.Now()

	for i := r.Start; i < r.End; i++ {
		frame := Frame{Index: i, Source: sources[i]}

		if err := ctx.Err(); err != nil {
			frame.Status = StatusFailed
			frame.Err = err
		} else if text, err := c.Render(ctx, sources[i]); err != nil {
			frame.Status = StatusFailed
			frame.Err = fmt.Errorf("frame %d (%s): %w", i, sources[i], err)
		} else {
			frame.Text = text
			frame.Status = StatusDone
		}

		out[i] = frame
		if frame.Status == StatusDone {
			stats.Converted++
		} else {
			stats.Failed++
		}
		tracker.Advance()
	}

	stats.Elapsed = time.Since(start)
	return stats
}

// Pool converts a batch of frames with a fixed number of workers
type Pool struct {
	cfg       config.Config
	converter *Converter
}

// NewPool validates cfg and prepares a pool around sampler
func NewPool(cfg config.Config, sampler Sampler) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: no image sampler", config.ErrInvalidConfiguration)
	}
	ramp, err := NewRamp(cfg.Ramp)
	if err != nil {
		return nil, err
	}

	return &Pool{
		cfg: cfg,
		converter: &Converter{
			Sampler: sampler,
			Ramp:    ramp,
			Width:   cfg.Width,
			Height:  cfg.Height,
		},
	}, nil
}

// Start partitions sources across the workers and launches them.
//
// It returns immediately. Callers either poll Batch.Tracker for progress or
// wait on Batch.Done, which closes once every worker has returned.
func (p *Pool) Start(ctx context.Context, sources []string) (*Batch, error) {
	ranges, err := Partition(len(sources), p.cfg.Workers)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	b := &Batch{
		frames:  make([]Frame, len(sources)),
		ranges:  ranges,
		stats:   make([]WorkerStats, len(ranges)),
		tracker: NewTracker(len(sources)),
		done:    make(chan struct{}),
		cancel:  cancel,
		started: time.Now(),
	}
	for i, src := range sources {
		b.frames[i] = Frame{Index: i, Source: src}
	}

	var wg sync.WaitGroup
	for t, r := range ranges {
		wg.Add(1)
		go func(worker int, r Range) {
			defer wg.Done()
			b.stats[worker] = p.converter.ConvertRange(ctx, worker, r, sources, b.frames, b.tracker)
		}(t, r)
	}

	go func() {
		wg.Wait()
		b.elapsed = time.Since(b.started)
		cancel()
		close(b.done)
	}()

	return b, nil
}

// Batch is one running or finished conversion
type Batch struct {
	frames  []Frame
	ranges  []Range
	stats   []WorkerStats
	tracker *Tracker
	done    chan struct{}
	cancel  context.CancelFunc
	started time.Time
	elapsed time.Duration
}

// Tracker returns the completion counter shared by the workers
func (b *Batch) Tracker() *Tracker {
	return b.tracker
}

// Done is closed once every worker has returned
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Cancel asks the workers to stop. Frames not yet converted are marked failed.
func (b *Batch) Cancel() {
	b.cancel()
}

// Ranges returns the partition the workers were given
func (b *Batch) Ranges() []Range {
	return b.ranges
}

// Frames returns the output buffer. It must only be read after Done is
// closed or the tracker reports Done.
func (b *Batch) Frames() []Frame {
	return b.frames
}

// Failed returns the frames that could not be converted. Like Frames, it is
// only meaningful once the batch is complete.
func (b *Batch) Failed() []Frame {
	var failed []Frame
	for _, f := range b.frames {
		if f.Status == StatusFailed {
			failed = append(failed, f)
		}
	}
	return failed
}

// Stats returns per-worker statistics. Valid once Done is closed.
func (b *Batch) Stats() []WorkerStats {
	<-b.done
	return b.stats
}

// Elapsed returns the wall time from Start until the last worker returned
func (b *Batch) Elapsed() time.Duration {
	<-b.done
	return b.elapsed
}
