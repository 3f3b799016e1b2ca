// Package playback replays converted frames against the wall clock
package playback

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/linuxmatters/asciireel/internal/config"
	"github.com/linuxmatters/asciireel/internal/convert"
)

// ErrNotRunning is returned by Tick before Start has been called
var ErrNotRunning = errors.New("playback clock not running")

// ErrAlreadyStarted is returned when Start is called twice
var ErrAlreadyStarted = errors.New("playback clock already started")

// State is the lifecycle position of a Clock. Transitions only move forward:
// Idle → Running → Stopped.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sink receives one complete frame per rendered transition
type Sink interface {
	Render(text string) error
}

// Audio is a soundtrack started once, immediately before playback runs
type Audio interface {
	Start() error
	Stop()
}

// Stats summarises a playback session
type Stats struct {
	Rendered  int           // Distinct frames sent to the sink
	Dropped   int           // Indices skipped because the loop fell behind
	Underruns int           // Targets whose frame was not available
	LastIndex int           // Last rendered index (-1 if none)
	Elapsed   time.Duration // Time from Start to Stop
}

// Clock maps elapsed time to the frame that should be on screen.
//
// It renders at most once per distinct target index and never catches up:
// when a tick arrives late, the indices in between are dropped.
type Clock struct {
	// Now returns the current time. Defaults to time.Now, whose monotonic
	// reading keeps elapsed time immune to wall clock changes.
	Now func() time.Time

	// Audio is started immediately before the clock enters Running (optional)
	Audio Audio

	// Poll is the pause between ticks in Run. Zero yields the processor
	// instead of sleeping. Keep it well under one frame interval.
	Poll time.Duration

	// Blank is rendered when a target frame is unavailable and nothing has
	// been shown yet
	Blank string

	// OnRender is called after every rendered transition (optional)
	OnRender func(index, total int)

	frames   []convert.Frame
	total    int
	interval time.Duration
	sink     Sink

	state        State
	start        time.Time
	lastRendered int
	lastText     string
	haveText     bool
	stats        Stats
}

// NewClock creates an idle clock that will play total frames from frames,
// advancing one index per interval.
func NewClock(frames []convert.Frame, total int, interval time.Duration, sink Sink) (*Clock, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: frame count cannot be negative, got %d", config.ErrInvalidConfiguration, total)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: frame interval must be positive, got %v", config.ErrInvalidConfiguration, interval)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: no output sink", config.ErrInvalidConfiguration)
	}

	return &Clock{
		Now:          time.Now,
		Poll:         time.Millisecond,
		frames:       frames,
		total:        total,
		interval:     interval,
		sink:         sink,
		lastRendered: -1,
		stats:        Stats{LastIndex: -1},
	}, nil
}

// State returns the current lifecycle state
func (c *Clock) State() State {
	return c.state
}

// LastRendered returns the last index sent to the sink, or -1
func (c *Clock) LastRendered() int {
	return c.lastRendered
}

// Stats returns the session statistics so far
func (c *Clock) Stats() Stats {
	s := c.stats
	if c.state == StateRunning {
		s.Elapsed = c.Now().Sub(c.start)
	}
	return s
}

// Start starts the audio (if any), captures the start time and enters Running
func (c *Clock) Start() error {
	if c.state != StateIdle {
		return ErrAlreadyStarted
	}

	if c.Audio != nil {
		if err := c.Audio.Start(); err != nil {
			return fmt.Errorf("failed to start audio: %w", err)
		}
	}

	c.start = c.Now()
	c.lastRendered = -1
	c.state = StateRunning
	return nil
}

// Stop ends the session. It is safe to call more than once.
func (c *Clock) Stop() {
	if c.state != StateRunning {
		c.state = StateStopped
		return
	}
	c.stats.Elapsed = c.Now().Sub(c.start)
	c.state = StateStopped
	if c.Audio != nil {
		c.Audio.Stop()
	}
}

// TargetIndex returns floor(elapsed / interval) for the current time
func (c *Clock) TargetIndex() int {
	elapsed := c.Now().Sub(c.start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / c.interval)
}

// Tick evaluates the clock once and renders if the target index moved.
// It reports whether a frame was rendered.
func (c *Clock) Tick() (bool, error) {
	switch c.state {
	case StateIdle:
		return false, ErrNotRunning
	case StateStopped:
		return false, nil
	}

	target := c.TargetIndex()
	if target >= c.total {
		c.stats.Dropped += c.total - c.lastRendered - 1
		c.Stop()
		return false, nil
	}
	if target <= c.lastRendered {
		return false, nil
	}

	text, ok := c.frameText(target)
	if !ok {
		c.stats.Underruns++
	}
	if err := c.sink.Render(text); err != nil {
		return false, fmt.Errorf("failed to render frame %d: %w", target, err)
	}

	c.stats.Dropped += target - c.lastRendered - 1
	c.stats.Rendered++
	c.stats.LastIndex = target
	c.lastRendered = target

	if c.OnRender != nil {
		c.OnRender(target, c.total)
	}
	return true, nil
}

// frameText returns the text for index, or a stand-in when the frame is
// missing, failed or not yet converted
func (c *Clock) frameText(index int) (string, bool) {
	if index < len(c.frames) && c.frames[index].Status == convert.StatusDone {
		c.lastText = c.frames[index].Text
		c.haveText = true
		return c.lastText, true
	}
	if c.haveText {
		return c.lastText, false
	}
	return c.Blank, false
}

// Run starts the clock if needed and polls it until every frame has had its
// turn or ctx is cancelled
func (c *Clock) Run(ctx context.Context) error {
	if c.state == StateIdle {
		if err := c.Start(); err != nil {
			return err
		}
	}

	for c.state == StateRunning {
		select {
		case <-ctx.Done():
			c.Stop()
			return ctx.Err()
		default:
		}

		if _, err := c.Tick(); err != nil {
			c.Stop()
			return err
		}

		if c.Poll > 0 {
			time.Sleep(c.Poll)
		} else {
			runtime.Gosched()
		}
	}
	return nil
}
