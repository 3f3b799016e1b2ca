package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/linuxmatters/asciireel/internal/config"
)

var errUnreadable = errors.New("unreadable frame")

// fakeSampler returns a flat grid whose intensity is derived from the frame
// number encoded in the path ("frame-7" → 7). Paths listed in fail return an error.
type fakeSampler struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	delay time.Duration
}

func (s *fakeSampler) Sample(ctx context.Context, path string, width, height int) ([][]uint8, error) {
	s.mu.Lock()
	s.calls = append(s.calls, path)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail[path] {
		return nil, errUnreadable
	}

	var n int
	fmt.Sscanf(path, "frame-%d", &n)
	grid := make([][]uint8, height)
	for y := range grid {
		grid[y] = make([]uint8, width)
		for x := range grid[y] {
			grid[y][x] = uint8(n * 25)
		}
	}
	return grid, nil
}

func testSources(n int) []string {
	sources := make([]string, n)
	for i := range sources {
		sources[i] = fmt.Sprintf("frame-%d", i)
	}
	return sources
}

func testConfig(workers int) config.Config {
	cfg := config.DefaultConfig()
	cfg.Workers = workers
	cfg.Width = 4
	cfg.Height = 2
	return cfg
}

func waitBatch(t *testing.T, b *Batch) {
	t.Helper()
	select {
	case <-b.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not complete")
	}
}

func TestConverterRender(t *testing.T) {
	ramp, _ := NewRamp(config.DefaultRamp)
	c := &Converter{
		Sampler: SamplerFunc(func(_ context.Context, _ string, w, h int) ([][]uint8, error) {
			return [][]uint8{{0, 50, 255}, {100, 150, 200}}, nil
		}),
		Ramp:   ramp,
		Width:  3,
		Height: 2,
	}

	got, err := c.Render(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "#@ \n=*-"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestPoolConvertsEveryFrame(t *testing.T) {
	sampler := &fakeSampler{}
	pool, err := NewPool(testConfig(3), sampler)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), testSources(10))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitBatch(t, b)

	if got := b.Tracker().Count(); got != 10 {
		t.Errorf("tracker count = %d, want 10", got)
	}
	if b.Tracker().Overrun() {
		t.Error("tracker overran")
	}

	wantRanges := []Range{{0, 3}, {3, 6}, {6, 10}}
	for i, r := range b.Ranges() {
		if r != wantRanges[i] {
			t.Errorf("range %d = %v, want %v", i, r, wantRanges[i])
		}
	}

	for i, f := range b.Frames() {
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if f.Status != StatusDone {
			t.Errorf("frame %d status = %v, want done", i, f.Status)
		}
		lines := strings.Split(f.Text, "\n")
		if len(lines) != 2 || len([]rune(lines[0])) != 4 {
			t.Errorf("frame %d text = %q, want 2 lines of 4 glyphs", i, f.Text)
		}
	}

	converted := 0
	for _, s := range b.Stats() {
		converted += s.Converted
		if s.Failed != 0 {
			t.Errorf("worker %d failed %d frames", s.Worker, s.Failed)
		}
	}
	if converted != 10 {
		t.Errorf("workers converted %d frames, want 10", converted)
	}
	if len(sampler.calls) != 10 {
		t.Errorf("sampler called %d times, want 10", len(sampler.calls))
	}
}

func TestPoolFrameReadFailure(t *testing.T) {
	sampler := &fakeSampler{fail: map[string]bool{"frame-5": true}}
	pool, err := NewPool(testConfig(3), sampler)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), testSources(10))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitBatch(t, b)

	if !b.Tracker().Done() || b.Tracker().Count() != 10 {
		t.Fatalf("tracker = %d/%d, want 10/10", b.Tracker().Count(), b.Tracker().Total())
	}

	frames := b.Frames()
	if frames[5].Status != StatusFailed {
		t.Errorf("frame 5 status = %v, want failed", frames[5].Status)
	}
	if frames[5].Text != "" {
		t.Errorf("frame 5 text = %q, want empty sentinel", frames[5].Text)
	}
	if !errors.Is(frames[5].Err, errUnreadable) {
		t.Errorf("frame 5 error = %v, want errUnreadable", frames[5].Err)
	}

	for i, f := range frames {
		if i != 5 && f.Status != StatusDone {
			t.Errorf("frame %d status = %v, want done", i, f.Status)
		}
	}

	failed := b.Failed()
	if len(failed) != 1 || failed[0].Index != 5 {
		t.Errorf("Failed() = %v, want only frame 5", failed)
	}
	if got := b.Stats()[1].Failed; got != 1 {
		t.Errorf("worker 1 failed = %d, want 1", got)
	}
}

func TestPoolAscendingOrderWithinRange(t *testing.T) {
	sampler := &fakeSampler{}
	pool, err := NewPool(testConfig(1), sampler)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), testSources(8))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitBatch(t, b)

	for i, call := range sampler.calls {
		if want := fmt.Sprintf("frame-%d", i); call != want {
			t.Errorf("call %d = %s, want %s", i, call, want)
		}
	}
}

func TestPoolFewerFramesThanWorkers(t *testing.T) {
	pool, err := NewPool(testConfig(6), &fakeSampler{})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), testSources(2))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitBatch(t, b)

	if got := b.Tracker().Count(); got != 2 {
		t.Errorf("tracker count = %d, want 2", got)
	}
	stats := b.Stats()
	if len(stats) != 6 {
		t.Fatalf("got %d worker stats, want 6", len(stats))
	}
	for _, s := range stats[:5] {
		if s.Converted != 0 || s.Failed != 0 {
			t.Errorf("worker %d with empty range did work: %+v", s.Worker, s)
		}
	}
}

func TestPoolEmptyBatch(t *testing.T) {
	pool, err := NewPool(testConfig(3), &fakeSampler{})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitBatch(t, b)

	if !b.Tracker().Done() {
		t.Error("empty batch not done")
	}
}

func TestPoolCancel(t *testing.T) {
	sampler := &fakeSampler{delay: 2 * time.Millisecond}
	pool, err := NewPool(testConfig(2), sampler)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), testSources(200))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	b.Cancel()
	waitBatch(t, b)

	// Cancelled frames still count, so completion stays reachable
	if got := b.Tracker().Count(); got != 200 {
		t.Fatalf("tracker count = %d, want 200", got)
	}

	cancelled := 0
	for _, f := range b.Frames() {
		if f.Status == StatusPending {
			t.Fatalf("frame %d left pending", f.Index)
		}
		if errors.Is(f.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("no frame was marked cancelled")
	}
}

func TestPoolPollingObserver(t *testing.T) {
	pool, err := NewPool(testConfig(4), &fakeSampler{delay: 100 * time.Microsecond})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	b, err := pool.Start(context.Background(), testSources(40))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Tracker().WaitPolling(ctx, time.Millisecond, nil); err != nil {
		t.Fatalf("WaitPolling: %v", err)
	}

	// Done from the tracker is enough to read every frame
	for i, f := range b.Frames() {
		if f.Status != StatusDone {
			t.Errorf("frame %d status = %v after tracker done", i, f.Status)
		}
	}
}

func TestNewPoolInvalid(t *testing.T) {
	cfg := testConfig(0)
	if _, err := NewPool(cfg, &fakeSampler{}); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("NewPool with 0 workers = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewPool(testConfig(2), nil); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("NewPool without sampler = %v, want ErrInvalidConfiguration", err)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusPending: "pending",
		StatusDone:    "done",
		StatusFailed:  "failed",
		Status(9):     "status(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
