package frames

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestImage creates a PNG whose left half is left and right half is right.
// Returns the path to the file inside dir.
func writeTestImage(t *testing.T, dir, name string, left, right color.Color) string {
	t.Helper()

	const w, h = 40, 20
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestListNumericOrder(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Modification times deliberately disagree with the numbering
	touch(t, filepath.Join(dir, "10.bmp"), base)
	touch(t, filepath.Join(dir, "2.bmp"), base.Add(time.Minute))
	touch(t, filepath.Join(dir, "0.bmp"), base.Add(2*time.Minute))
	touch(t, filepath.Join(dir, "1.BMP"), base.Add(3*time.Minute))
	touch(t, filepath.Join(dir, "audio.wav"), base)
	touch(t, filepath.Join(dir, "notes.txt"), base)
	if err := os.Mkdir(filepath.Join(dir, "99.png"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []string{"0.bmp", "1.BMP", "2.bmp", "10.bmp"}
	if len(got) != len(want) {
		t.Fatalf("List returned %d frames %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("frame %d = %s, want %s", i, filepath.Base(got[i]), want[i])
		}
	}
}

func TestListModTimeFallback(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	touch(t, filepath.Join(dir, "c.png"), base)
	touch(t, filepath.Join(dir, "a.png"), base.Add(2*time.Second))
	touch(t, filepath.Join(dir, "b.png"), base.Add(time.Second))
	touch(t, filepath.Join(dir, "frame-1.png"), base.Add(time.Hour))

	got, err := List(dir, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []string{"frame-1.png", "c.png", "b.png", "a.png"}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("frame %d = %s, want %s", i, filepath.Base(got[i]), want[i])
		}
	}
}

func TestListMax(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for _, name := range []string{"0.jpg", "1.jpg", "2.jpg", "3.jpg"} {
		touch(t, filepath.Join(dir, name), now)
	}

	got, err := List(dir, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[1]) != "1.jpg" {
		t.Errorf("List(max=2) = %v, want first two frames", got)
	}
}

func TestListNoFrames(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "readme.md"), time.Now())

	_, err := List(dir, 0)
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("List = %v, want ErrNoFrames", err)
	}

	if _, err := List(filepath.Join(dir, "missing"), 0); err == nil {
		t.Error("List on missing directory returned nil error")
	}
}

func TestFrameNumber(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"12.bmp", 12, true},
		{"frame-0007.jpg", 7, true},
		{"scene2_shot14.png", 14, true},
		{"cover.png", 0, false},
		{"v2-final.png", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := frameNumber(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("frameNumber(%q) = %d, %v, want %d, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestImageSampler(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "0.png", color.Black, color.White)

	for _, sampler := range []*ImageSampler{NewImageSampler(), {}} {
		grid, err := sampler.Sample(context.Background(), path, 8, 4)
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		if len(grid) != 4 {
			t.Fatalf("grid has %d rows, want 4", len(grid))
		}
		for y, row := range grid {
			if len(row) != 8 {
				t.Fatalf("row %d has %d cells, want 8", y, len(row))
			}
			// Stay clear of the seam where interpolation blends the halves
			if row[0] > 5 || row[2] > 5 {
				t.Errorf("row %d left half = %v, want black", y, row[:4])
			}
			if row[5] < 250 || row[7] < 250 {
				t.Errorf("row %d right half = %v, want white", y, row[4:])
			}
		}
	}
}

func TestImageSamplerAveragesChannels(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	path := writeTestImage(t, dir, "0.png", red, red)

	grid, err := (&ImageSampler{}).Sample(context.Background(), path, 2, 2)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	// (255 + 0 + 0) / 3
	if got := grid[0][0]; got != 85 {
		t.Errorf("pure red intensity = %d, want 85", got)
	}
}

func TestImageSamplerErrors(t *testing.T) {
	dir := t.TempDir()
	sampler := NewImageSampler()

	if _, err := sampler.Sample(context.Background(), filepath.Join(dir, "missing.png"), 4, 4); err == nil {
		t.Error("Sample on missing file returned nil error")
	}

	corrupt := filepath.Join(dir, "corrupt.bmp")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := sampler.Sample(context.Background(), corrupt, 4, 4); err == nil {
		t.Error("Sample on corrupt file returned nil error")
	}

	good := writeTestImage(t, dir, "1.png", color.White, color.White)
	if _, err := sampler.Sample(context.Background(), good, 0, 4); err == nil {
		t.Error("Sample with zero width returned nil error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sampler.Sample(ctx, good, 4, 4); !errors.Is(err, context.Canceled) {
		t.Errorf("Sample with cancelled context = %v, want context.Canceled", err)
	}
}

func TestExtractReusesExistingFrames(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "0.png", color.White, color.Black)
	writeTestImage(t, dir, "1.png", color.White, color.Black)

	// No ffmpeg invocation happens when frames exist, so the video path is never opened
	n, err := Extract(context.Background(), filepath.Join(dir, "missing.mp4"), dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if n != 2 {
		t.Errorf("Extract returned %d frames, want 2", n)
	}
}

func TestExtractAudioReusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "audio.wav")
	touch(t, out, time.Now())

	if err := ExtractAudio(context.Background(), filepath.Join(dir, "missing.mp4"), out); err != nil {
		t.Errorf("ExtractAudio with existing output = %v, want nil", err)
	}
}
