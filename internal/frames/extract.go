package frames

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Extract splits a video into numbered BMP stills (0.bmp, 1.bmp, ...) in dir
// using the ffmpeg binary. Frames already present are reused as-is, so a second
// run over the same directory does no work. Returns the number of frames in dir.
func Extract(ctx context.Context, videoPath, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create frame directory: %w", err)
	}

	if existing, err := List(dir, 0); err == nil {
		return len(existing), nil
	} else if !errors.Is(err, ErrNoFrames) {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-start_number", "0",
		"-y",
		filepath.Join(dir, "%d.bmp"),
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg frame extraction failed: %w: %s", err, string(output))
	}

	extracted, err := List(dir, 0)
	if err != nil {
		return 0, err
	}
	return len(extracted), nil
}

// ExtractAudio writes the soundtrack of a video to a 16-bit PCM WAV file.
// An existing output file is reused.
func ExtractAudio(ctx context.Context, videoPath, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return nil
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-y",
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, string(output))
	}
	return nil
}
