// Package config holds the playback configuration shared by every asciireel component
package config

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// ErrInvalidConfiguration is returned for settings that must be rejected before any worker starts
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DefaultRamp runs from darkest to lightest.
// The doubled '#' keeps the two darkest buckets solid.
const DefaultRamp = "##@%=+*:-. "

// Config is built once and passed by value to each component.
// Nothing mutates it after Validate succeeds.
type Config struct {
	Workers   int    // Number of conversion workers (W)
	FrameRate int    // Nominal playback rate in frames per second
	Width     int    // Output grid width in characters
	Height    int    // Output grid height in characters
	Ramp      string // Glyph ramp, one character per brightness bucket
	MaxFrames int    // Optional cap on frames read from disk (0 = all frames found)
}

// DefaultConfig returns the settings asciireel uses when no flags are given
func DefaultConfig() Config {
	return Config{
		Workers:   6,
		FrameRate: 30,
		Width:     100,
		Height:    50,
		Ramp:      DefaultRamp,
	}
}

// Validate checks every field and reports the first problem found
func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfiguration, c.Workers)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate must be positive, got %d", ErrInvalidConfiguration, c.FrameRate)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfiguration, c.Width, c.Height)
	case utf8.RuneCountInString(c.Ramp) < 2:
		return fmt.Errorf("%w: ramp needs at least 2 glyphs, got %q", ErrInvalidConfiguration, c.Ramp)
	case c.MaxFrames < 0:
		return fmt.Errorf("%w: max frames cannot be negative, got %d", ErrInvalidConfiguration, c.MaxFrames)
	}
	return nil
}

// FrameInterval returns 1000/rate milliseconds.
// The result keeps the fractional part, so 30 fps gives 33.333333ms.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.FrameRate)
}

// FrameCount applies MaxFrames to the number of frames found on disk
func (c Config) FrameCount(found int) int {
	if c.MaxFrames > 0 && found > c.MaxFrames {
		return c.MaxFrames
	}
	return found
}
