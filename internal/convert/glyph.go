package convert

import (
	"fmt"
	"math"

	"github.com/linuxmatters/asciireel/internal/config"
)

// Ramp maps average cell intensity to a glyph.
// It is built once and only read afterwards, so workers share it without locking.
type Ramp struct {
	glyphs []rune
	step   float32 // Width of one intensity bucket
}

// NewRamp builds a ramp from an ordered glyph string (darkest first for the default ramp)
func NewRamp(s string) (Ramp, error) {
	glyphs := []rune(s)
	if len(glyphs) < 2 {
		return Ramp{}, fmt.Errorf("%w: ramp needs at least 2 glyphs, got %q", config.ErrInvalidConfiguration, s)
	}

	// Integer division first, then widen: 255/10 gives a step of 25, not 25.5
	step := float32(255 / (len(glyphs) - 1))
	if step == 0 {
		// Ramps longer than 256 glyphs collapse to one glyph per intensity
		step = 1
	}

	return Ramp{glyphs: glyphs, step: step}, nil
}

// Glyph returns the glyph for an average intensity in 0..255.
// The index is clamped because floor(avg/step) can land past the end: a
// 17-glyph ramp has a step of 15, and 255/15 = 17 while the last index is 16.
func (r Ramp) Glyph(avg uint8) rune {
	idx := int(math.Floor(float64(float32(avg) / r.step)))
	if idx > len(r.glyphs)-1 {
		idx = len(r.glyphs) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return r.glyphs[idx]
}

// Len returns the number of glyphs in the ramp
func (r Ramp) Len() int {
	return len(r.glyphs)
}

func (r Ramp) String() string {
	return string(r.glyphs)
}
