// Package convert turns still frames into text-art frames with a fixed pool of workers
package convert

import (
	"fmt"

	"github.com/linuxmatters/asciireel/internal/config"
)

// Range is the half-open interval [Start, End) of frame indices owned by one worker
type Range struct {
	Start int
	End   int
}

// Len returns the number of frames in the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range holds no frames
func (r Range) Empty() bool {
	return r.End <= r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Partition splits n frames across w workers into w contiguous ranges.
//
// Every range but the last is n/w frames long; the last one absorbs the
// remainder so the union is exactly [0, n). When n < w the leading ranges
// are empty and the last range takes everything.
func Partition(n, w int) ([]Range, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: frame count cannot be negative, got %d", config.ErrInvalidConfiguration, n)
	}
	if w < 1 {
		return nil, fmt.Errorf("%w: worker count must be at least 1, got %d", config.ErrInvalidConfiguration, w)
	}

	step := n / w
	ranges := make([]Range, w)
	for t := 0; t < w; t++ {
		ranges[t] = Range{Start: t * step, End: (t + 1) * step}
	}
	ranges[w-1].End = n

	return ranges, nil
}
