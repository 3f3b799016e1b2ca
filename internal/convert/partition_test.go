package convert

import (
	"errors"
	"testing"

	"github.com/linuxmatters/asciireel/internal/config"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		n    int
		w    int
		want []Range
	}{
		{"remainder_in_last", 10, 3, []Range{{0, 3}, {3, 6}, {6, 10}}},
		{"even_split", 12, 4, []Range{{0, 3}, {3, 6}, {6, 9}, {9, 12}}},
		{"single_worker", 7, 1, []Range{{0, 7}}},
		{"fewer_frames_than_workers", 2, 4, []Range{{0, 0}, {0, 0}, {0, 0}, {0, 2}}},
		{"no_frames", 0, 3, []Range{{0, 0}, {0, 0}, {0, 0}}},
		{"long_clip_six_workers", 6572, 6, []Range{{0, 1095}, {1095, 2190}, {2190, 3285}, {3285, 4380}, {4380, 5475}, {5475, 6572}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Partition(tt.n, tt.w)
			if err != nil {
				t.Fatalf("Partition(%d, %d) error: %v", tt.n, tt.w, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Partition(%d, %d) returned %d ranges, want %d", tt.n, tt.w, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestPartitionCoverage checks that every index in [0, n) is owned by exactly one range
func TestPartitionCoverage(t *testing.T) {
	for n := 0; n <= 64; n++ {
		for w := 1; w <= 12; w++ {
			ranges, err := Partition(n, w)
			if err != nil {
				t.Fatalf("Partition(%d, %d) error: %v", n, w, err)
			}
			if len(ranges) != w {
				t.Fatalf("Partition(%d, %d) returned %d ranges", n, w, len(ranges))
			}

			owners := make([]int, n)
			next := 0
			for _, r := range ranges {
				if r.Start != next && !r.Empty() {
					t.Fatalf("Partition(%d, %d): range %v does not start at %d", n, w, r, next)
				}
				for i := r.Start; i < r.End; i++ {
					owners[i]++
				}
				if !r.Empty() {
					next = r.End
				}
			}
			for i, c := range owners {
				if c != 1 {
					t.Fatalf("Partition(%d, %d): index %d owned %d times", n, w, i, c)
				}
			}
		}
	}
}

func TestPartitionInvalid(t *testing.T) {
	tests := []struct {
		name string
		n    int
		w    int
	}{
		{"negative_frames", -1, 3},
		{"zero_workers", 10, 0},
		{"negative_workers", 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.n, tt.w)
			if !errors.Is(err, config.ErrInvalidConfiguration) {
				t.Errorf("Partition(%d, %d) = %v, want ErrInvalidConfiguration", tt.n, tt.w, err)
			}
		})
	}
}

func TestRangeHelpers(t *testing.T) {
	r := Range{Start: 3, End: 6}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.Empty() {
		t.Error("Empty() = true for [3,6)")
	}
	if !(Range{Start: 4, End: 4}).Empty() {
		t.Error("Empty() = false for [4,4)")
	}
	if got := r.String(); got != "[3,6)" {
		t.Errorf("String() = %q, want %q", got, "[3,6)")
	}
}
