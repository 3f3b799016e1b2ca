// Package frames locates extracted still frames on disk and samples them into intensity grids
package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoFrames is returned when a directory holds no usable image files
var ErrNoFrames = errors.New("no frames found")

// imageExtensions lists the still formats the sampler can decode
var imageExtensions = map[string]bool{
	".bmp":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

type frameFile struct {
	path    string
	name    string
	number  int
	hasNum  bool
	modTime time.Time
}

// List returns the image files in dir in playback order.
//
// Frames are ordered by the last run of digits in their name ("12.bmp",
// "frame-12.jpg"), so 2 sorts before 10. Ties and unnumbered files fall back
// to modification time, then name; unnumbered files come after numbered ones.
// A max above zero keeps only the first max frames.
func List(dir string, max int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var files []frameFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat frame %s: %w", name, err)
		}

		number, ok := frameNumber(name)
		files = append(files, frameFile{
			path:    filepath.Join(dir, name),
			name:    name,
			number:  number,
			hasNum:  ok,
			modTime: info.ModTime(),
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}

	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.hasNum != b.hasNum {
			return a.hasNum
		}
		if a.hasNum && a.number != b.number {
			return a.number < b.number
		}
		if !a.modTime.Equal(b.modTime) {
			return a.modTime.Before(b.modTime)
		}
		return a.name < b.name
	})

	if max > 0 && len(files) > max {
		files = files[:max]
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// frameNumber extracts the last run of digits from a file name (extension excluded)
func frameNumber(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	end := -1
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] >= '0' && base[i] <= '9' {
			end = i + 1
			break
		}
	}
	if end < 0 {
		return 0, false
	}

	start := end - 1
	for start > 0 && base[start-1] >= '0' && base[start-1] <= '9' {
		start--
	}

	n, err := strconv.Atoi(base[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
