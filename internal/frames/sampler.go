package frames

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
)

// ImageSampler decodes a still frame, scales it to the character grid and
// averages each pixel's channels into a single intensity
type ImageSampler struct {
	// Interpolation used when scaling (zero value is nearest-neighbour)
	Interpolation resize.InterpolationFunction
}

// NewImageSampler returns a sampler using bilinear interpolation
func NewImageSampler() *ImageSampler {
	return &ImageSampler{Interpolation: resize.Bilinear}
}

// Sample implements convert.Sampler. Every cell holds (R+G+B)/3 in 0..255.
func (s *ImageSampler) Sample(ctx context.Context, path string, width, height int) ([][]uint8, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}

	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}

	scaled := resize.Resize(uint(width), uint(height), img, s.Interpolation)
	return intensityGrid(scaled, width, height), nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}

// intensityGrid reads a width×height grid starting at the image's origin
func intensityGrid(img image.Image, width, height int) [][]uint8 {
	bounds := img.Bounds()
	grid := make([][]uint8, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]uint8, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels
			grid[y][x] = uint8(((r >> 8) + (g >> 8) + (b >> 8)) / 3)
		}
	}
	return grid
}
