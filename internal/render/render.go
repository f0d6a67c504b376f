// Package render defines the screenshot-capture collaborator used by
// the Scanner Pool's perceptual-hash stage, plus the average-hash
// implementation used to turn two screenshots into a 0-100 similarity
// score.
package render

import (
	"context"
	"image"
	"math"
	"math/bits"

	"golang.org/x/image/draw"
)

// Renderer captures a rendered screenshot of a URL. The default
// implementation is chromedp-backed (see chrome.go); it is an
// interface so the Scanner Pool never depends on a browser directly.
type Renderer interface {
	Render(ctx context.Context, url string) (image.Image, error)
}

// hashSize is the average-hash grid dimension: an 8x8 grid yields a
// 64-bit fingerprint, the standard size for this algorithm.
const hashSize = 8

// AverageHash reduces img to a hashSize x hashSize grayscale grid and
// returns a 64-bit fingerprint: bit i is 1 when pixel i's luminance is
// at or above the grid's mean luminance.
func AverageHash(img image.Image) uint64 {
	small := image.NewGray(image.Rect(0, 0, hashSize, hashSize))
	// x/image/draw has no Lanczos kernel; CatmullRom, its highest-quality
	// resampling kernel, is used in its place.
	draw.CatmullRom.Scale(small, small.Bounds(), img, img.Bounds(), draw.Over, nil)

	var sum int
	pixels := make([]uint8, 0, hashSize*hashSize)
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			v := small.GrayAt(x, y).Y
			pixels = append(pixels, v)
			sum += int(v)
		}
	}
	mean := sum / (hashSize * hashSize)

	var hash uint64
	for i, v := range pixels {
		if int(v) >= mean {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

// Similarity converts a Hamming distance between two average-hashes
// into a 0-100 similarity score, per §6:
// max(0, floor((1 + e^((64-Hamming)/64) - e) * 100)).
func Similarity(a, b uint64) int {
	distance := float64(bits.OnesCount64(a ^ b))
	score := (1 + math.Exp((64-distance)/64) - math.E) * 100
	if score < 0 {
		return 0
	}
	return int(math.Floor(score))
}
