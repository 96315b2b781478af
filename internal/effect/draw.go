package effect

import (
	"image"
	"image/color"
	"math"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// clearImage resets every pixel to fully transparent.
func clearImage(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

// fillRect fills the half-open rectangle [x0,x1)x[y0,y1), clipped to the
// image bounds.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	b := img.Bounds()
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// barHeights folds a spectral frame into numBars heights using logarithmic
// bin grouping, so the narrow low octaves get as much visual space as the
// wide high end. Heights are pixels in [0, maxHeight].
func barHeights(frame domain.SpectralFrame, numBars int, maxHeight float64) []float64 {
	heights := make([]float64, numBars)

	if len(frame) < 2 || numBars == 0 {
		return heights
	}

	b0 := 1 // Skip DC offset

	for x := 0; x < numBars; x++ {
		var b1 int
		if numBars > 1 {
			b1 = int(math.Pow(2, float64(x)*10.0/float64(numBars-1)))
		} else {
			b1 = len(frame) - 1
		}

		if b1 >= len(frame) {
			b1 = len(frame) - 1
		}
		if b1 < b0 {
			b1 = b0
		}

		var peak byte
		for b := b0; b <= b1 && b < len(frame); b++ {
			if frame[b] > peak {
				peak = frame[b]
			}
		}

		y := math.Sqrt(float64(peak)/255.0) * maxHeight
		if y > maxHeight {
			y = maxHeight
		}

		heights[x] = y
		b0 = b1 + 1
	}

	return heights
}

// resample picks count evenly spaced samples from the frame, normalized to
// [-1,1] around the unsigned midpoint.
func resample(frame domain.SpectralFrame, count int) []float64 {
	out := make([]float64, count)

	if len(frame) == 0 || count == 0 {
		return out
	}

	for i := 0; i < count; i++ {
		idx := i * len(frame) / count
		out[i] = (float64(frame[idx]) - 128.0) / 128.0
	}

	return out
}
