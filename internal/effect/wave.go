package effect

import (
	"image"
	"math"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

const (
	waveLineWidth = 2    // Vertical extent of the trace line in pixels
	waveFillAlpha = 0.35 // Brightness of the area between trace and center
	waveGlowDecay = 0.85 // Beat glow retained per frame
)

// Wave renders the time-domain waveform as an oscilloscope trace across the
// strip, centered vertically, with a translucent fill toward the center
// line. Beats briefly widen the trace.
type Wave struct {
	pal     palette
	density int
	glow    float64
}

// NewWave creates the waveform effect.
func NewWave(scheme domain.ColorScheme) *Wave {
	return &Wave{
		pal: paletteFor(scheme),
	}
}

// Init implements Effect.
func (e *Wave) Init(width, height, density int) {
	if density < 2 {
		density = 2
	}
	e.density = density
	e.glow = 0
}

// SetColorScheme implements Effect.
func (e *Wave) SetColorScheme(scheme domain.ColorScheme) {
	e.pal = paletteFor(scheme)
}

// Destroy implements Effect.
func (e *Wave) Destroy() {}

// Render implements Effect.
func (e *Wave) Render(img *image.RGBA, features domain.FrameFeatures) {
	clearImage(img)

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 || e.density < 2 {
		return
	}

	if features.Beat.Onset {
		e.glow = 1
	} else {
		e.glow *= waveGlowDecay
	}

	samples := resample(features.Waveform, e.density)
	mid := float64(h) / 2
	amp := mid - 1

	spacing := float64(w-1) / float64(e.density-1)
	lineWidth := waveLineWidth + int(e.glow*float64(waveLineWidth))

	for i := 0; i < e.density-1; i++ {
		x0 := float64(i) * spacing
		x1 := float64(i+1) * spacing
		y0 := mid - samples[i]*amp
		y1 := mid - samples[i+1]*amp

		e.drawSegment(img, x0, y0, x1, y1, mid, lineWidth, w, h)
	}
}

// drawSegment rasterizes one trace segment column by column, filling from
// the trace toward the center line and stamping the trace itself on top.
func (e *Wave) drawSegment(img *image.RGBA, x0, y0, x1, y1, mid float64, lineWidth, w, h int) {
	steps := int(math.Abs(x1-x0)) + 1

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(x0 + (x1-x0)*t)
		if x < 0 || x >= w {
			continue
		}

		y := y0 + (y1-y0)*t
		pos := float64(x) / float64(w-1)
		swing := math.Abs(y-mid) / mid

		// Fill between the trace and the center line
		lo, hi := int(math.Min(y, mid)), int(math.Max(y, mid))
		fillCol := e.pal(pos, swing*waveFillAlpha)
		fillRect(img, x, lo, x+1, hi+1, fillCol)

		// Trace line
		traceCol := e.pal(pos, 0.6+0.4*swing)
		top := int(y) - lineWidth/2
		fillRect(img, x, top, x+1, top+lineWidth, traceCol)
	}
}

// Verify interface implementation at compile time.
var _ Effect = (*Wave)(nil)
