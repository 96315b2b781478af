package effect

import (
	"image"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

const (
	pulseCellGap     = 2    // Gap between glow cells in pixels
	pulseFlashDecay  = 0.88 // Beat flash retained per frame
	pulseSmoothing   = 0.6  // Fraction of the previous bass level kept
	pulseIdleHeight  = 0.08 // Glow height floor as a fraction of the strip
	pulseTrebleShift = 0.25 // Palette shift contributed by treble
)

// Pulse renders a row of glow cells along the baseline whose height follows
// the bass energy and flares on every beat. Treble shifts the palette so
// quiet and bright passages read differently.
type Pulse struct {
	pal     palette
	density int

	bassLevel float64 // Smoothed bass energy
	flash     float64 // Beat flash level, decays toward zero

	// Layout cache
	lastWidth int
	cellWidth int
	startX    int
}

// NewPulse creates the beat pulse effect.
func NewPulse(scheme domain.ColorScheme) *Pulse {
	return &Pulse{
		pal: paletteFor(scheme),
	}
}

// Init implements Effect.
func (e *Pulse) Init(width, height, density int) {
	if density < 1 {
		density = 1
	}
	e.density = density
	e.bassLevel = 0
	e.flash = 0
	e.recalculateLayout(width)
}

// SetColorScheme implements Effect.
func (e *Pulse) SetColorScheme(scheme domain.ColorScheme) {
	e.pal = paletteFor(scheme)
}

// Destroy implements Effect.
func (e *Pulse) Destroy() {}

// Render implements Effect.
func (e *Pulse) Render(img *image.RGBA, features domain.FrameFeatures) {
	clearImage(img)

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 || e.density == 0 {
		return
	}

	if e.lastWidth != w {
		e.recalculateLayout(w)
	}
	if e.cellWidth == 0 {
		return
	}

	bass := features.Bands[domain.BandBass]
	treble := features.Bands[domain.BandTreble]

	e.bassLevel = e.bassLevel*pulseSmoothing + bass*(1-pulseSmoothing)
	if features.Beat.Onset {
		e.flash = 1
	} else {
		e.flash *= pulseFlashDecay
	}

	level := clamp01(pulseIdleHeight + (1-pulseIdleHeight)*(e.bassLevel+0.5*e.flash))
	glowH := int(level * float64(h))
	if glowH < 1 {
		glowH = 1
	}

	e.drawCells(img, glowH, h, treble)
}

// recalculateLayout computes cell placement for the current width.
func (e *Pulse) recalculateLayout(w int) {
	e.lastWidth = w

	totalGap := (e.density - 1) * pulseCellGap
	e.cellWidth = max((w-totalGap)/e.density, 1)

	used := e.density*e.cellWidth + totalGap
	e.startX = max((w-used)/2, 0)
}

// drawCells renders the glow cells, fading from the baseline upward.
func (e *Pulse) drawCells(img *image.RGBA, glowH, h int, treble float64) {
	step := e.cellWidth + pulseCellGap

	for i := 0; i < e.density; i++ {
		cellX := e.startX + i*step

		var pos float64
		if e.density > 1 {
			pos = float64(i) / float64(e.density-1)
		}
		pos = clamp01(pos + treble*pulseTrebleShift)

		for y := 0; y < glowH && y < h; y++ {
			fade := 1 - float64(y)/float64(glowH)
			intensity := fade * (0.4 + 0.6*e.flash)
			col := e.pal(pos, intensity)

			screenY := h - 1 - y
			fillRect(img, cellX, screenY, cellX+e.cellWidth, screenY+1, col)
		}
	}
}

// Verify interface implementation at compile time.
var _ Effect = (*Pulse)(nil)
