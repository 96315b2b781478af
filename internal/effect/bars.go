package effect

import (
	"image"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

const (
	barsMinGap     = 1   // Minimum gap between bars in pixels
	barsCapDepth   = 2   // Cap thickness in pixels
	barsCapFalloff = 2.0 // Pixels per frame the cap falls
	barsGlowDecay  = 0.8 // Beat glow retained per frame
	barsGlowBoost  = 0.3 // Extra brightness at full glow
)

// Bars renders the spectrum as vertical bars rising from the strip's
// baseline, with falling caps and a short brightness flash on each beat.
type Bars struct {
	pal     palette
	density int

	caps []float64 // Falling cap heights
	glow float64   // Beat flash level, decays toward zero

	// Layout cache (recalculated when the canvas size changes)
	lastWidth  int
	lastHeight int
	barWidth   int
	actualGap  int
	startX     int
}

// NewBars creates the bar spectrum effect.
func NewBars(scheme domain.ColorScheme) *Bars {
	return &Bars{
		pal: paletteFor(scheme),
	}
}

// Init implements Effect.
func (e *Bars) Init(width, height, density int) {
	if density < 1 {
		density = 1
	}
	e.density = density
	e.caps = make([]float64, density)
	e.glow = 0
	e.recalculateLayout(width, height)
}

// SetColorScheme implements Effect.
func (e *Bars) SetColorScheme(scheme domain.ColorScheme) {
	e.pal = paletteFor(scheme)
}

// Destroy implements Effect.
func (e *Bars) Destroy() {
	e.caps = nil
}

// Render implements Effect.
func (e *Bars) Render(img *image.RGBA, features domain.FrameFeatures) {
	clearImage(img)

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 || e.density == 0 {
		return
	}

	if e.lastWidth != w || e.lastHeight != h {
		e.recalculateLayout(w, h)
	}
	if e.barWidth == 0 {
		return
	}

	if features.Beat.Onset {
		e.glow = 1
	} else {
		e.glow *= barsGlowDecay
	}

	heights := barHeights(features.Spectrum, e.density, float64(h))
	e.updateCaps(heights)
	e.drawBars(img, heights, h)
}

// recalculateLayout computes and caches size-dependent layout values.
func (e *Bars) recalculateLayout(w, h int) {
	e.lastWidth = w
	e.lastHeight = h

	totalGapWidth := (e.density - 1) * barsMinGap
	availableBarWidth := w - totalGapWidth

	e.barWidth = max(availableBarWidth/e.density, 1)

	e.actualGap = barsMinGap
	if e.density > 1 {
		remainingSpace := w - e.barWidth*e.density
		e.actualGap = max(remainingSpace/(e.density-1), barsMinGap)
	}

	usedWidth := e.density*e.barWidth + (e.density-1)*e.actualGap
	e.startX = max((w-usedWidth)/2, 0)
}

// updateCaps advances the falling cap animation.
func (e *Bars) updateCaps(heights []float64) {
	for i := 0; i < e.density && i < len(heights); i++ {
		if heights[i] > e.caps[i] {
			e.caps[i] = heights[i]
		} else {
			e.caps[i] -= barsCapFalloff
			if e.caps[i] < 0 {
				e.caps[i] = 0
			}
		}
	}
}

// drawBars renders all bars and their caps.
func (e *Bars) drawBars(img *image.RGBA, heights []float64, h int) {
	step := e.barWidth + e.actualGap

	for i := 0; i < e.density && i < len(heights); i++ {
		barX := e.startX + i*step
		barH := int(heights[i])

		var pos float64
		if e.density > 1 {
			pos = float64(i) / float64(e.density-1)
		}

		e.drawSingleBar(img, barX, barH, h, pos)
		e.drawCap(img, barX, int(e.caps[i]), h, pos)
	}
}

// drawSingleBar renders one bar, brightening toward its tip.
func (e *Bars) drawSingleBar(img *image.RGBA, barX, barH, h int, pos float64) {
	for y := 0; y < barH && y < h; y++ {
		intensity := float64(y+1)/float64(h) + e.glow*barsGlowBoost
		col := e.pal(pos, intensity)

		screenY := h - 1 - y
		fillRect(img, barX, screenY, barX+e.barWidth, screenY+1, col)
	}
}

// drawCap renders the falling cap above a bar.
func (e *Bars) drawCap(img *image.RGBA, barX, capY, h int, pos float64) {
	if capY <= 0 || capY >= h {
		return
	}

	col := e.pal(pos, 1.0)
	screenY := h - 1 - capY
	fillRect(img, barX, screenY, barX+e.barWidth, screenY+barsCapDepth, col)
}

// Verify interface implementation at compile time.
var _ Effect = (*Bars)(nil)
