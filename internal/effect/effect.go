// Package effect renders audio-reactive visuals for the overlay strips.
// Every effect draws into a canonical frame: a horizontal strip whose
// baseline is the bottom row, as if attached to the bottom screen edge.
// Placement reorients that frame for the other edges, so effects never know
// which edge they are on.
package effect

import (
	"image"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// Effect is the capability every visualization mode implements.
// Implementations are driven from a single draw loop and need no locking.
type Effect interface {
	// Init prepares the effect for a canvas of the given size. The density
	// is the number of elements across the strip's long axis. Init may be
	// called again after a size or density change.
	Init(width, height, density int)

	// Render draws one frame into img. The image is cleared first; pixels
	// the effect leaves untouched stay fully transparent.
	Render(img *image.RGBA, features domain.FrameFeatures)

	// SetColorScheme swaps the palette without resetting animation state.
	SetColorScheme(scheme domain.ColorScheme)

	// Destroy releases effect state. The effect is not used afterwards.
	Destroy()
}

// Factory creates the effect for a visualization mode. Unknown modes fall
// back to the bar spectrum.
func Factory(mode domain.VisualizationMode, scheme domain.ColorScheme) Effect {
	switch mode {
	case domain.ModeBars:
		return NewBars(scheme)
	case domain.ModeWave:
		return NewWave(scheme)
	case domain.ModePulse:
		return NewPulse(scheme)
	default:
		return NewBars(scheme)
	}
}

// ModeInfo pairs a visualization mode with its display name.
type ModeInfo struct {
	Mode domain.VisualizationMode
	Name string
}

// Modes returns all selectable visualization modes with display names.
func Modes() []ModeInfo {
	return []ModeInfo{
		{domain.ModeBars, "Spectrum Bars"},
		{domain.ModeWave, "Waveform"},
		{domain.ModePulse, "Beat Pulse"},
	}
}
