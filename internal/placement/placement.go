// Package placement computes overlay window geometry. Every effect renders
// into a single canonical frame (a horizontal strip with its baseline at the
// bottom, as if pinned to the bottom screen edge); placement decides where
// the window for an edge sits, how dense its content should be, and how the
// canonical frame is reoriented so the strip's baseline hugs its edge.
package placement

import (
	"image"
	"math"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// WindowRect returns the screen rectangle for an overlay strip of the given
// thickness along the given edge. Horizontal edges span the full screen
// width, vertical edges the full height.
func WindowRect(edge domain.Edge, thickness int, screen domain.Screen) (domain.Rect, error) {
	if !screen.Valid() {
		return domain.Rect{}, domain.NewScreenError(edge, "place", nil)
	}

	switch edge {
	case domain.EdgeTop:
		return domain.Rect{X: 0, Y: 0, Width: screen.Width, Height: thickness}, nil
	case domain.EdgeBottom:
		return domain.Rect{X: 0, Y: screen.Height - thickness, Width: screen.Width, Height: thickness}, nil
	case domain.EdgeLeft:
		return domain.Rect{X: 0, Y: 0, Width: thickness, Height: screen.Height}, nil
	case domain.EdgeRight:
		return domain.Rect{X: screen.Width - thickness, Y: 0, Width: thickness, Height: screen.Height}, nil
	default:
		return domain.Rect{}, domain.ErrUnknownEdge
	}
}

// EffectiveDensity rescales the configured density for the edge's strip.
// Density counts elements across the strip's long axis; a vertical strip
// runs along the screen height, so the base value is scaled by the aspect
// ratio to keep element spacing visually equal to a horizontal strip with
// the same setting.
func EffectiveDensity(edge domain.Edge, baseDensity int, screen domain.Screen) int {
	if !edge.Vertical() || screen.Width <= 0 {
		return baseDensity
	}

	scaled := float64(baseDensity) * float64(screen.Height) / float64(screen.Width)
	return int(math.Round(scaled))
}

// OrientationFor returns the transform that maps the canonical bottom-edge
// frame onto the given edge. Unknown edges map to no transform.
func OrientationFor(edge domain.Edge) domain.Orientation {
	switch edge {
	case domain.EdgeTop:
		return domain.OrientationFlipY
	case domain.EdgeLeft:
		return domain.OrientationRotateCW
	case domain.EdgeRight:
		return domain.OrientationRotateCCW
	default:
		return domain.OrientationNone
	}
}

// CanvasSize returns the dimensions of the canonical frame an effect renders
// for the given edge: the strip's long axis across, its thickness down. For
// vertical edges the long axis is the screen height; the orientation
// transform then turns the canvas to fit the window rectangle.
func CanvasSize(edge domain.Edge, thickness int, screen domain.Screen) (width, height int) {
	if edge.Vertical() {
		return screen.Height, thickness
	}
	return screen.Width, thickness
}

// ApplyOrientation reorients a canonical frame for presentation. The dst
// buffer is reused when it has the right dimensions, otherwise a new image
// is allocated; the result is returned either way. OrientationNone returns
// src itself without copying.
func ApplyOrientation(dst, src *image.RGBA, orientation domain.Orientation) *image.RGBA {
	if orientation == domain.OrientationNone {
		return src
	}

	sw := src.Rect.Dx()
	sh := src.Rect.Dy()

	dw, dh := sw, sh
	if orientation == domain.OrientationRotateCW || orientation == domain.OrientationRotateCCW {
		dw, dh = sh, sw
	}

	if dst == nil || dst.Rect.Dx() != dw || dst.Rect.Dy() != dh {
		dst = image.NewRGBA(image.Rect(0, 0, dw, dh))
	}

	switch orientation {
	case domain.OrientationFlipY:
		for y := 0; y < dh; y++ {
			srcRow := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+sh-1-y)
			dstRow := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
			copy(dst.Pix[dstRow:dstRow+dw*4], src.Pix[srcRow:srcRow+sw*4])
		}

	case domain.OrientationRotateCW:
		// dst(x,y) = src(y, sh-1-x)
		for y := 0; y < dh; y++ {
			for x := 0; x < dw; x++ {
				so := src.PixOffset(src.Rect.Min.X+y, src.Rect.Min.Y+sh-1-x)
				do := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
				copy(dst.Pix[do:do+4], src.Pix[so:so+4])
			}
		}

	case domain.OrientationRotateCCW:
		// dst(x,y) = src(sw-1-y, x)
		for y := 0; y < dh; y++ {
			for x := 0; x < dw; x++ {
				so := src.PixOffset(src.Rect.Min.X+sw-1-y, src.Rect.Min.Y+x)
				do := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
				copy(dst.Pix[do:do+4], src.Pix[so:so+4])
			}
		}
	}

	return dst
}
