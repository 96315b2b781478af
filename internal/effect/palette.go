package effect

import (
	"image/color"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// palette maps a position along the strip (0-1) and an intensity (0-1) to a
// display color. Alpha is always opaque; overall overlay transparency is a
// window property, not a pixel one.
type palette func(pos, intensity float64) color.RGBA

// paletteFor returns the palette for a color scheme. Unknown schemes fall
// back to the rainbow spectrum.
func paletteFor(scheme domain.ColorScheme) palette {
	switch scheme {
	case domain.SchemeFire:
		return fireColor
	case domain.SchemeOcean:
		return oceanColor
	case domain.SchemeMono:
		return monoColor
	default:
		return spectrumColor
	}
}

// spectrumColor sweeps the hue wheel from red to violet along the strip.
func spectrumColor(pos, intensity float64) color.RGBA {
	pos = clamp01(pos)
	intensity = clamp01(intensity)

	r, g, b := hslToRGB(pos*0.83, 1.0, 0.25+0.4*intensity)
	return rgba(r, g, b)
}

// fireColor ramps black through red and yellow to white with intensity.
func fireColor(_, intensity float64) color.RGBA {
	t := clamp01(intensity) * 3

	r := clamp01(t)
	g := clamp01(t - 1)
	b := clamp01(t - 2)
	return rgba(r, g, b)
}

// oceanColor shifts deep blue toward cyan as intensity grows.
func oceanColor(pos, intensity float64) color.RGBA {
	pos = clamp01(pos)
	intensity = clamp01(intensity)

	hue := 0.66 - 0.14*intensity - 0.04*pos
	r, g, b := hslToRGB(hue, 1.0, 0.2+0.5*intensity)
	return rgba(r, g, b)
}

// monoColor is a plain white ramp.
func monoColor(_, intensity float64) color.RGBA {
	v := clamp01(intensity)
	return rgba(v, v, v)
}

func rgba(r, g, b float64) color.RGBA {
	return color.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// hslToRGB converts HSL to RGB (all components in 0-1 range).
func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)

	return r, g, b
}

// hueToRGB is a helper for HSL to RGB conversion.
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 0.5 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
