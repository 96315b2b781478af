// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the audio edge effects engine.
package domain

// Edge identifies one screen edge an overlay strip can be pinned to.
type Edge string

// Screen edges an overlay window can occupy.
const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Edges returns all edges in their canonical order (top, bottom, left, right).
func Edges() []Edge {
	return []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight}
}

// Valid reports whether the edge is one of the four known screen edges.
func (e Edge) Valid() bool {
	switch e {
	case EdgeTop, EdgeBottom, EdgeLeft, EdgeRight:
		return true
	}
	return false
}

// Vertical reports whether the edge runs along the height axis of the screen.
// Vertical strips are placed left or right and have their long axis rotated.
func (e Edge) Vertical() bool {
	return e == EdgeLeft || e == EdgeRight
}

// Orientation describes how a canonically rendered frame must be transformed
// before it is presented on a given edge. Effects always render as if they
// were drawn on the bottom edge (long axis horizontal, base at the bottom);
// the orientation maps that frame onto the actual strip.
type Orientation int

const (
	// OrientationNone presents the canonical frame unchanged (bottom edge).
	OrientationNone Orientation = iota

	// OrientationFlipY mirrors the frame vertically (top edge).
	OrientationFlipY

	// OrientationRotateCW rotates the frame a quarter turn clockwise (left edge).
	OrientationRotateCW

	// OrientationRotateCCW rotates the frame a quarter turn counterclockwise (right edge).
	OrientationRotateCCW
)

// String returns a human-readable representation of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationNone:
		return "none"
	case OrientationFlipY:
		return "flip-y"
	case OrientationRotateCW:
		return "rotate-cw"
	case OrientationRotateCCW:
		return "rotate-ccw"
	default:
		return "unknown"
	}
}

// Rect is a window rectangle in screen coordinates (origin top-left, y down).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Screen describes the geometry of one display.
type Screen struct {
	// Name is the host's identifier for the display (may be empty).
	Name string

	// Width is the display width in logical pixels.
	Width int

	// Height is the display height in logical pixels.
	Height int
}

// Valid reports whether the screen has usable geometry.
func (s Screen) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// SpectralFrame is an ordered sequence of unsigned magnitude samples, one per
// frequency bin, scaled 0-255. The same shape carries time-domain waveform
// frames, where samples are centered on 128. Frames are transient: they are
// owned by the audio source and read-only to the engine.
type SpectralFrame []byte

// BandDefinition names a contiguous range of frequency bins as fractions of
// the bin index range. Low is inclusive, High exclusive. Bands may overlap.
type BandDefinition struct {
	Name string
	Low  float64
	High float64
}

// Canonical band names used by the default band layout and the beat detector.
const (
	BandBass   = "bass"
	BandMid    = "mid"
	BandTreble = "treble"
)

// DefaultBands returns the standard three-band layout: bass is the lowest
// ~15% of bins, mid the next ~35%, treble the remainder.
func DefaultBands() []BandDefinition {
	return []BandDefinition{
		{Name: BandBass, Low: 0.0, High: 0.15},
		{Name: BandMid, Low: 0.15, High: 0.5},
		{Name: BandTreble, Low: 0.5, High: 1.0},
	}
}

// Beat is the per-frame output of the beat detector.
type Beat struct {
	// Onset is true on the single frame a beat is detected.
	Onset bool

	// Energy is the bass-band energy that produced this result, 0.0 to 1.0.
	Energy float64
}

// FrameFeatures is the per-frame feature vector handed to an effect's draw
// callback. It is assembled fresh every frame and never retained.
type FrameFeatures struct {
	// Bands maps band names to normalized energies, 0.0 to 1.0.
	Bands map[string]float64

	// Beat is the beat detector output for this frame.
	Beat Beat

	// Spectrum is the frequency-domain frame the bands were computed from.
	Spectrum SpectralFrame

	// Waveform is the matching time-domain frame, 128-centered.
	Waveform SpectralFrame
}

// VisualizationMode selects which effect renders on the overlay strips.
type VisualizationMode string

// Built-in visualization modes.
const (
	ModeBars  VisualizationMode = "bars"
	ModeWave  VisualizationMode = "wave"
	ModePulse VisualizationMode = "pulse"
)

// Valid reports whether the mode is one of the built-in visualization modes.
func (m VisualizationMode) Valid() bool {
	switch m {
	case ModeBars, ModeWave, ModePulse:
		return true
	}
	return false
}

// ColorScheme selects the palette effects draw with.
type ColorScheme string

// Built-in color schemes.
const (
	SchemeSpectrum ColorScheme = "spectrum"
	SchemeFire     ColorScheme = "fire"
	SchemeOcean    ColorScheme = "ocean"
	SchemeMono     ColorScheme = "mono"
)

// Schemes returns all built-in color schemes in their canonical order.
func Schemes() []ColorScheme {
	return []ColorScheme{SchemeSpectrum, SchemeFire, SchemeOcean, SchemeMono}
}

// Valid reports whether the scheme is one of the built-in color schemes.
func (c ColorScheme) Valid() bool {
	switch c {
	case SchemeSpectrum, SchemeFire, SchemeOcean, SchemeMono:
		return true
	}
	return false
}

// EdgeConfig is one entry per currently active screen edge. The set of
// EdgeConfigs is the single source of truth for which overlay windows exist.
type EdgeConfig struct {
	// Edge is the screen edge this configuration applies to.
	Edge Edge

	// Thickness is the strip depth in pixels, measured into the screen.
	Thickness int

	// Density is the effective element count across the strip's long axis.
	Density int
}

// TrackInfo carries metadata about the audio the source is currently playing.
type TrackInfo struct {
	Title  string
	Artist string
	Album  string
}

// Default values applied when settings are absent or out of range.
const (
	DefaultThickness = 120
	DefaultDensity   = 256
	DefaultOpacity   = 1.0
	DefaultFrameRate = 60

	// MinThickness keeps strips at least tall enough to draw into.
	MinThickness = 8
)

// Settings is the persisted shared configuration for the whole application.
// The synchronizer reads it at startup and writes through on every change.
type Settings struct {
	// ActiveEdges is the ordered set of edges with a live overlay window.
	ActiveEdges []Edge

	// EdgeThickness is the per-edge strip depth in pixels.
	EdgeThickness map[Edge]int

	// Opacity is the overlay opacity, 0.0 to 1.0.
	Opacity float64

	// ColorScheme is the active palette.
	ColorScheme ColorScheme

	// Density is the base element count across a horizontal strip.
	Density int

	// Mode is the active visualization mode.
	Mode VisualizationMode

	// AudioInput identifies the selected audio source (device id or file path).
	AudioInput string
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		ActiveEdges: []Edge{EdgeBottom},
		EdgeThickness: map[Edge]int{
			EdgeTop:    DefaultThickness,
			EdgeBottom: DefaultThickness,
			EdgeLeft:   DefaultThickness,
			EdgeRight:  DefaultThickness,
		},
		Opacity:     DefaultOpacity,
		ColorScheme: SchemeSpectrum,
		Density:     DefaultDensity,
		Mode:        ModeBars,
	}
}

// Normalize clamps every field into its valid range and drops unknown or
// duplicate edges, so that a corrupt or hand-edited settings file can never
// produce an invalid engine state. The receiver is returned for chaining.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()

	seen := make(map[Edge]bool, len(s.ActiveEdges))
	edges := make([]Edge, 0, len(s.ActiveEdges))
	for _, e := range s.ActiveEdges {
		if !e.Valid() || seen[e] {
			continue
		}
		seen[e] = true
		edges = append(edges, e)
	}
	if len(edges) == 0 {
		edges = def.ActiveEdges
	}
	s.ActiveEdges = edges

	thickness := make(map[Edge]int, 4)
	for _, e := range Edges() {
		t := s.EdgeThickness[e]
		if t < MinThickness {
			t = DefaultThickness
		}
		thickness[e] = t
	}
	s.EdgeThickness = thickness

	if s.Opacity < 0 || s.Opacity > 1 {
		s.Opacity = def.Opacity
	}
	if s.Density < 1 {
		s.Density = def.Density
	}
	if s.ColorScheme == "" {
		s.ColorScheme = def.ColorScheme
	}
	if s.Mode == "" {
		s.Mode = def.Mode
	}
	return s
}

// EdgeConfigFor resolves the EdgeConfig for one edge from the shared settings.
func (s Settings) EdgeConfigFor(edge Edge) EdgeConfig {
	t := s.EdgeThickness[edge]
	if t < MinThickness {
		t = DefaultThickness
	}
	return EdgeConfig{Edge: edge, Thickness: t, Density: s.Density}
}
