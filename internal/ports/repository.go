// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// SettingsRepository handles the persistence of the shared overlay settings.
// Implementations can use a file on disk or in-memory storage; the engine
// reads settings at startup and on explicit toggle/set calls and writes
// through on every change. It never manages persistence itself.
//
// Load methods return documented defaults when nothing was saved; they only
// return errors for genuine persistence failures.
//
// Thread-safety: Implementations must be thread-safe.
type SettingsRepository interface {
	// Whole-document access

	// LoadAll retrieves every saved setting as one normalized Settings value.
	// Missing or out-of-range fields are replaced with their defaults.
	//
	// Returns the settings or an error if loading fails.
	LoadAll() (domain.Settings, error)

	// Active edge preferences

	// SaveActiveEdges persists the ordered set of active edges.
	//
	// Returns an error if saving fails.
	SaveActiveEdges(edges []domain.Edge) error

	// LoadActiveEdges retrieves the saved active edge set.
	// If nothing was saved, returns the default set (bottom only).
	//
	// Returns the edges or an error if loading fails.
	LoadActiveEdges() ([]domain.Edge, error)

	// Per-edge thickness preferences

	// SaveEdgeThickness persists the strip depth for one edge.
	//
	// Returns an error if saving fails.
	SaveEdgeThickness(edge domain.Edge, thickness int) error

	// LoadEdgeThickness retrieves the saved strip depth for one edge.
	// If nothing was saved, returns domain.DefaultThickness.
	//
	// Returns the thickness or an error if loading fails.
	LoadEdgeThickness(edge domain.Edge) (int, error)

	// Appearance preferences

	// SaveOpacity persists the overlay opacity.
	//
	// Returns an error if saving fails.
	SaveOpacity(opacity float64) error

	// LoadOpacity retrieves the saved opacity.
	// If nothing was saved, returns domain.DefaultOpacity.
	//
	// Returns the opacity or an error if loading fails.
	LoadOpacity() (float64, error)

	// SaveColorScheme persists the color scheme.
	//
	// Returns an error if saving fails.
	SaveColorScheme(scheme domain.ColorScheme) error

	// LoadColorScheme retrieves the saved color scheme.
	// If nothing was saved, returns domain.SchemeSpectrum.
	//
	// Returns the scheme or an error if loading fails.
	LoadColorScheme() (domain.ColorScheme, error)

	// SaveDensity persists the base density.
	//
	// Returns an error if saving fails.
	SaveDensity(density int) error

	// LoadDensity retrieves the saved base density.
	// If nothing was saved, returns domain.DefaultDensity.
	//
	// Returns the density or an error if loading fails.
	LoadDensity() (int, error)

	// SaveMode persists the visualization mode.
	//
	// Returns an error if saving fails.
	SaveMode(mode domain.VisualizationMode) error

	// LoadMode retrieves the saved visualization mode.
	// If nothing was saved, returns domain.ModeBars.
	//
	// Returns the mode or an error if loading fails.
	LoadMode() (domain.VisualizationMode, error)

	// Audio input preferences

	// SaveAudioInput persists the selected audio input identifier.
	//
	// Returns an error if saving fails.
	SaveAudioInput(input string) error

	// LoadAudioInput retrieves the saved audio input identifier.
	// If nothing was saved, returns the empty string (implementation default).
	//
	// Returns the input or an error if loading fails.
	LoadAudioInput() (string, error)

	// Utility methods

	// Clear removes all saved settings.
	//
	// Returns an error if clearing fails.
	Clear() error
}
