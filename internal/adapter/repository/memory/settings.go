// Package memory provides an in-memory settings repository, used in tests
// and as a fallback when no settings file can be created.
package memory

import (
	"sync"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

// SettingsRepository implements ports.SettingsRepository in memory.
// Unset fields report the documented defaults, matching the behavior of the
// file-backed repository on a missing file.
//
// Thread-safe: All operations protected by sync.RWMutex.
type SettingsRepository struct {
	mu sync.RWMutex

	activeEdges   []domain.Edge
	edgeThickness map[domain.Edge]int
	opacity       *float64
	scheme        domain.ColorScheme
	density       *int
	mode          domain.VisualizationMode
	audioInput    string
}

// NewSettingsRepository creates an empty in-memory settings repository.
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{
		edgeThickness: make(map[domain.Edge]int),
	}
}

// LoadAll retrieves every saved setting as one normalized Settings value.
func (r *SettingsRepository) LoadAll() (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := domain.DefaultSettings()
	if len(r.activeEdges) > 0 {
		settings.ActiveEdges = append([]domain.Edge(nil), r.activeEdges...)
	}
	for edge, thickness := range r.edgeThickness {
		settings.EdgeThickness[edge] = thickness
	}
	if r.opacity != nil {
		settings.Opacity = *r.opacity
	}
	if r.scheme != "" {
		settings.ColorScheme = r.scheme
	}
	if r.density != nil {
		settings.Density = *r.density
	}
	if r.mode != "" {
		settings.Mode = r.mode
	}
	settings.AudioInput = r.audioInput

	return settings.Normalize(), nil
}

// SaveActiveEdges persists the ordered set of active edges.
func (r *SettingsRepository) SaveActiveEdges(edges []domain.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeEdges = append([]domain.Edge(nil), edges...)
	return nil
}

// LoadActiveEdges retrieves the saved active edge set.
func (r *SettingsRepository) LoadActiveEdges() ([]domain.Edge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.activeEdges) == 0 {
		return domain.DefaultSettings().ActiveEdges, nil
	}
	return append([]domain.Edge(nil), r.activeEdges...), nil
}

// SaveEdgeThickness persists the strip depth for one edge.
func (r *SettingsRepository) SaveEdgeThickness(edge domain.Edge, thickness int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.edgeThickness[edge] = thickness
	return nil
}

// LoadEdgeThickness retrieves the saved strip depth for one edge.
func (r *SettingsRepository) LoadEdgeThickness(edge domain.Edge) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if thickness, ok := r.edgeThickness[edge]; ok {
		return thickness, nil
	}
	return domain.DefaultThickness, nil
}

// SaveOpacity persists the overlay opacity.
func (r *SettingsRepository) SaveOpacity(opacity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.opacity = &opacity
	return nil
}

// LoadOpacity retrieves the saved opacity.
func (r *SettingsRepository) LoadOpacity() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.opacity != nil {
		return *r.opacity, nil
	}
	return domain.DefaultOpacity, nil
}

// SaveColorScheme persists the color scheme.
func (r *SettingsRepository) SaveColorScheme(scheme domain.ColorScheme) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scheme = scheme
	return nil
}

// LoadColorScheme retrieves the saved color scheme.
func (r *SettingsRepository) LoadColorScheme() (domain.ColorScheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.scheme != "" {
		return r.scheme, nil
	}
	return domain.SchemeSpectrum, nil
}

// SaveDensity persists the base density.
func (r *SettingsRepository) SaveDensity(density int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.density = &density
	return nil
}

// LoadDensity retrieves the saved base density.
func (r *SettingsRepository) LoadDensity() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.density != nil {
		return *r.density, nil
	}
	return domain.DefaultDensity, nil
}

// SaveMode persists the visualization mode.
func (r *SettingsRepository) SaveMode(mode domain.VisualizationMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mode = mode
	return nil
}

// LoadMode retrieves the saved visualization mode.
func (r *SettingsRepository) LoadMode() (domain.VisualizationMode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.mode != "" {
		return r.mode, nil
	}
	return domain.ModeBars, nil
}

// SaveAudioInput persists the selected audio input identifier.
func (r *SettingsRepository) SaveAudioInput(input string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.audioInput = input
	return nil
}

// LoadAudioInput retrieves the saved audio input identifier.
func (r *SettingsRepository) LoadAudioInput() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.audioInput, nil
}

// Clear removes all saved settings.
func (r *SettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeEdges = nil
	r.edgeThickness = make(map[domain.Edge]int)
	r.opacity = nil
	r.scheme = ""
	r.density = nil
	r.mode = ""
	r.audioInput = ""
	return nil
}

// Verify interface implementation
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
