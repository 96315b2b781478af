// Package jsonfile persists overlay settings as a single JSON document on
// disk, by default under the user's configuration directory.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

const (
	appDirName       = "audio-edge-effects"
	settingsFileName = "settings.json"
)

// settingsDocument is the on-disk shape. Pointer fields tell a missing key
// apart from a saved zero, so each load can fall back per key.
type settingsDocument struct {
	ActiveEdges   []domain.Edge       `json:"active_edges,omitempty"`
	EdgeThickness map[domain.Edge]int `json:"edge_thickness,omitempty"`
	Opacity       *float64            `json:"opacity,omitempty"`
	ColorScheme   string              `json:"color_scheme,omitempty"`
	Density       *int                `json:"density,omitempty"`
	Mode          string              `json:"mode,omitempty"`
	AudioInput    string              `json:"audio_input,omitempty"`
}

// SettingsRepository implements ports.SettingsRepository over a JSON file.
// Every save rewrites the whole document; the file stays human-editable.
//
// Thread-safe: all operations are protected by sync.Mutex.
type SettingsRepository struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns the settings file location under the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", domain.NewRepositoryError("path", "jsonfile", "resolve user config dir", err)
	}
	return filepath.Join(dir, appDirName, settingsFileName), nil
}

// NewSettingsRepository creates a repository storing at path. An empty path
// selects DefaultPath.
func NewSettingsRepository(path string) (*SettingsRepository, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &SettingsRepository{path: path}, nil
}

// Path returns the settings file location.
func (r *SettingsRepository) Path() string {
	return r.path
}

// LoadAll retrieves every saved setting as one normalized Settings value.
func (r *SettingsRepository) LoadAll() (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return domain.Settings{}, err
	}

	settings := domain.DefaultSettings()
	if len(doc.ActiveEdges) > 0 {
		settings.ActiveEdges = doc.ActiveEdges
	}
	for edge, thickness := range doc.EdgeThickness {
		settings.EdgeThickness[edge] = thickness
	}
	if doc.Opacity != nil {
		settings.Opacity = *doc.Opacity
	}
	if doc.ColorScheme != "" {
		settings.ColorScheme = domain.ColorScheme(doc.ColorScheme)
	}
	if doc.Density != nil {
		settings.Density = *doc.Density
	}
	if doc.Mode != "" {
		settings.Mode = domain.VisualizationMode(doc.Mode)
	}
	settings.AudioInput = doc.AudioInput

	return settings.Normalize(), nil
}

// SaveActiveEdges persists the ordered set of active edges.
func (r *SettingsRepository) SaveActiveEdges(edges []domain.Edge) error {
	return r.update(func(doc *settingsDocument) {
		doc.ActiveEdges = append([]domain.Edge(nil), edges...)
	})
}

// LoadActiveEdges retrieves the saved active edge set.
func (r *SettingsRepository) LoadActiveEdges() ([]domain.Edge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	if len(doc.ActiveEdges) == 0 {
		return domain.DefaultSettings().ActiveEdges, nil
	}
	return append([]domain.Edge(nil), doc.ActiveEdges...), nil
}

// SaveEdgeThickness persists the strip depth for one edge.
func (r *SettingsRepository) SaveEdgeThickness(edge domain.Edge, thickness int) error {
	return r.update(func(doc *settingsDocument) {
		if doc.EdgeThickness == nil {
			doc.EdgeThickness = make(map[domain.Edge]int)
		}
		doc.EdgeThickness[edge] = thickness
	})
}

// LoadEdgeThickness retrieves the saved strip depth for one edge.
func (r *SettingsRepository) LoadEdgeThickness(edge domain.Edge) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return 0, err
	}
	if thickness, ok := doc.EdgeThickness[edge]; ok {
		return thickness, nil
	}
	return domain.DefaultThickness, nil
}

// SaveOpacity persists the overlay opacity.
func (r *SettingsRepository) SaveOpacity(opacity float64) error {
	return r.update(func(doc *settingsDocument) {
		doc.Opacity = &opacity
	})
}

// LoadOpacity retrieves the saved opacity.
func (r *SettingsRepository) LoadOpacity() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return 0, err
	}
	if doc.Opacity != nil {
		return *doc.Opacity, nil
	}
	return domain.DefaultOpacity, nil
}

// SaveColorScheme persists the color scheme.
func (r *SettingsRepository) SaveColorScheme(scheme domain.ColorScheme) error {
	return r.update(func(doc *settingsDocument) {
		doc.ColorScheme = string(scheme)
	})
}

// LoadColorScheme retrieves the saved color scheme.
func (r *SettingsRepository) LoadColorScheme() (domain.ColorScheme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return "", err
	}
	if doc.ColorScheme != "" {
		return domain.ColorScheme(doc.ColorScheme), nil
	}
	return domain.SchemeSpectrum, nil
}

// SaveDensity persists the base density.
func (r *SettingsRepository) SaveDensity(density int) error {
	return r.update(func(doc *settingsDocument) {
		doc.Density = &density
	})
}

// LoadDensity retrieves the saved base density.
func (r *SettingsRepository) LoadDensity() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return 0, err
	}
	if doc.Density != nil {
		return *doc.Density, nil
	}
	return domain.DefaultDensity, nil
}

// SaveMode persists the visualization mode.
func (r *SettingsRepository) SaveMode(mode domain.VisualizationMode) error {
	return r.update(func(doc *settingsDocument) {
		doc.Mode = string(mode)
	})
}

// LoadMode retrieves the saved visualization mode.
func (r *SettingsRepository) LoadMode() (domain.VisualizationMode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return "", err
	}
	if doc.Mode != "" {
		return domain.VisualizationMode(doc.Mode), nil
	}
	return domain.ModeBars, nil
}

// SaveAudioInput persists the selected audio input identifier.
func (r *SettingsRepository) SaveAudioInput(input string) error {
	return r.update(func(doc *settingsDocument) {
		doc.AudioInput = input
	})
}

// LoadAudioInput retrieves the saved audio input identifier.
func (r *SettingsRepository) LoadAudioInput() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return "", err
	}
	return doc.AudioInput, nil
}

// Clear removes the settings file.
func (r *SettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return domain.NewRepositoryError("clear", "jsonfile", "remove settings file", err)
	}
	return nil
}

// read loads the document, returning an empty document when no file exists.
func (r *SettingsRepository) read() (settingsDocument, error) {
	var doc settingsDocument

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, domain.NewRepositoryError("load", "jsonfile", "read settings file", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, domain.NewRepositoryError("load", "jsonfile", "parse settings file", err)
	}
	return doc, nil
}

// update applies a mutation under the lock and writes the document back.
func (r *SettingsRepository) update(mutate func(doc *settingsDocument)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}

	mutate(&doc)

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return domain.NewRepositoryError("save", "jsonfile", "create settings dir", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return domain.NewRepositoryError("save", "jsonfile", "marshal settings", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return domain.NewRepositoryError("save", "jsonfile", "write settings file", err)
	}
	return nil
}

// Verify interface implementation
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
