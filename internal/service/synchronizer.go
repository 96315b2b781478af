// Package service provides business logic for the audio edge effects engine.
package service

import (
	"log/slog"
	"sync"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/placement"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

// OverlaySynchronizer coordinates the set of active screen edges. It owns
// one overlay window binding per active edge, fans shared configuration
// changes out to all of them through the event bus, and writes every change
// through the settings repository.
//
// Per-edge state machine: Inactive (no binding) and Active (window plus
// render pipeline). Toggle moves an edge between the two; the last active
// edge can never be deactivated. All operations are thread-safe.
type OverlaySynchronizer struct {
	// Dependencies (injected)
	logger *slog.Logger
	host   ports.WindowHost
	source ports.AudioSource
	repo   ports.SettingsRepository
	bus    ports.EventBus

	// State
	settings domain.Settings
	bindings map[domain.Edge]*windowBinding
	active   []domain.Edge

	// Concurrency control
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewOverlaySynchronizer creates the synchronizer and loads the persisted
// settings. No windows are created yet; Start restores the saved active
// edges once the host is ready.
func NewOverlaySynchronizer(
	logger *slog.Logger,
	host ports.WindowHost,
	source ports.AudioSource,
	repo ports.SettingsRepository,
	bus ports.EventBus,
) *OverlaySynchronizer {
	settings, err := repo.LoadAll()
	if err != nil {
		logger.Warn("failed to load settings, using defaults", slog.Any("error", err))
		settings = domain.DefaultSettings()
	}

	s := &OverlaySynchronizer{
		logger:   logger,
		host:     host,
		source:   source,
		repo:     repo,
		bus:      bus,
		settings: settings,
		bindings: make(map[domain.Edge]*windowBinding),
	}

	logger.Debug("overlay synchronizer initialized",
		slog.Int("saved_edges", len(settings.ActiveEdges)))

	return s
}

// Start activates every edge from the persisted settings. Edges that cannot
// be activated (for example because screen geometry is unavailable) are
// logged and stay inactive; their saved state is kept so a later launch can
// restore them. Calling Start again is a no-op.
func (s *OverlaySynchronizer) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSynchronizerClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true

	var activated []domain.Edge
	for _, edge := range s.settings.ActiveEdges {
		if _, ok := s.bindings[edge]; ok {
			continue
		}
		binding, err := s.createLocked(edge)
		if err != nil {
			s.logger.Warn("failed to activate saved edge",
				slog.String("edge", string(edge)),
				slog.Any("error", err))
			continue
		}
		s.bindings[edge] = binding
		s.active = append(s.active, edge)
		activated = append(activated, edge)
	}
	active := s.activeLocked()
	s.mu.Unlock()

	s.logger.Info("overlay synchronizer started",
		slog.Int("active_edges", len(activated)))

	for _, edge := range activated {
		s.bus.Publish(domain.NewEdgeActivatedEvent(edge, active))
	}

	return nil
}

// Toggle flips one edge between Inactive and Active and returns the active
// set after the call. Deactivating the only remaining active edge is a
// no-op that returns the unchanged set. Activation failures (no screen
// geometry, window creation refused) leave the edge inactive and are
// returned as typed errors; the synchronizer keeps running.
func (s *OverlaySynchronizer) Toggle(edge domain.Edge) ([]domain.Edge, error) {
	if !edge.Valid() {
		return nil, domain.ErrUnknownEdge
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSynchronizerClosed
	}

	if binding, ok := s.bindings[edge]; ok {
		if len(s.bindings) == 1 {
			active := s.activeLocked()
			s.mu.Unlock()
			s.logger.Debug("toggle ignored, last active edge",
				slog.String("edge", string(edge)))
			return active, nil
		}

		delete(s.bindings, edge)
		s.active = removeEdge(s.active, edge)
		s.settings.ActiveEdges = s.activeLocked()
		active := s.activeLocked()
		s.mu.Unlock()

		binding.destroy()

		if err := s.repo.SaveActiveEdges(active); err != nil {
			s.logger.Warn("failed to save active edges", slog.Any("error", err))
		}
		s.logger.Info("edge deactivated", slog.String("edge", string(edge)))
		s.bus.Publish(domain.NewEdgeDeactivatedEvent(edge, active))
		return active, nil
	}

	binding, err := s.createLocked(edge)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.bindings[edge] = binding
	s.active = append(s.active, edge)
	s.settings.ActiveEdges = s.activeLocked()
	active := s.activeLocked()
	s.mu.Unlock()

	if err := s.repo.SaveActiveEdges(active); err != nil {
		s.logger.Warn("failed to save active edges", slog.Any("error", err))
	}
	s.logger.Info("edge activated", slog.String("edge", string(edge)))
	s.bus.Publish(domain.NewEdgeActivatedEvent(edge, active))
	return active, nil
}

// createLocked builds the window and binding for an edge from the current
// settings. The synchronizer mutex must be held.
func (s *OverlaySynchronizer) createLocked(edge domain.Edge) (*windowBinding, error) {
	screen, err := s.host.PrimaryScreen()
	if err != nil {
		return nil, domain.NewScreenError(edge, "activate", err)
	}

	cfg := s.settings.EdgeConfigFor(edge)
	rect, err := placement.WindowRect(edge, cfg.Thickness, screen)
	if err != nil {
		return nil, err
	}

	window, err := s.host.CreateOverlay(ports.OverlayOptions{
		Edge:        edge,
		Rect:        rect,
		Orientation: placement.OrientationFor(edge),
		Opacity:     s.settings.Opacity,
	})
	if err != nil {
		return nil, domain.NewWindowError(edge, "create", err.Error(), err)
	}

	return newWindowBinding(s.logger, s.bus, s.source, window, edge, screen, s.settings), nil
}

// SetMode switches the visualization mode on every active window and
// persists it. Unknown modes are rejected; setting the current mode again
// does nothing.
func (s *OverlaySynchronizer) SetMode(mode domain.VisualizationMode) error {
	if !mode.Valid() {
		return domain.ErrUnknownMode
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSynchronizerClosed
	}
	if s.settings.Mode == mode {
		s.mu.Unlock()
		return nil
	}
	s.settings.Mode = mode
	s.mu.Unlock()

	err := s.repo.SaveMode(mode)
	if err != nil {
		s.logger.Warn("failed to save mode", slog.Any("error", err))
	}

	s.logger.Info("visualization mode changed", slog.String("mode", string(mode)))
	s.bus.Publish(domain.NewModeChangedEvent(mode))
	return err
}

// SetColorScheme switches the palette on every active window and persists it.
func (s *OverlaySynchronizer) SetColorScheme(scheme domain.ColorScheme) error {
	if !scheme.Valid() {
		return domain.ErrUnknownColorScheme
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSynchronizerClosed
	}
	if s.settings.ColorScheme == scheme {
		s.mu.Unlock()
		return nil
	}
	s.settings.ColorScheme = scheme
	s.mu.Unlock()

	err := s.repo.SaveColorScheme(scheme)
	if err != nil {
		s.logger.Warn("failed to save color scheme", slog.Any("error", err))
	}

	s.logger.Info("color scheme changed", slog.String("scheme", string(scheme)))
	s.bus.Publish(domain.NewSchemeChangedEvent(scheme))
	return err
}

// SetOpacity updates the overlay opacity (0.0 to 1.0) on every active
// window and persists it.
func (s *OverlaySynchronizer) SetOpacity(opacity float64) error {
	if opacity < 0.0 || opacity > 1.0 {
		return domain.ErrInvalidOpacity
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSynchronizerClosed
	}
	if s.settings.Opacity == opacity {
		s.mu.Unlock()
		return nil
	}
	s.settings.Opacity = opacity
	s.mu.Unlock()

	err := s.repo.SaveOpacity(opacity)
	if err != nil {
		s.logger.Warn("failed to save opacity", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewOpacityChangedEvent(opacity))
	return err
}

// SetDensity updates the base density and persists it. Active windows
// rescale it per edge; vertical strips derive their effective value from
// the screen's aspect ratio.
func (s *OverlaySynchronizer) SetDensity(density int) error {
	if density < 1 {
		return domain.ErrInvalidDensity
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSynchronizerClosed
	}
	if s.settings.Density == density {
		s.mu.Unlock()
		return nil
	}
	s.settings.Density = density
	s.mu.Unlock()

	err := s.repo.SaveDensity(density)
	if err != nil {
		s.logger.Warn("failed to save density", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewDensityChangedEvent(density))
	return err
}

// SetEdgeThickness updates one edge's strip depth and persists it. If the
// edge is active its window is resized; if not, the value applies when the
// edge is next activated.
func (s *OverlaySynchronizer) SetEdgeThickness(edge domain.Edge, thickness int) error {
	if !edge.Valid() {
		return domain.ErrUnknownEdge
	}
	if thickness < domain.MinThickness {
		return domain.ErrInvalidThickness
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSynchronizerClosed
	}
	if s.settings.EdgeThickness[edge] == thickness {
		s.mu.Unlock()
		return nil
	}
	s.settings.EdgeThickness[edge] = thickness
	s.mu.Unlock()

	err := s.repo.SaveEdgeThickness(edge, thickness)
	if err != nil {
		s.logger.Warn("failed to save edge thickness", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewThicknessChangedEvent(edge, thickness))
	return err
}

// ActiveEdges returns the edges that currently have a live overlay window,
// in activation order.
func (s *OverlaySynchronizer) ActiveEdges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

// EdgeActive reports whether the edge currently has a live overlay window.
func (s *OverlaySynchronizer) EdgeActive(edge domain.Edge) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bindings[edge]
	return ok
}

// Settings returns a copy of the current shared configuration. Its
// ActiveEdges field holds the saved edge set, which can differ from
// ActiveEdges() while saved edges failed to activate.
func (s *OverlaySynchronizer) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings)
}

// Shutdown destroys every active window binding and closes the
// synchronizer. Further operations return ErrSynchronizerClosed or empty
// results. Safe to call more than once.
func (s *OverlaySynchronizer) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	bindings := s.bindings
	s.bindings = nil
	s.active = nil
	s.mu.Unlock()

	for _, binding := range bindings {
		binding.destroy()
	}

	s.logger.Info("overlay synchronizer shut down", slog.Int("windows", len(bindings)))
	return nil
}

// activeLocked returns a copy of the live active edge set. The synchronizer
// mutex must be held.
func (s *OverlaySynchronizer) activeLocked() []domain.Edge {
	return append([]domain.Edge(nil), s.active...)
}

// removeEdge returns edges without the given edge, preserving order.
func removeEdge(edges []domain.Edge, edge domain.Edge) []domain.Edge {
	out := edges[:0]
	for _, e := range edges {
		if e != edge {
			out = append(out, e)
		}
	}
	return out
}

// cloneSettings deep-copies a settings value so callers cannot mutate the
// synchronizer's cached state through the returned maps and slices.
func cloneSettings(settings domain.Settings) domain.Settings {
	out := settings
	out.ActiveEdges = append([]domain.Edge(nil), settings.ActiveEdges...)
	thickness := make(map[domain.Edge]int, len(settings.EdgeThickness))
	for edge, t := range settings.EdgeThickness {
		thickness[edge] = t
	}
	out.EdgeThickness = thickness
	return out
}

// Verify that OverlaySynchronizer implements the expected interface patterns
var _ interface {
	Start() error
	Toggle(domain.Edge) ([]domain.Edge, error)
	ActiveEdges() []domain.Edge
	EdgeActive(domain.Edge) bool
	Settings() domain.Settings
	SetMode(domain.VisualizationMode) error
	SetColorScheme(domain.ColorScheme) error
	SetOpacity(float64) error
	SetDensity(int) error
	SetEdgeThickness(domain.Edge, int) error
	Shutdown() error
} = (*OverlaySynchronizer)(nil)
