package service

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/effect"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/feature"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/placement"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/schedule"
)

// windowBinding owns everything one active edge needs to render: the overlay
// window, its frame scheduler, its feature extractor with beat detector, and
// the effect instance. Bindings are created on edge activation and destroyed
// on deactivation; nothing in here is shared between edges.
//
// Configuration changes arrive through event bus subscriptions, so an
// inactive edge (no binding, no subscriptions) receives nothing and picks up
// current settings when it is next activated.
type windowBinding struct {
	// Dependencies (injected)
	logger *slog.Logger
	bus    ports.EventBus
	source ports.AudioSource
	window ports.OverlayWindow

	// Fixed at creation
	edge        domain.Edge
	screen      domain.Screen
	orientation domain.Orientation
	scheduler   *schedule.Scheduler

	// Render state, guarded by mu because broadcasts arrive on the
	// publisher's goroutine while draw runs on the window's frame pulses
	mu        sync.Mutex
	extractor *feature.Extractor
	effect    effect.Effect
	scheme    domain.ColorScheme
	thickness int
	density   int
	width     int
	height    int
	canvas    *image.RGBA
	oriented  *image.RGBA
	subs      []domain.SubscriptionID
	destroyed bool
}

// newWindowBinding wires the render pipeline for one freshly created overlay
// window and starts it: the scheduler begins requesting frame pulses and the
// window is shown. The settings snapshot provides the shared configuration
// the binding starts from.
func newWindowBinding(
	logger *slog.Logger,
	bus ports.EventBus,
	source ports.AudioSource,
	window ports.OverlayWindow,
	edge domain.Edge,
	screen domain.Screen,
	settings domain.Settings,
) *windowBinding {
	cfg := settings.EdgeConfigFor(edge)
	width, height := placement.CanvasSize(edge, cfg.Thickness, screen)

	b := &windowBinding{
		logger:      logger,
		bus:         bus,
		source:      source,
		window:      window,
		edge:        edge,
		screen:      screen,
		orientation: placement.OrientationFor(edge),
		extractor:   feature.NewExtractor(nil, nil),
		scheme:      settings.ColorScheme,
		thickness:   cfg.Thickness,
		density:     placement.EffectiveDensity(edge, settings.Density, screen),
		width:       width,
		height:      height,
		canvas:      image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	b.effect = effect.Factory(settings.Mode, settings.ColorScheme)
	b.effect.Init(width, height, b.density)

	b.subscribe()

	// The scheduler watches window visibility from this point on; Start
	// while the window is still hidden leaves it paused, and Show below
	// brings the draw loop up through the visibility signal.
	b.scheduler = schedule.New(logger, window, b.draw, domain.DefaultFrameRate)
	b.scheduler.Start()
	window.Show()

	logger.Debug("overlay binding created",
		slog.String("edge", string(edge)),
		slog.Int("thickness", cfg.Thickness),
		slog.Int("density", b.density))

	return b
}

// subscribe registers the broadcast handlers this binding listens on. The
// subscription ids are kept for release in destroy.
func (b *windowBinding) subscribe() {
	b.subs = []domain.SubscriptionID{
		b.bus.Subscribe(domain.EventModeChanged, func(event domain.Event) {
			if e, ok := event.(domain.ModeChangedEvent); ok {
				b.applyMode(e.Mode)
			}
		}),
		b.bus.Subscribe(domain.EventSchemeChanged, func(event domain.Event) {
			if e, ok := event.(domain.SchemeChangedEvent); ok {
				b.applyScheme(e.Scheme)
			}
		}),
		b.bus.Subscribe(domain.EventOpacityChanged, func(event domain.Event) {
			if e, ok := event.(domain.OpacityChangedEvent); ok {
				b.applyOpacity(e.Opacity)
			}
		}),
		b.bus.Subscribe(domain.EventDensityChanged, func(event domain.Event) {
			if e, ok := event.(domain.DensityChangedEvent); ok {
				b.applyDensity(e.Density)
			}
		}),
		b.bus.Subscribe(domain.EventThicknessChanged, func(event domain.Event) {
			if e, ok := event.(domain.ThicknessChangedEvent); ok && e.Edge == b.edge {
				b.applyThickness(e.Thickness)
			}
		}),
	}
}

// draw renders one frame. It runs on the window's frame pulse goroutine at
// the scheduler's target rate: pull the latest audio frames, extract
// features, render the canonical strip, reorient it for the edge and present.
// Feature extraction always precedes the draw of the same frame.
func (b *windowBinding) draw(_ time.Time) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}

	spectrum := b.source.SpectralFrame()
	waveform := b.source.WaveformFrame()
	features := b.extractor.Extract(spectrum, waveform)

	b.effect.Render(b.canvas, features)

	frame := b.canvas
	if b.orientation != domain.OrientationNone {
		b.oriented = placement.ApplyOrientation(b.oriented, b.canvas, b.orientation)
		frame = b.oriented
	}

	window := b.window
	beat := features.Beat
	b.mu.Unlock()

	// Present and publish outside the lock; handlers may call back into
	// the binding or the synchronizer.
	window.Present(frame)

	if beat.Onset {
		b.bus.Publish(domain.NewBeatDetectedEvent(b.edge, beat.Energy))
	}
}

// applyMode swaps the effect instance, keeping the current scheme and layout.
func (b *windowBinding) applyMode(mode domain.VisualizationMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}

	if b.effect != nil {
		b.effect.Destroy()
	}
	b.effect = effect.Factory(mode, b.scheme)
	b.effect.Init(b.width, b.height, b.density)
}

// applyScheme swaps the palette without resetting animation state.
func (b *windowBinding) applyScheme(scheme domain.ColorScheme) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}

	b.scheme = scheme
	b.effect.SetColorScheme(scheme)
}

// applyOpacity forwards the new opacity to the window.
func (b *windowBinding) applyOpacity(opacity float64) {
	b.mu.Lock()
	window := b.window
	destroyed := b.destroyed
	b.mu.Unlock()

	if destroyed {
		return
	}
	window.SetOpacity(opacity)
}

// applyDensity rescales the base density for this edge and re-inits the
// effect when the effective value changed.
func (b *windowBinding) applyDensity(base int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}

	density := placement.EffectiveDensity(b.edge, base, b.screen)
	if density == b.density {
		return
	}

	b.density = density
	b.effect.Init(b.width, b.height, density)
}

// applyThickness resizes the strip: new window rectangle, new canvas, effect
// re-initialized for the new dimensions.
func (b *windowBinding) applyThickness(thickness int) {
	b.mu.Lock()
	if b.destroyed || thickness == b.thickness {
		b.mu.Unlock()
		return
	}

	rect, err := placement.WindowRect(b.edge, thickness, b.screen)
	if err != nil {
		b.mu.Unlock()
		b.logger.Warn("thickness change rejected",
			slog.String("edge", string(b.edge)),
			slog.Any("error", err))
		return
	}

	b.thickness = thickness
	b.width, b.height = placement.CanvasSize(b.edge, thickness, b.screen)
	b.canvas = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	b.oriented = nil
	b.effect.Init(b.width, b.height, b.density)
	window := b.window
	b.mu.Unlock()

	window.SetRect(rect)
}

// destroy tears the binding down completely: the scheduler stops requesting
// pulses, the bus subscriptions are released, the effect is destroyed and the
// window closed. Safe to call more than once; draw calls racing with destroy
// see the destroyed flag and back out.
func (b *windowBinding) destroy() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.destroyed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	b.scheduler.Destroy()
	for _, id := range subs {
		b.bus.Unsubscribe(id)
	}

	b.mu.Lock()
	if b.effect != nil {
		b.effect.Destroy()
		b.effect = nil
	}
	b.mu.Unlock()

	b.window.Destroy()

	b.logger.Debug("overlay binding destroyed", slog.String("edge", string(b.edge)))
}
