// Package wails implements the WindowHost interface on the Wails v3 runtime.
// Each overlay is a frameless, transparent, always-on-top, click-through
// webview window loading the embedded overlay page. Rendered frames cross the
// webview boundary as PNG-encoded events named after the window, and a
// per-window ticker supplies the frame pulse.
package wails

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

// FrameEventPrefix is the event name prefix for presented frames. The overlay
// page appends its own window name (passed in the page URL) to receive them.
const FrameEventPrefix = "edgefx:frame:"

// Host implements ports.WindowHost on a running Wails application.
type Host struct {
	logger *slog.Logger
	app    *application.App
	nextID atomic.Int64
}

// NewHost wraps a Wails application as an overlay window host.
// The application does not have to be running yet; windows created before
// Run are realized when the event loop starts.
func NewHost(logger *slog.Logger, app *application.App) *Host {
	return &Host{logger: logger, app: app}
}

// PrimaryScreen resolves the primary display through the Wails screen API.
func (h *Host) PrimaryScreen() (domain.Screen, error) {
	screen, err := h.app.GetPrimaryScreen()
	if err != nil {
		return domain.Screen{}, fmt.Errorf("%w: %v", domain.ErrScreenUnavailable, err)
	}

	return domain.Screen{
		Name:   screen.Name,
		Width:  screen.Bounds.Width,
		Height: screen.Bounds.Height,
	}, nil
}

// CreateOverlay creates one hidden overlay window pinned to opts.Rect.
func (h *Host) CreateOverlay(opts ports.OverlayOptions) (ports.OverlayWindow, error) {
	// Window names must be unique for the lifetime of the app, so a
	// re-toggled edge gets a fresh name.
	name := fmt.Sprintf("edgefx-%s-%d", opts.Edge, h.nextID.Add(1))

	webview := h.app.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:              name,
		Title:             name,
		Width:             opts.Rect.Width,
		Height:            opts.Rect.Height,
		URL:               "/?window=" + name,
		Hidden:            true,
		Frameless:         true,
		AlwaysOnTop:       true,
		DisableResize:     true,
		IgnoreMouseEvents: true,
		BackgroundType:    application.BackgroundTypeTransparent,
		BackgroundColour:  application.RGBA{},
		Mac: application.MacWindow{
			Backdrop: application.MacBackdropTransparent,
		},
	})
	webview.SetPosition(opts.Rect.X, opts.Rect.Y)

	window := &Window{
		logger:   h.logger,
		app:      h.app,
		webview:  webview,
		name:     name,
		opacity:  opts.Opacity,
		pending:  make(map[int]func(now time.Time)),
		handlers: make(map[int]func(visible bool)),
		stop:     make(chan struct{}),
	}

	// Mirror host-driven visibility changes into the window's own state so
	// subscribers hear about them no matter who hid the window.
	window.unhooks = append(window.unhooks,
		webview.RegisterHook(events.Common.WindowShow, func(*application.WindowEvent) {
			window.setVisible(true, false)
		}),
		webview.RegisterHook(events.Common.WindowHide, func(*application.WindowEvent) {
			window.setVisible(false, false)
		}),
	)

	go window.pulse()

	h.logger.Debug("overlay window created",
		"window", name,
		"edge", opts.Edge,
		"x", opts.Rect.X,
		"y", opts.Rect.Y,
		"width", opts.Rect.Width,
		"height", opts.Rect.Height)

	return window, nil
}

// Window is one Wails-backed overlay window.
//
// The webview is never called with the window lock held; Wails marshals
// calls onto its UI thread and that thread re-enters the window through the
// visibility hooks.
type Window struct {
	logger  *slog.Logger
	app     *application.App
	webview *application.WebviewWindow
	name    string

	mu        sync.Mutex
	opacity   float64
	visible   bool
	destroyed bool
	nextID    int
	pending   map[int]func(now time.Time)
	handlers  map[int]func(visible bool)
	unhooks   []func()
	encodeBuf pngBuffer

	stop chan struct{}
}

// pulse offers frame opportunities until the window is destroyed. It runs at
// twice the engine frame rate; pacing belongs to the scheduler, the pulse
// only has to outrun it.
func (w *Window) pulse() {
	ticker := time.NewTicker(time.Second / time.Duration(2*domain.DefaultFrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case now := <-ticker.C:
			w.deliver(now)
		}
	}
}

// deliver runs every pending frame callback. Requests made during delivery
// wait for the next tick.
func (w *Window) deliver(now time.Time) {
	w.mu.Lock()
	callbacks := make([]func(time.Time), 0, len(w.pending))
	for _, fn := range w.pending {
		callbacks = append(callbacks, fn)
	}
	w.pending = make(map[int]func(now time.Time))
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(now)
	}
}

// RequestFrame schedules fn for the next pulse tick.
func (w *Window) RequestFrame(fn func(now time.Time)) (cancel func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.destroyed {
		return func() {}
	}

	id := w.nextID
	w.nextID++
	w.pending[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.pending, id)
	}
}

// Visible reports whether the window is currently shown.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// OnVisibilityChange registers fn for visibility transitions.
func (w *Window) OnVisibilityChange(fn func(visible bool)) (unsubscribe func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.destroyed {
		return func() {}
	}

	id := w.nextID
	w.nextID++
	w.handlers[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.handlers, id)
	}
}

// SetRect repositions and resizes the window.
func (w *Window) SetRect(rect domain.Rect) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.webview.SetSize(rect.Width, rect.Height)
	w.webview.SetPosition(rect.X, rect.Y)
}

// SetOpacity updates the window opacity. The value rides along with the next
// presented frame, so it takes effect within one frame interval.
func (w *Window) SetOpacity(opacity float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.opacity = opacity
}

// Show makes the window visible and notifies subscribers.
func (w *Window) Show() {
	w.setVisible(true, true)
}

// Hide hides the window without destroying it.
func (w *Window) Hide() {
	w.setVisible(false, true)
}

// setVisible flips the visibility state and fans out to subscribers exactly
// once per transition. Native show/hide events arrive here as well, so the
// dedupe also absorbs the echo of our own webview calls.
func (w *Window) setVisible(visible, driveWebview bool) {
	w.mu.Lock()
	if w.destroyed || w.visible == visible {
		w.mu.Unlock()
		return
	}
	w.visible = visible
	handlers := make([]func(bool), 0, len(w.handlers))
	for _, fn := range w.handlers {
		handlers = append(handlers, fn)
	}
	w.mu.Unlock()

	if driveWebview {
		if visible {
			w.webview.Show()
		} else {
			w.webview.Hide()
		}
	}

	for _, fn := range handlers {
		fn(visible)
	}
}

// Present encodes the frame and emits it to the overlay page. The frame is
// consumed before returning, so the caller may reuse the buffer.
func (w *Window) Present(frame *image.RGBA) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	opacity := w.opacity
	encoded, err := w.encodeBuf.encode(frame)
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("frame encode failed", "window", w.name, "error", err)
		return
	}

	w.app.Event.Emit(FrameEventPrefix+w.name, framePayload{
		Width:   frame.Rect.Dx(),
		Height:  frame.Rect.Dy(),
		Opacity: opacity,
		PNG:     encoded,
	})
}

// Destroy stops the pulse, releases hooks and subscribers and closes the
// webview. Idempotent.
func (w *Window) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.visible = false
	w.pending = make(map[int]func(now time.Time))
	w.handlers = make(map[int]func(visible bool))
	unhooks := w.unhooks
	w.unhooks = nil
	w.mu.Unlock()

	close(w.stop)
	for _, unhook := range unhooks {
		unhook()
	}
	w.webview.Close()

	w.logger.Debug("overlay window destroyed", "window", w.name)
}

// Verify interface implementation
var (
	_ ports.WindowHost    = (*Host)(nil)
	_ ports.OverlayWindow = (*Window)(nil)
)
