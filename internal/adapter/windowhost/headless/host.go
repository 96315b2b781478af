// Package headless provides an in-process implementation of the WindowHost
// interface with no real windowing system behind it. Tests drive frame
// delivery manually through Pulse; the host also backs windowless runs where
// frames are rendered but never shown.
package headless

import (
	"image"
	"sync"
	"time"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

// DefaultScreen is the display geometry a fresh host reports.
var DefaultScreen = domain.Screen{Name: "headless", Width: 1920, Height: 1080}

// Host implements ports.WindowHost in memory.
//
// Thread-safe: all operations protected by sync.Mutex.
type Host struct {
	mu        sync.Mutex
	screen    domain.Screen
	screenErr error
	windows   []*Window
}

// NewHost creates a headless host reporting the default screen.
func NewHost() *Host {
	return &Host{screen: DefaultScreen}
}

// SetScreen changes the geometry reported by PrimaryScreen.
func (h *Host) SetScreen(screen domain.Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screen = screen
}

// SetScreenError makes PrimaryScreen fail with err until cleared with nil
// (for testing display loss).
func (h *Host) SetScreenError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screenErr = err
}

// PrimaryScreen returns the configured display geometry.
func (h *Host) PrimaryScreen() (domain.Screen, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.screenErr != nil {
		return domain.Screen{}, h.screenErr
	}
	return h.screen, nil
}

// CreateOverlay creates a hidden in-memory overlay window.
func (h *Host) CreateOverlay(opts ports.OverlayOptions) (ports.OverlayWindow, error) {
	window := &Window{
		edge:        opts.Edge,
		rect:        opts.Rect,
		orientation: opts.Orientation,
		opacity:     opts.Opacity,
		pending:     make(map[int]func(now time.Time)),
		handlers:    make(map[int]func(visible bool)),
	}

	h.mu.Lock()
	h.windows = append(h.windows, window)
	h.mu.Unlock()

	return window, nil
}

// Windows returns every window this host has created, including destroyed
// ones (for testing).
func (h *Host) Windows() []*Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Window(nil), h.windows...)
}

// Window is one headless overlay window.
//
// Frame callbacks and visibility handlers are invoked outside the window's
// lock, so they may re-enter the window freely.
type Window struct {
	mu          sync.Mutex
	edge        domain.Edge
	rect        domain.Rect
	orientation domain.Orientation
	opacity     float64
	visible     bool
	destroyed   bool

	nextID   int
	pending  map[int]func(now time.Time)
	handlers map[int]func(visible bool)

	lastFrame    *image.RGBA
	presentCount int
}

// RequestFrame schedules fn for the next Pulse.
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

// SetRect repositions the window.
func (w *Window) SetRect(rect domain.Rect) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.rect = rect
}

// SetOpacity updates the window opacity.
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
	w.setVisible(true)
}

// Hide hides the window and notifies subscribers.
func (w *Window) Hide() {
	w.setVisible(false)
}

func (w *Window) setVisible(visible bool) {
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

	for _, fn := range handlers {
		fn(visible)
	}
}

// Present records the frame as the window's latest.
func (w *Window) Present(frame *image.RGBA) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.lastFrame = frame
	w.presentCount++
}

// Destroy cancels pending frame requests, releases subscribers and marks the
// window dead. Idempotent.
func (w *Window) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.visible = false
	w.pending = make(map[int]func(now time.Time))
	w.handlers = make(map[int]func(visible bool))
}

// Pulse delivers every pending frame callback with the given time, as a real
// host's render loop would. Requests made during delivery wait for the next
// Pulse.
func (w *Window) Pulse(now time.Time) {
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

// Test inspection accessors.

// Edge returns the edge the window was created for.
func (w *Window) Edge() domain.Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.edge
}

// Rect returns the current window rectangle.
func (w *Window) Rect() domain.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rect
}

// Orientation returns the orientation the window was created with.
func (w *Window) Orientation() domain.Orientation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orientation
}

// Opacity returns the current window opacity.
func (w *Window) Opacity() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opacity
}

// Destroyed reports whether Destroy has been called.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// PendingFrames returns the number of undelivered frame requests.
func (w *Window) PendingFrames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// HandlerCount returns the number of live visibility subscriptions.
func (w *Window) HandlerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.handlers)
}

// LastFrame returns the most recently presented frame.
func (w *Window) LastFrame() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastFrame
}

// PresentCount returns how many frames have been presented.
func (w *Window) PresentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.presentCount
}

// Verify interface implementation
var (
	_ ports.WindowHost    = (*Host)(nil)
	_ ports.OverlayWindow = (*Window)(nil)
)
