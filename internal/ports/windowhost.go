// Package ports define the host windowing interface.
// This interface allows the engine to create and drive overlay windows
// without depending on a concrete GUI runtime.
package ports

import (
	"image"
	"time"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// WindowHost is the interface for the host windowing system.
// Implementations create transparent, frameless, always-on-top, click-through,
// non-focusable windows pinned to screen-edge rectangles, and supply the two
// primitives the frame scheduler is built on: a visibility-change signal and
// a per-frame callback scheduler.
//
// Thread-safety: CreateOverlay and PrimaryScreen may be called from any
// goroutine; implementations marshal onto their UI thread as needed.
type WindowHost interface {
	// PrimaryScreen returns the geometry of the primary display.
	//
	// Returns domain.ErrScreenUnavailable (possibly wrapped) when no display
	// geometry can be resolved, for example after a disconnect.
	PrimaryScreen() (domain.Screen, error)

	// CreateOverlay creates one overlay window with the given placement.
	// The window is created hidden or visible per the host's convention;
	// callers use Show explicitly after wiring their scheduler.
	//
	// Returns the window handle, or an error if the host cannot create it.
	CreateOverlay(opts OverlayOptions) (OverlayWindow, error)
}

// OverlayOptions describes one overlay window at creation time.
type OverlayOptions struct {
	// Edge is the screen edge the window is pinned to. Hosts use it for
	// window naming and diagnostics only; placement is fully described by Rect.
	Edge domain.Edge

	// Rect is the window rectangle in screen coordinates.
	Rect domain.Rect

	// Orientation is the transform presented frames arrive in. Hosts that
	// render the canonical frame themselves may use it; hosts that receive
	// pre-transformed pixels can ignore it.
	Orientation domain.Orientation

	// Opacity is the initial window opacity, 0.0 to 1.0.
	Opacity float64
}

// FrameRequester schedules one-shot per-frame callbacks.
// This is the host's pacing primitive: the callback runs once on the next
// frame opportunity with the current time, and must be re-requested by the
// caller to keep a loop going.
type FrameRequester interface {
	// RequestFrame schedules fn to run once on the next frame.
	// The returned cancel function revokes a still-pending request; canceling
	// an already-delivered request is a no-op. Both are safe to call from any
	// goroutine.
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// VisibilitySource reports and signals surface visibility.
type VisibilitySource interface {
	// Visible reports whether the surface is currently visible.
	Visible() bool

	// OnVisibilityChange registers fn to be called whenever visibility
	// changes. The returned function unsubscribes; it is idempotent.
	OnVisibilityChange(fn func(visible bool)) (unsubscribe func())
}

// RenderSurface combines the two capabilities a frame scheduler drives.
type RenderSurface interface {
	FrameRequester
	VisibilitySource
}

// OverlayWindow is a handle to one live overlay window.
// Every method after Destroy is a safe no-op; Destroy itself is idempotent.
type OverlayWindow interface {
	RenderSurface

	// SetRect repositions and resizes the window.
	SetRect(rect domain.Rect)

	// SetOpacity updates the window opacity, 0.0 to 1.0.
	SetOpacity(opacity float64)

	// Show makes the window visible.
	Show()

	// Hide hides the window without destroying it.
	Hide()

	// Present hands a fully rendered frame to the surface. The image is
	// already transformed for the window's edge and matches its rectangle.
	// The caller keeps ownership and may redraw the same buffer for the
	// next frame; hosts that retain a frame beyond the call must copy it.
	Present(frame *image.RGBA)

	// Destroy closes the window and releases its resources.
	// Pending frame requests are canceled and visibility subscribers released.
	Destroy()
}
