// Package schedule paces draw callbacks against a render surface. A
// Scheduler asks its surface for frame pulses, skips pulses that arrive
// faster than the target rate, and suspends itself whenever the surface is
// hidden so covered overlays cost nothing.
package schedule

import (
	"log/slog"
	"sync"
	"time"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

// DefaultFrameRate is the target draw rate when none is configured.
const DefaultFrameRate = 60

// Scheduler invokes a draw callback at a target rate, driven by the frame
// pulses of a render surface. It pauses while the surface is hidden and
// resumes when it becomes visible again, provided Start was called and
// Destroy was not. All methods are safe for concurrent use and none of
// them fail; calls after Destroy are no-ops.
type Scheduler struct {
	logger   *slog.Logger
	surface  ports.RenderSurface
	draw     func(now time.Time)
	interval time.Duration

	mu          sync.Mutex
	started     bool
	paused      bool
	destroyed   bool
	last        time.Time
	haveLast    bool
	cancelFrame func()
	unsubscribe func()
}

// New creates a scheduler over the given surface. The draw callback runs on
// the surface's pulse goroutine. A frameRate of zero or less falls back to
// DefaultFrameRate. The scheduler watches the surface's visibility for its
// whole lifetime, so a hidden surface pauses it even before Start.
func New(logger *slog.Logger, surface ports.RenderSurface, draw func(now time.Time), frameRate int) *Scheduler {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	s := &Scheduler{
		logger:   logger,
		surface:  surface,
		draw:     draw,
		interval: time.Second / time.Duration(frameRate),
	}

	s.unsubscribe = surface.OnVisibilityChange(func(visible bool) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.destroyed {
			return
		}
		if visible {
			s.resumeLocked()
		} else {
			s.pauseLocked()
		}
	})

	return s
}

// Start marks the scheduler started. If the surface is visible the draw
// loop begins immediately; otherwise the scheduler stays paused until the
// surface becomes visible. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed || s.started {
		return
	}
	s.started = true

	if s.surface.Visible() {
		s.paused = false
		s.haveLast = false
		s.cancelFrame = s.surface.RequestFrame(s.tick)
		s.logger.Debug("scheduler started")
	} else {
		s.paused = true
		s.logger.Debug("scheduler started hidden, waiting for visibility")
	}
}

// Pause cancels the pending frame pulse and suspends drawing.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
}

// Resume restarts drawing after a Pause. It is ignored unless Start was
// called, and while the surface is hidden the scheduler stays paused
// regardless. The frame timestamp resets, so the first pulse after a
// resume draws immediately.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeLocked()
}

// Destroy stops the scheduler for good: the pending frame pulse is
// cancelled and the visibility subscription released. Safe to call any
// number of times.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	s.destroyed = true

	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}

	s.logger.Debug("scheduler destroyed")
}

// Running reports whether the scheduler is started, not paused and not
// destroyed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.paused && !s.destroyed
}

func (s *Scheduler) pauseLocked() {
	if s.destroyed || s.paused {
		return
	}
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	s.paused = true
	s.logger.Debug("scheduler paused")
}

func (s *Scheduler) resumeLocked() {
	if s.destroyed || !s.started || !s.paused {
		return
	}
	if !s.surface.Visible() {
		return
	}
	s.paused = false
	s.haveLast = false
	s.cancelFrame = s.surface.RequestFrame(s.tick)
	s.logger.Debug("scheduler resumed")
}

// tick handles one frame pulse: draw if enough time has passed, then ask
// for the next pulse. The frame timestamp advances by whole intervals
// rather than snapping to the pulse time, so jitter in pulse delivery does
// not accumulate into rate drift.
func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	if s.destroyed || s.paused || !s.started {
		s.mu.Unlock()
		return
	}

	run := false
	if !s.haveLast {
		s.haveLast = true
		s.last = now
		run = true
	} else if elapsed := now.Sub(s.last); elapsed >= s.interval {
		run = true
		s.last = s.last.Add(elapsed - elapsed%s.interval)
	}
	draw := s.draw
	s.mu.Unlock()

	if run && draw != nil {
		draw(now)
	}

	s.mu.Lock()
	if !s.destroyed && !s.paused && s.started {
		s.cancelFrame = s.surface.RequestFrame(s.tick)
	}
	s.mu.Unlock()
}
