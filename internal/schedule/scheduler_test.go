package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/logger"
)

// fakeSurface is a manually stepped render surface. Tests queue frame
// requests through it and deliver pulses with synthetic timestamps.
type fakeSurface struct {
	mu       sync.Mutex
	visible  bool
	nextID   int
	pending  map[int]func(time.Time)
	handlers map[int]func(bool)
}

func newFakeSurface(visible bool) *fakeSurface {
	return &fakeSurface{
		visible:  visible,
		pending:  make(map[int]func(time.Time)),
		handlers: make(map[int]func(bool)),
	}
}

func (f *fakeSurface) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *fakeSurface) RequestFrame(fn func(now time.Time)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.pending[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.pending, id)
	}
}

func (f *fakeSurface) OnVisibilityChange(fn func(visible bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.handlers[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}
}

// setVisible flips visibility and notifies handlers outside the lock.
func (f *fakeSurface) setVisible(visible bool) {
	f.mu.Lock()
	f.visible = visible
	handlers := make([]func(bool), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(visible)
	}
}

// pulse delivers one frame pulse to every pending request. Callbacks that
// re-request land in the next pulse, like a real per-frame scheduler.
func (f *fakeSurface) pulse(now time.Time) {
	f.mu.Lock()
	callbacks := make([]func(time.Time), 0, len(f.pending))
	for _, cb := range f.pending {
		callbacks = append(callbacks, cb)
	}
	f.pending = make(map[int]func(time.Time))
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(now)
	}
}

func (f *fakeSurface) pendingFrames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *fakeSurface) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// countingDraw returns a draw callback and a getter for its call count.
func countingDraw() (func(time.Time), func() int) {
	var mu sync.Mutex
	count := 0
	draw := func(time.Time) {
		mu.Lock()
		count++
		mu.Unlock()
	}
	get := func() int {
		mu.Lock()
		defer mu.Unlock()
		return count
	}
	return draw, get
}

func TestScheduler_StartRequestsFrame(t *testing.T) {
	surface := newFakeSurface(true)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	assert.Equal(t, 0, surface.pendingFrames())

	s.Start()
	assert.Equal(t, 1, surface.pendingFrames())
	assert.True(t, s.Running())

	// First pulse draws immediately and reschedules
	surface.pulse(time.Unix(0, 0))
	assert.Equal(t, 1, drawn())
	assert.Equal(t, 1, surface.pendingFrames())
}

func TestScheduler_StartTwice(t *testing.T) {
	surface := newFakeSurface(true)
	draw, _ := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()
	s.Start()
	assert.Equal(t, 1, surface.pendingFrames())
}

func TestScheduler_SkipsPulsesFasterThanTarget(t *testing.T) {
	surface := newFakeSurface(true)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()
	base := time.Unix(0, 0)

	surface.pulse(base)
	require.Equal(t, 1, drawn())

	// 8ms later: under the ~16.7ms interval, skipped but rescheduled
	surface.pulse(base.Add(8 * time.Millisecond))
	assert.Equal(t, 1, drawn())
	assert.Equal(t, 1, surface.pendingFrames())

	// 17ms after the first draw: due
	surface.pulse(base.Add(17 * time.Millisecond))
	assert.Equal(t, 2, drawn())
}

func TestScheduler_ConvergesToTargetRate(t *testing.T) {
	surface := newFakeSurface(true)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()
	base := time.Unix(0, 0)
	surface.pulse(base)

	// Pulse at 100Hz for one simulated second. Drift correction advances
	// the frame timestamp by whole intervals, so the draw count settles on
	// the target rate instead of the pulse rate.
	for n := 1; n <= 100; n++ {
		surface.pulse(base.Add(time.Duration(n) * 10 * time.Millisecond))
	}

	// One immediate draw plus 60 paced draws
	assert.Equal(t, 61, drawn())
}

func TestScheduler_StartWhileHidden(t *testing.T) {
	surface := newFakeSurface(false)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()

	// No frame request while hidden, so pulses do nothing
	assert.Equal(t, 0, surface.pendingFrames())
	assert.False(t, s.Running())

	// Visibility kicks off the loop
	surface.setVisible(true)
	assert.Equal(t, 1, surface.pendingFrames())
	assert.True(t, s.Running())

	surface.pulse(time.Unix(0, 0))
	assert.Equal(t, 1, drawn())
}

func TestScheduler_HideForcesPause(t *testing.T) {
	surface := newFakeSurface(true)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()
	base := time.Unix(0, 0)
	surface.pulse(base)
	require.Equal(t, 1, drawn())

	surface.setVisible(false)

	// Pending pulse cancelled, nothing draws while hidden
	assert.Equal(t, 0, surface.pendingFrames())
	assert.False(t, s.Running())

	surface.setVisible(true)
	assert.True(t, s.Running())

	// Timestamp was reset on resume, so the next pulse draws right away
	surface.pulse(base.Add(time.Millisecond))
	assert.Equal(t, 2, drawn())
}

func TestScheduler_ResumeWhileHiddenStaysPaused(t *testing.T) {
	surface := newFakeSurface(true)
	draw, _ := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()
	surface.setVisible(false)

	// Caller intent does not override the visibility rule
	s.Resume()
	assert.False(t, s.Running())
	assert.Equal(t, 0, surface.pendingFrames())
}

func TestScheduler_PauseResume(t *testing.T) {
	surface := newFakeSurface(true)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Start()
	base := time.Unix(0, 0)
	surface.pulse(base)
	require.Equal(t, 1, drawn())

	s.Pause()
	assert.Equal(t, 0, surface.pendingFrames())

	surface.pulse(base.Add(20 * time.Millisecond))
	assert.Equal(t, 1, drawn())

	s.Resume()
	assert.Equal(t, 1, surface.pendingFrames())

	surface.pulse(base.Add(21 * time.Millisecond))
	assert.Equal(t, 2, drawn())
}

func TestScheduler_ResumeWithoutStart(t *testing.T) {
	surface := newFakeSurface(true)
	draw, _ := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)
	defer s.Destroy()

	s.Resume()
	assert.False(t, s.Running())
	assert.Equal(t, 0, surface.pendingFrames())
}

func TestScheduler_DestroyIdempotent(t *testing.T) {
	surface := newFakeSurface(true)
	draw, drawn := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)

	s.Start()
	require.Equal(t, 1, surface.pendingFrames())

	s.Destroy()
	assert.Equal(t, 0, surface.pendingFrames())
	assert.Equal(t, 0, surface.handlerCount())

	// Second destroy and any later calls are silent no-ops
	s.Destroy()
	s.Start()
	s.Resume()
	assert.Equal(t, 0, surface.pendingFrames())
	assert.False(t, s.Running())

	surface.pulse(time.Unix(0, 0))
	assert.Equal(t, 0, drawn())
}

func TestScheduler_DestroyDetachesVisibility(t *testing.T) {
	surface := newFakeSurface(true)
	draw, _ := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 60)

	s.Start()
	s.Destroy()

	// Visibility flips after destroy must not revive the loop
	surface.setVisible(false)
	surface.setVisible(true)
	assert.Equal(t, 0, surface.pendingFrames())
}

func TestScheduler_DefaultFrameRate(t *testing.T) {
	surface := newFakeSurface(true)
	draw, _ := countingDraw()
	s := New(logger.NewNopLogger(), surface, draw, 0)
	defer s.Destroy()

	assert.Equal(t, time.Second/DefaultFrameRate, s.interval)
}
