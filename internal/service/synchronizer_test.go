package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/audio/mock"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/eventbus"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/repository/memory"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/windowhost/headless"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/effect"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/logger"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/testutil"
)

// rig bundles a synchronizer with the in-memory adapters it is wired to.
// The headless host uses a 1920x1080 screen, the mock source 64 bins.
type rig struct {
	s      *OverlaySynchronizer
	host   *headless.Host
	source *mock.Source
	repo   *memory.SettingsRepository
	bus    *eventbus.SyncEventBus
}

// newRig builds a synchronizer over fresh test adapters. The prepare hook
// runs against the repository before the synchronizer loads it. The
// synchronizer is shut down when the test ends.
func newRig(t *testing.T, prepare func(repo *memory.SettingsRepository)) *rig {
	t.Helper()

	repo := memory.NewSettingsRepository()
	if prepare != nil {
		prepare(repo)
	}

	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	bus.SetLogger(log)

	r := &rig{
		host:   headless.NewHost(),
		source: mock.NewSource(64),
		repo:   repo,
		bus:    bus,
	}
	r.s = NewOverlaySynchronizer(log, r.host, r.source, repo, bus)

	t.Cleanup(func() {
		_ = r.s.Shutdown()
	})

	return r
}

// newStartedRig builds a rig and starts it with the default bottom edge.
func newStartedRig(t *testing.T) *rig {
	t.Helper()

	r := newRig(t, nil)
	require.NoError(t, r.s.Start())
	require.Len(t, r.host.Windows(), 1)
	return r
}

func TestNewOverlaySynchronizer_LoadsSavedSettings(t *testing.T) {
	r := newRig(t, func(repo *memory.SettingsRepository) {
		require.NoError(t, repo.SaveMode(domain.ModeWave))
		require.NoError(t, repo.SaveColorScheme(domain.SchemeFire))
		require.NoError(t, repo.SaveOpacity(0.5))
		require.NoError(t, repo.SaveDensity(128))
		require.NoError(t, repo.SaveActiveEdges([]domain.Edge{domain.EdgeTop}))
	})

	settings := r.s.Settings()
	assert.Equal(t, domain.ModeWave, settings.Mode)
	assert.Equal(t, domain.SchemeFire, settings.ColorScheme)
	assert.Equal(t, 0.5, settings.Opacity)
	assert.Equal(t, 128, settings.Density)
	assert.Equal(t, []domain.Edge{domain.EdgeTop}, settings.ActiveEdges)

	// Nothing is activated before Start.
	assert.Empty(t, r.s.ActiveEdges())
	assert.Empty(t, r.host.Windows())
}

func TestStart_RestoresSavedEdges(t *testing.T) {
	r := newRig(t, func(repo *memory.SettingsRepository) {
		require.NoError(t, repo.SaveActiveEdges([]domain.Edge{domain.EdgeTop, domain.EdgeLeft}))
	})

	require.NoError(t, r.s.Start())

	assert.Equal(t, []domain.Edge{domain.EdgeTop, domain.EdgeLeft}, r.s.ActiveEdges())
	assert.True(t, r.s.EdgeActive(domain.EdgeTop))
	assert.True(t, r.s.EdgeActive(domain.EdgeLeft))
	assert.False(t, r.s.EdgeActive(domain.EdgeBottom))

	windows := r.host.Windows()
	require.Len(t, windows, 2)

	assert.Equal(t, domain.EdgeTop, windows[0].Edge())
	assert.Equal(t, domain.Rect{X: 0, Y: 0, Width: 1920, Height: 120}, windows[0].Rect())
	assert.Equal(t, domain.OrientationFlipY, windows[0].Orientation())
	assert.True(t, windows[0].Visible())

	assert.Equal(t, domain.EdgeLeft, windows[1].Edge())
	assert.Equal(t, domain.Rect{X: 0, Y: 0, Width: 120, Height: 1080}, windows[1].Rect())
	assert.Equal(t, domain.OrientationRotateCW, windows[1].Orientation())
	assert.True(t, windows[1].Visible())
}

func TestStart_DefaultsToBottomEdge(t *testing.T) {
	r := newRig(t, nil)

	require.NoError(t, r.s.Start())

	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, r.s.ActiveEdges())

	windows := r.host.Windows()
	require.Len(t, windows, 1)
	assert.Equal(t, domain.Rect{X: 0, Y: 960, Width: 1920, Height: 120}, windows[0].Rect())
	assert.Equal(t, domain.OrientationNone, windows[0].Orientation())
}

func TestStart_SecondCallIsNoOp(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.Start())
	assert.Len(t, r.host.Windows(), 1)
}

func TestStart_ScreenUnavailableLeavesEdgesInactive(t *testing.T) {
	r := newRig(t, nil)
	r.host.SetScreenError(errors.New("display disconnected"))

	// Startup failures are logged per edge, not returned.
	require.NoError(t, r.s.Start())
	assert.Empty(t, r.s.ActiveEdges())
	assert.Empty(t, r.host.Windows())

	// The saved edge set is untouched, so the edge can come back later.
	saved, err := r.repo.LoadActiveEdges()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, saved)

	r.host.SetScreenError(nil)
	active, err := r.s.Toggle(domain.EdgeBottom)
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, active)
}

func TestStart_AfterShutdown(t *testing.T) {
	r := newRig(t, nil)
	require.NoError(t, r.s.Shutdown())

	assert.ErrorIs(t, r.s.Start(), domain.ErrSynchronizerClosed)
}

func TestToggle_ActivatesEdge(t *testing.T) {
	r := newStartedRig(t)

	active, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom, domain.EdgeTop}, active)
	assert.True(t, r.s.EdgeActive(domain.EdgeTop))

	windows := r.host.Windows()
	require.Len(t, windows, 2)
	assert.Equal(t, domain.EdgeTop, windows[1].Edge())
	assert.True(t, windows[1].Visible())

	saved, err := r.repo.LoadActiveEdges()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom, domain.EdgeTop}, saved)
}

func TestToggle_DeactivatesEdge(t *testing.T) {
	r := newStartedRig(t)
	_, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)

	active, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, active)
	assert.False(t, r.s.EdgeActive(domain.EdgeTop))

	windows := r.host.Windows()
	require.Len(t, windows, 2)
	assert.True(t, windows[1].Destroyed())
	assert.False(t, windows[0].Destroyed())

	saved, err := r.repo.LoadActiveEdges()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, saved)
}

func TestToggle_LastActiveEdgeIsNoOp(t *testing.T) {
	r := newStartedRig(t)
	prior := r.s.ActiveEdges()

	active, err := r.s.Toggle(domain.EdgeBottom)
	require.NoError(t, err)
	assert.Equal(t, prior, active)
	assert.True(t, r.s.EdgeActive(domain.EdgeBottom))
	assert.False(t, r.host.Windows()[0].Destroyed())
}

func TestToggle_UnknownEdge(t *testing.T) {
	r := newStartedRig(t)

	_, err := r.s.Toggle("corner")
	assert.ErrorIs(t, err, domain.ErrUnknownEdge)
}

func TestToggle_ScreenErrorLeavesEdgeInactive(t *testing.T) {
	r := newStartedRig(t)
	r.host.SetScreenError(errors.New("display disconnected"))

	_, err := r.s.Toggle(domain.EdgeTop)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScreenUnavailable)

	var screenErr *domain.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, domain.EdgeTop, screenErr.Edge)

	assert.False(t, r.s.EdgeActive(domain.EdgeTop))
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, r.s.ActiveEdges())
}

func TestToggle_AfterShutdown(t *testing.T) {
	r := newStartedRig(t)
	require.NoError(t, r.s.Shutdown())

	_, err := r.s.Toggle(domain.EdgeTop)
	assert.ErrorIs(t, err, domain.ErrSynchronizerClosed)
}

func TestToggle_PublishesEdgeEvents(t *testing.T) {
	r := newStartedRig(t)

	var events []domain.Event
	r.bus.Subscribe(domain.EventEdgeActivated, func(e domain.Event) { events = append(events, e) })
	r.bus.Subscribe(domain.EventEdgeDeactivated, func(e domain.Event) { events = append(events, e) })

	_, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)
	_, err = r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)

	require.Len(t, events, 2)

	activated, ok := events[0].(domain.EdgeActivatedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.EdgeTop, activated.Edge)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom, domain.EdgeTop}, activated.ActiveEdges)

	deactivated, ok := events[1].(domain.EdgeDeactivatedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.EdgeTop, deactivated.Edge)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, deactivated.ActiveEdges)
}

func TestToggle_ActivationUsesCurrentSettings(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.SetMode(domain.ModeWave))
	require.NoError(t, r.s.SetColorScheme(domain.SchemeFire))
	require.NoError(t, r.s.SetOpacity(0.4))
	require.NoError(t, r.s.SetDensity(100))
	require.NoError(t, r.s.SetEdgeThickness(domain.EdgeTop, 64))

	_, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)

	windows := r.host.Windows()
	require.Len(t, windows, 2)
	assert.Equal(t, domain.Rect{X: 0, Y: 0, Width: 1920, Height: 64}, windows[1].Rect())
	assert.Equal(t, 0.4, windows[1].Opacity())

	binding := r.s.bindings[domain.EdgeTop]
	require.NotNil(t, binding)
	assert.Equal(t, domain.SchemeFire, binding.scheme)
	assert.Equal(t, 100, binding.density)
	assert.Equal(t, 64, binding.thickness)
	assert.IsType(t, (*effect.Wave)(nil), binding.effect)
}

func TestSetMode(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.SetMode(domain.ModeWave))

	assert.Equal(t, domain.ModeWave, r.s.Settings().Mode)
	assert.IsType(t, (*effect.Wave)(nil), r.s.bindings[domain.EdgeBottom].effect)

	saved, err := r.repo.LoadMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWave, saved)
}

func TestSetMode_Unknown(t *testing.T) {
	r := newStartedRig(t)

	assert.ErrorIs(t, r.s.SetMode("kaleidoscope"), domain.ErrUnknownMode)
	assert.Equal(t, domain.ModeBars, r.s.Settings().Mode)
}

func TestSetMode_UnchangedPublishesNothing(t *testing.T) {
	r := newStartedRig(t)

	published := 0
	r.bus.Subscribe(domain.EventModeChanged, func(domain.Event) { published++ })

	require.NoError(t, r.s.SetMode(domain.ModeBars))
	assert.Zero(t, published)
}

func TestSetColorScheme(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.SetColorScheme(domain.SchemeOcean))

	assert.Equal(t, domain.SchemeOcean, r.s.Settings().ColorScheme)
	assert.Equal(t, domain.SchemeOcean, r.s.bindings[domain.EdgeBottom].scheme)

	saved, err := r.repo.LoadColorScheme()
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeOcean, saved)

	assert.ErrorIs(t, r.s.SetColorScheme("neon"), domain.ErrUnknownColorScheme)
}

func TestSetOpacity_AppliesToAllActiveWindows(t *testing.T) {
	r := newStartedRig(t)
	_, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)

	require.NoError(t, r.s.SetOpacity(0.3))

	for _, w := range r.host.Windows() {
		assert.Equal(t, 0.3, w.Opacity())
	}

	saved, err := r.repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 0.3, saved)
}

func TestSetOpacity_ZeroIsValid(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.SetOpacity(0))
	assert.Equal(t, 0.0, r.host.Windows()[0].Opacity())
}

func TestSetOpacity_OutOfRange(t *testing.T) {
	r := newStartedRig(t)

	assert.ErrorIs(t, r.s.SetOpacity(1.5), domain.ErrInvalidOpacity)
	assert.ErrorIs(t, r.s.SetOpacity(-0.1), domain.ErrInvalidOpacity)
	assert.Equal(t, domain.DefaultOpacity, r.s.Settings().Opacity)
}

func TestSetDensity_RescalesPerEdge(t *testing.T) {
	r := newStartedRig(t)
	_, err := r.s.Toggle(domain.EdgeLeft)
	require.NoError(t, err)

	require.NoError(t, r.s.SetDensity(512))

	// Horizontal strips keep the base density, vertical strips scale it by
	// the screen aspect ratio: 512 * 1080/1920 = 288.
	assert.Equal(t, 512, r.s.bindings[domain.EdgeBottom].density)
	assert.Equal(t, 288, r.s.bindings[domain.EdgeLeft].density)

	saved, err := r.repo.LoadDensity()
	require.NoError(t, err)
	assert.Equal(t, 512, saved)
}

func TestSetDensity_Invalid(t *testing.T) {
	r := newStartedRig(t)

	assert.ErrorIs(t, r.s.SetDensity(0), domain.ErrInvalidDensity)
	assert.Equal(t, domain.DefaultDensity, r.s.Settings().Density)
}

func TestSetEdgeThickness_ResizesActiveWindow(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.SetEdgeThickness(domain.EdgeBottom, 200))

	w := r.host.Windows()[0]
	assert.Equal(t, domain.Rect{X: 0, Y: 880, Width: 1920, Height: 200}, w.Rect())

	binding := r.s.bindings[domain.EdgeBottom]
	assert.Equal(t, 200, binding.thickness)
	assert.Equal(t, 200, binding.canvas.Rect.Dy())

	saved, err := r.repo.LoadEdgeThickness(domain.EdgeBottom)
	require.NoError(t, err)
	assert.Equal(t, 200, saved)
}

func TestSetEdgeThickness_InactiveEdgeOnlyPersists(t *testing.T) {
	r := newStartedRig(t)

	require.NoError(t, r.s.SetEdgeThickness(domain.EdgeTop, 64))

	assert.Len(t, r.host.Windows(), 1)

	saved, err := r.repo.LoadEdgeThickness(domain.EdgeTop)
	require.NoError(t, err)
	assert.Equal(t, 64, saved)
}

func TestSetEdgeThickness_Invalid(t *testing.T) {
	r := newStartedRig(t)

	assert.ErrorIs(t, r.s.SetEdgeThickness(domain.EdgeBottom, domain.MinThickness-1), domain.ErrInvalidThickness)
	assert.ErrorIs(t, r.s.SetEdgeThickness("corner", 100), domain.ErrUnknownEdge)
}

func TestSettings_ReturnsCopy(t *testing.T) {
	r := newStartedRig(t)

	settings := r.s.Settings()
	settings.EdgeThickness[domain.EdgeTop] = 999
	settings.ActiveEdges[0] = domain.EdgeRight

	fresh := r.s.Settings()
	assert.Equal(t, domain.DefaultThickness, fresh.EdgeThickness[domain.EdgeTop])
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, fresh.ActiveEdges)
}

func TestShutdown_DestroysAllWindows(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r := newStartedRig(t)
	_, err := r.s.Toggle(domain.EdgeTop)
	require.NoError(t, err)

	require.NoError(t, r.s.Shutdown())

	for _, w := range r.host.Windows() {
		assert.True(t, w.Destroyed())
	}
	assert.Empty(t, r.s.ActiveEdges())
	assert.False(t, r.s.EdgeActive(domain.EdgeBottom))

	assert.ErrorIs(t, r.s.SetMode(domain.ModeWave), domain.ErrSynchronizerClosed)

	// Second shutdown is a no-op.
	require.NoError(t, r.s.Shutdown())
}

func TestShutdown_ReleasesBusSubscriptions(t *testing.T) {
	r := newStartedRig(t)

	// One binding holds five configuration subscriptions.
	assert.Equal(t, 5, r.bus.SubscriberCount())

	require.NoError(t, r.s.Shutdown())
	assert.Zero(t, r.bus.SubscriberCount())
}
