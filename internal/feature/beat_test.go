package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

func TestNewBeatDetector_SanitizesConfig(t *testing.T) {
	detector := NewBeatDetector(DetectorConfig{})
	require.NotNil(t, detector)

	def := DefaultDetectorConfig()
	assert.Equal(t, def, detector.cfg)
}

func TestBeatDetector_FirstFrameNeverTriggers(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	// With a single sample the threshold is that sample times the ratio
	beat := detector.Process(0.9)
	assert.False(t, beat.Onset)
	assert.Equal(t, 0.9, beat.Energy)
}

func TestBeatDetector_SpikeAfterQuietRunTriggers(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	// Quiet run fills the history without triggering
	for i := 0; i < 30; i++ {
		beat := detector.Process(0.1)
		assert.False(t, beat.Onset, "sample %d", i)
	}

	// Sudden spike clears the adaptive threshold and the rise ratio
	beat := detector.Process(0.9)
	assert.True(t, beat.Onset)
	assert.Equal(t, 0.9, beat.Energy)
}

func TestBeatDetector_CooldownBlocksRetrigger(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	for i := 0; i < 30; i++ {
		detector.Process(0.1)
	}
	beat := detector.Process(0.9)
	require.True(t, beat.Onset)

	// Still loud, still above the quiet level, but inside the cooldown
	beat = detector.Process(0.5)
	assert.False(t, beat.Onset)
}

func TestBeatDetector_SustainedLoudnessNoRetrigger(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	for i := 0; i < 30; i++ {
		detector.Process(0.1)
	}
	beat := detector.Process(0.9)
	require.True(t, beat.Onset)

	// Holding at peak never satisfies the rise ratio, even after the
	// cooldown expires
	for i := 0; i < 20; i++ {
		beat = detector.Process(0.9)
		assert.False(t, beat.Onset, "sample %d", i)
	}
}

func TestBeatDetector_SecondOnsetAfterCooldown(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	for i := 0; i < 30; i++ {
		detector.Process(0.1)
	}
	beat := detector.Process(0.9)
	require.True(t, beat.Onset)

	// Quiet gap long enough to drain the cooldown
	for i := 0; i < 10; i++ {
		beat = detector.Process(0.1)
		require.False(t, beat.Onset)
	}

	beat = detector.Process(0.9)
	assert.True(t, beat.Onset)
}

func TestBeatDetector_FloorSuppressesNearSilence(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	// Very quiet run; the adaptive threshold alone would sit near 0.07
	for i := 0; i < 30; i++ {
		detector.Process(0.05)
	}

	// A relative jump that stays under the floor must not trigger
	beat := detector.Process(0.12)
	assert.False(t, beat.Onset)
}

func TestBeatDetector_SilenceNeverTriggers(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	for i := 0; i < 100; i++ {
		beat := detector.Process(0)
		assert.False(t, beat.Onset, "sample %d", i)
		assert.Equal(t, 0.0, beat.Energy)
	}
}

func TestBeatDetector_HistoryWindowBounded(t *testing.T) {
	cfg := DefaultDetectorConfig()
	detector := NewBeatDetector(cfg)

	for i := 0; i < 200; i++ {
		detector.Process(0.2)
	}

	assert.Len(t, detector.history, cfg.Window)
}

func TestBeatDetector_WindowEvictsOldest(t *testing.T) {
	cfg := DetectorConfig{Window: 4, ThresholdRatio: 1.4, Floor: 0.15, RiseRatio: 1.1, Cooldown: 2}
	detector := NewBeatDetector(cfg)

	// Loud prefix followed by quiet samples; once the loud samples age
	// out, the average settles at the quiet level
	detector.Process(0.8)
	for i := 0; i < 4; i++ {
		detector.Process(0.1)
	}

	assert.Equal(t, []float64{0.1, 0.1, 0.1, 0.1}, detector.history)
}

func TestBeatDetector_Reset(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	for i := 0; i < 30; i++ {
		detector.Process(0.1)
	}
	require.True(t, detector.Process(0.9).Onset)

	detector.Reset()

	assert.Empty(t, detector.history)
	assert.Equal(t, 0.0, detector.lastEnergy)
	assert.Equal(t, 0, detector.cooldown)
}

func TestBeatDetector_BeatValueShape(t *testing.T) {
	detector := NewBeatDetector(DefaultDetectorConfig())

	beat := detector.Process(0.3)
	assert.IsType(t, domain.Beat{}, beat)
	assert.Equal(t, 0.3, beat.Energy)
}
