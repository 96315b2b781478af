package feature

import (
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// DetectorConfig tunes the beat onset detector. All energies and ratios are
// dimensionless; the window and cooldown count analysis frames.
type DetectorConfig struct {
	// Window is the number of recent bass energies kept for the rolling
	// average.
	Window int

	// ThresholdRatio scales the rolling average into the trigger threshold.
	ThresholdRatio float64

	// Floor is the minimum threshold, so near-silence noise never triggers.
	Floor float64

	// RiseRatio is the required growth over the previous frame's energy.
	// An onset is a transient, not sustained loudness.
	RiseRatio float64

	// Cooldown is the number of frames an onset blocks re-triggering,
	// covering the decay tail of the transient.
	Cooldown int
}

// DefaultDetectorConfig returns the tuning used by the overlay effects.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Window:         30,
		ThresholdRatio: 1.4,
		Floor:          0.15,
		RiseRatio:      1.1,
		Cooldown:       6,
	}
}

// BeatDetector finds bass onsets by comparing the current bass energy
// against an adaptive threshold over a rolling history. One instance per
// visualization session; not safe for concurrent use.
type BeatDetector struct {
	cfg        DetectorConfig
	history    []float64
	lastEnergy float64
	cooldown   int
}

// NewBeatDetector creates a detector. Zero or negative config fields fall
// back to the defaults.
func NewBeatDetector(cfg DetectorConfig) *BeatDetector {
	def := DefaultDetectorConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.ThresholdRatio <= 0 {
		cfg.ThresholdRatio = def.ThresholdRatio
	}
	if cfg.Floor <= 0 {
		cfg.Floor = def.Floor
	}
	if cfg.RiseRatio <= 0 {
		cfg.RiseRatio = def.RiseRatio
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}

	return &BeatDetector{
		cfg:     cfg,
		history: make([]float64, 0, cfg.Window),
	}
}

// Process advances the detector by one frame and reports whether the given
// bass energy is an onset. The energy joins the rolling history either way.
//
// The trigger threshold is the rolling average scaled by ThresholdRatio,
// never below Floor. An onset additionally requires the energy to exceed
// the previous frame by RiseRatio and the cooldown to have expired.
func (d *BeatDetector) Process(bass float64) domain.Beat {
	if len(d.history) == d.cfg.Window {
		copy(d.history, d.history[1:])
		d.history = d.history[:d.cfg.Window-1]
	}
	d.history = append(d.history, bass)

	var sum float64
	for _, e := range d.history {
		sum += e
	}
	avg := sum / float64(len(d.history))

	threshold := avg * d.cfg.ThresholdRatio
	if threshold < d.cfg.Floor {
		threshold = d.cfg.Floor
	}

	onset := bass > threshold && bass > d.lastEnergy*d.cfg.RiseRatio && d.cooldown == 0

	if onset {
		d.cooldown = d.cfg.Cooldown
	} else if d.cooldown > 0 {
		d.cooldown--
	}

	d.lastEnergy = bass

	return domain.Beat{Onset: onset, Energy: bass}
}

// Reset clears all rolling state.
func (d *BeatDetector) Reset() {
	d.history = d.history[:0]
	d.lastEnergy = 0
	d.cooldown = 0
}
