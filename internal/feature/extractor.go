// Package feature reduces raw analyser frames to the per-frame values the
// overlay effects consume: named band energies and a beat onset signal.
package feature

import (
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// Extractor converts spectral frames into domain.FrameFeatures.
// It owns the beat detector state for one visualization session, so each
// overlay window gets its own Extractor instance. Not safe for concurrent
// use; callers drive it from a single draw loop.
type Extractor struct {
	bands    []domain.BandDefinition
	detector *BeatDetector
}

// NewExtractor creates an extractor over the given band definitions.
// A nil or empty band list falls back to domain.DefaultBands. A nil
// detector gets the default configuration.
func NewExtractor(bands []domain.BandDefinition, detector *BeatDetector) *Extractor {
	if len(bands) == 0 {
		bands = domain.DefaultBands()
	}
	if detector == nil {
		detector = NewBeatDetector(DefaultDetectorConfig())
	}
	return &Extractor{
		bands:    bands,
		detector: detector,
	}
}

// Extract computes band energies from the spectrum, advances the beat
// detector with the bass energy, and bundles the result together with the
// raw frames. An empty spectrum yields zero energies and no beat.
func (e *Extractor) Extract(spectrum, waveform domain.SpectralFrame) domain.FrameFeatures {
	bands := e.BandEnergies(spectrum)
	beat := e.detector.Process(bands[domain.BandBass])

	return domain.FrameFeatures{
		Bands:    bands,
		Beat:     beat,
		Spectrum: spectrum,
		Waveform: waveform,
	}
}

// BandEnergies computes the energy of every configured band.
func (e *Extractor) BandEnergies(frame domain.SpectralFrame) map[string]float64 {
	energies := make(map[string]float64, len(e.bands))
	for _, band := range e.bands {
		energies[band.Name] = BandEnergy(frame, band)
	}
	return energies
}

// Reset clears the beat detector state. Called when a session restarts so
// stale history does not suppress or fake onsets.
func (e *Extractor) Reset() {
	e.detector.Reset()
}

// BandEnergy returns the mean magnitude of the bins covered by the band,
// normalized to [0,1]. The band's Low and High fractions select the bin
// range [Low*N, High*N) over a frame of N bins. An empty frame or an empty
// bin range yields 0.
func BandEnergy(frame domain.SpectralFrame, band domain.BandDefinition) float64 {
	n := len(frame)
	if n == 0 {
		return 0
	}

	lo := int(band.Low * float64(n))
	hi := int(band.High * float64(n))

	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi <= lo {
		return 0
	}

	var sum float64
	for i := lo; i < hi; i++ {
		sum += float64(frame[i])
	}

	return sum / float64(hi-lo) / 255.0
}
