// Package ports define interfaces for dependency inversion.
// These interfaces allow the core engine to remain independent of the audio
// backend, the settings store, and the host windowing system.
package ports

import (
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// AudioSource is the interface for audio analysis sources.
// This abstracts where the audio comes from (system loopback, file playback,
// a scripted test source) and allows the engine to treat frames as opaque
// numeric buffers of a fixed, analyzer-configured length.
//
// Frames are refreshed at the source's own analysis rate, independent of the
// render rate; the engine performs non-blocking pulls of the latest buffer.
// There is no queuing or backpressure: a skipped render tick simply reuses or
// ignores stale data on the next pull.
//
// Implementations must be thread-safe: frames are pulled concurrently from
// one goroutine per overlay window.
type AudioSource interface {
	// Lifecycle methods

	// Start begins audio analysis. Frames become available shortly after.
	//
	// Returns domain.ErrAlreadyInitialized if the source is already running.
	Start() error

	// Stop ends audio analysis and releases backend resources.
	// Stopping a source that was never started is a no-op.
	//
	// Returns an error if teardown fails.
	Stop() error

	// Frame pull methods

	// SpectralFrame returns the latest frequency-domain frame: BinCount
	// magnitudes scaled 0-255, low frequencies first. The returned slice is a
	// snapshot owned by the caller. A source with no data yet returns an
	// empty frame, never an error.
	SpectralFrame() domain.SpectralFrame

	// WaveformFrame returns the latest time-domain frame: BinCount samples
	// centered on 128. Same ownership and no-data semantics as SpectralFrame.
	WaveformFrame() domain.SpectralFrame

	// BinCount returns the fixed length of the frames this source produces.
	BinCount() int

	// Describe returns a short human-readable description of the source for
	// logging and the shell (e.g., "playback: song.mp3", "mock").
	Describe() string
}

// AudioSourceFactory is a function that creates an AudioSource instance.
// This allows for dependency injection of different source implementations.
type AudioSourceFactory func(config *AudioSourceConfig) (AudioSource, error)

// AudioSourceConfig contains configuration for creating an audio source.
type AudioSourceConfig struct {
	// Input identifies what to analyze: a file path for playback sources, a
	// device id for capture sources, empty for the implementation default.
	Input string

	// SampleRate is the analysis sample rate in Hz (e.g., 44100).
	SampleRate int

	// FFTSize is the analysis window length in samples; frames carry
	// FFTSize/2 bins. Must be a power of two.
	FFTSize int

	// Smoothing blends each new spectral frame with the previous one,
	// 0.0 (no smoothing) to 1.0 (frozen). Matches the smoothing constant of
	// browser-style analyser nodes.
	Smoothing float64
}
