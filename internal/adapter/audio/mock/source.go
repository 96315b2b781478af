// Package mock provides a scripted implementation of the AudioSource
// interface. It is used for testing the engine without a real audio backend.
package mock

import (
	"fmt"
	"sync"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

const defaultBinCount = 512

// Source is a scripted implementation of the AudioSource interface.
// Tests queue frames with QueueFrame and step through them with Advance;
// without a script every pull returns a deterministic synthetic frame.
//
// Thread-safety: This implementation is thread-safe.
type Source struct {
	mu sync.Mutex

	binCount int
	started  bool

	// Scripted frames, stepped by Advance.
	script []scriptedFrame
	index  int

	// Pull counters (for testing).
	spectralPulls int
	waveformPulls int

	// Behavior configuration (for testing error scenarios)
	failStart bool
	failStop  bool
}

// scriptedFrame is one queued spectrum/waveform pair.
type scriptedFrame struct {
	spectrum domain.SpectralFrame
	waveform domain.SpectralFrame
}

// NewSource creates a new scripted audio source. A non-positive binCount
// selects the default of 512 bins.
func NewSource(binCount int) *Source {
	if binCount <= 0 {
		binCount = defaultBinCount
	}
	return &Source{binCount: binCount}
}

// Factory creates a scripted source from an audio source configuration,
// matching the ports.AudioSourceFactory signature.
func Factory(config *ports.AudioSourceConfig) (ports.AudioSource, error) {
	binCount := 0
	if config != nil && config.FFTSize > 0 {
		binCount = config.FFTSize / 2
	}
	return NewSource(binCount), nil
}

// SetFailStart configures the source to fail on Start (for testing).
func (s *Source) SetFailStart(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStart = fail
}

// SetFailStop configures the source to fail on Stop (for testing).
func (s *Source) SetFailStop(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStop = fail
}

// QueueFrame appends one spectrum/waveform pair to the script. Frames are
// copied; short spectra are padded with silence, short waveforms with the
// 128 center line.
func (s *Source) QueueFrame(spectrum, waveform domain.SpectralFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.script = append(s.script, scriptedFrame{
		spectrum: s.pad(spectrum, 0),
		waveform: s.pad(waveform, 128),
	})
}

// Advance steps to the next scripted frame. Past the end of the script the
// source stays on the last frame.
func (s *Source) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < len(s.script)-1 {
		s.index++
	}
}

// Start begins producing frames.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStart {
		return domain.ErrAudioInputNotFound
	}
	if s.started {
		return domain.ErrAlreadyInitialized
	}

	s.started = true
	return nil
}

// Stop ends frame production. Stopping a source that was never started is a
// no-op.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	if s.failStop {
		return fmt.Errorf("stop failed")
	}

	s.started = false
	return nil
}

// Running returns true if the source has been started (for testing).
func (s *Source) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// SpectralFrame returns the current scripted spectrum, or a synthetic ramp
// when nothing is queued.
func (s *Source) SpectralFrame() domain.SpectralFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return domain.SpectralFrame{}
	}
	s.spectralPulls++

	if len(s.script) > 0 {
		return append(domain.SpectralFrame(nil), s.script[s.index].spectrum...)
	}

	// Synthetic spectrum: full at DC, falling linearly to zero.
	frame := make(domain.SpectralFrame, s.binCount)
	for i := range frame {
		frame[i] = byte(255 * (s.binCount - i) / s.binCount)
	}
	return frame
}

// WaveformFrame returns the current scripted waveform, or a flat 128-centered
// line when nothing is queued.
func (s *Source) WaveformFrame() domain.SpectralFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return domain.SpectralFrame{}
	}
	s.waveformPulls++

	if len(s.script) > 0 {
		return append(domain.SpectralFrame(nil), s.script[s.index].waveform...)
	}

	frame := make(domain.SpectralFrame, s.binCount)
	for i := range frame {
		frame[i] = 128
	}
	return frame
}

// BinCount returns the fixed frame length of this source.
func (s *Source) BinCount() int {
	return s.binCount
}

// Describe returns a short description of the source.
func (s *Source) Describe() string {
	return "mock"
}

// SpectralPulls returns the number of spectral frame pulls (for testing).
func (s *Source) SpectralPulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spectralPulls
}

// WaveformPulls returns the number of waveform frame pulls (for testing).
func (s *Source) WaveformPulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waveformPulls
}

// pad copies a frame and pads or truncates it to the source's bin count.
func (s *Source) pad(frame domain.SpectralFrame, fill byte) domain.SpectralFrame {
	out := make(domain.SpectralFrame, s.binCount)
	for i := range out {
		out[i] = fill
	}
	copy(out, frame)
	return out
}

// Verify that Source implements the AudioSource interface
var _ ports.AudioSource = (*Source)(nil)
