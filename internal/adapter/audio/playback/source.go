package playback

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
)

const (
	defaultFFTSize   = 1024
	defaultSmoothing = 0.8

	// analysisRate is how often fresh frames are computed, independent of the
	// render rate.
	analysisRate = 60

	// ringFactor sizes the tap ring buffer in FFT windows.
	ringFactor = 4
)

// output drives actual audio playback. The default implementation plays
// through the system speaker; tests substitute a silent one.
type output interface {
	play(format beep.Format, s beep.Streamer) error
	stop()
}

// speakerOutput plays through the beep speaker. The speaker is process-global,
// so it is initialized once and reinitialized only on a sample rate change.
type speakerOutput struct {
	initialized bool
	sampleRate  beep.SampleRate
}

func (o *speakerOutput) play(format beep.Format, s beep.Streamer) error {
	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !o.initialized:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			return err
		}
		o.initialized = true
	case o.sampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			return err
		}
	default:
		speaker.Clear()
	}
	o.sampleRate = format.SampleRate
	speaker.Play(s)
	return nil
}

func (o *speakerOutput) stop() {
	if o.initialized {
		speaker.Clear()
	}
}

// Source is an AudioSource that decodes a local audio file, plays it through
// the speaker and analyzes the samples flowing past. Frames are recomputed on
// an internal ticker; pulls return the latest snapshot.
//
// Thread-safety: This implementation is thread-safe.
type Source struct {
	logger *slog.Logger
	bus    ports.EventBus
	out    output

	path      string
	fftSize   int
	smoothing float64

	mu         sync.Mutex
	analysisMu sync.Mutex

	started  bool
	ended    bool
	streamer beep.StreamSeekCloser
	file     *os.File
	ctrl     *beep.Ctrl
	tap      *tap
	analyzer *analyzer
	track    domain.TrackInfo
	spectrum domain.SpectralFrame
	waveform domain.SpectralFrame

	done chan struct{}
	wg   sync.WaitGroup
}

// NewSource creates a playback source for the file named by config.Input.
// A zero FFTSize selects 1024, a zero Smoothing selects 0.8; pass a small
// positive Smoothing for an effectively unsmoothed analyzer.
func NewSource(logger *slog.Logger, bus ports.EventBus, config *ports.AudioSourceConfig) (*Source, error) {
	if config == nil || config.Input == "" {
		return nil, domain.ErrAudioInputNotFound
	}

	fftSize := config.FFTSize
	if fftSize == 0 {
		fftSize = defaultFFTSize
	}
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, domain.NewValidationError("fft_size", fftSize, "must be a power of two")
	}

	smoothing := config.Smoothing
	if smoothing == 0 {
		smoothing = defaultSmoothing
	}
	if smoothing < 0 || smoothing >= 1 {
		return nil, domain.NewValidationError("smoothing", smoothing, "must be in [0, 1)")
	}

	return &Source{
		logger:    logger,
		bus:       bus,
		out:       &speakerOutput{},
		path:      config.Input,
		fftSize:   fftSize,
		smoothing: smoothing,
	}, nil
}

// Factory returns an AudioSourceFactory that builds playback sources sharing
// the given logger and event bus.
func Factory(logger *slog.Logger, bus ports.EventBus) ports.AudioSourceFactory {
	return func(config *ports.AudioSourceConfig) (ports.AudioSource, error) {
		return NewSource(logger, bus, config)
	}
}

// Start opens and decodes the file, begins playback and launches the
// analysis loop.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return domain.ErrAlreadyInitialized
	}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrFileNotFound, s.path)
		}
		return fmt.Errorf("open audio file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	ext := strings.ToLower(filepath.Ext(s.path))
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	default:
		_ = file.Close()
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("decode %s: %w", ext, err)
	}

	s.tap = newTap(streamer, s.fftSize*ringFactor)
	s.ctrl = &beep.Ctrl{Streamer: s.tap}
	s.analyzer = newAnalyzer(s.fftSize, s.smoothing)
	s.streamer = streamer
	s.file = file
	s.ended = false

	if err := s.out.play(format, beep.Seq(s.ctrl, beep.Callback(s.onTrackEnd))); err != nil {
		_ = streamer.Close()
		_ = file.Close()
		s.streamer, s.file, s.ctrl, s.tap, s.analyzer = nil, nil, nil, nil, nil
		return fmt.Errorf("start playback: %w", err)
	}

	s.track = trackInfo(s.path)
	if s.bus != nil {
		s.bus.Publish(domain.NewTrackChangedEvent(s.track))
	}

	s.logger.Info("audio playback started",
		"file", filepath.Base(s.path),
		"sample_rate", int(format.SampleRate),
		"bins", s.fftSize/2,
	)

	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.analysisLoop(s.done)

	s.started = true
	return nil
}

// Stop ends playback and analysis. Stopping a source that was never started
// is a no-op.
func (s *Source) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	done := s.done
	s.mu.Unlock()

	close(done)
	s.wg.Wait()
	s.out.stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer != nil {
		_ = s.streamer.Close()
		s.streamer = nil
	}
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	s.ctrl = nil
	s.tap = nil
	s.analyzer = nil
	s.spectrum = nil
	s.waveform = nil

	s.logger.Info("audio playback stopped", "file", filepath.Base(s.path))
	return nil
}

// SpectralFrame returns a snapshot of the latest frequency-domain frame.
func (s *Source) SpectralFrame() domain.SpectralFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.spectrum) == 0 {
		return domain.SpectralFrame{}
	}
	return append(domain.SpectralFrame(nil), s.spectrum...)
}

// WaveformFrame returns a snapshot of the latest time-domain frame.
func (s *Source) WaveformFrame() domain.SpectralFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waveform) == 0 {
		return domain.SpectralFrame{}
	}
	return append(domain.SpectralFrame(nil), s.waveform...)
}

// BinCount returns the fixed frame length of this source.
func (s *Source) BinCount() int {
	return s.fftSize / 2
}

// Describe returns a short description of the source.
func (s *Source) Describe() string {
	return "playback: " + filepath.Base(s.path)
}

// Track returns the metadata of the loaded file. Valid after Start.
func (s *Source) Track() domain.TrackInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track
}

// analysisLoop recomputes frames at the analysis rate until done is closed.
func (s *Source) analysisLoop(done chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second / analysisRate)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

// refresh computes one spectrum/waveform pair from the tap and publishes it
// as the latest snapshot. After the track ends the analyzer is fed silence,
// so the visualization decays instead of freezing on the last window.
func (s *Source) refresh() {
	s.mu.Lock()
	t, a, ended := s.tap, s.analyzer, s.ended
	s.mu.Unlock()

	if t == nil || a == nil {
		return
	}

	var samples []float64
	if ended {
		samples = make([]float64, s.fftSize)
	} else {
		samples = t.latest(s.fftSize)
	}

	// The analyzer keeps smoothing state across calls and is not safe for
	// concurrent use.
	s.analysisMu.Lock()
	spectrum := a.spectrum(samples)
	waveform := a.waveform(samples)
	s.analysisMu.Unlock()

	s.mu.Lock()
	if s.tap == t {
		s.spectrum = spectrum
		s.waveform = waveform
	}
	s.mu.Unlock()
}

// onTrackEnd runs on the speaker goroutine when the stream is exhausted.
func (s *Source) onTrackEnd() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()

	s.logger.Info("track finished", "file", filepath.Base(s.path))
}

// Verify that Source implements the AudioSource interface
var _ ports.AudioSource = (*Source)(nil)
