package playback

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Decibel range mapped onto the 0-255 frame scale, matching browser-style
// analyser nodes.
const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// analyzer turns windows of raw samples into the byte-scaled frames the
// engine consumes. Spectral frames are Hann-windowed FFT magnitudes smoothed
// across calls and mapped from decibels onto 0-255; waveform frames are the
// raw samples recentered on 128.
//
// Not safe for concurrent use; the source serializes calls.
type analyzer struct {
	fftSize   int
	binCount  int
	smoothing float64

	fft      *fourier.FFT
	window   []float64
	smoothed []float64
	coeffs   []complex128
	windowed []float64
}

func newAnalyzer(fftSize int, smoothing float64) *analyzer {
	if smoothing < 0 || smoothing >= 1 {
		smoothing = 0
	}

	a := &analyzer{
		fftSize:   fftSize,
		binCount:  fftSize / 2,
		smoothing: smoothing,
		fft:       fourier.NewFFT(fftSize),
		window:    make([]float64, fftSize),
		smoothed:  make([]float64, fftSize/2),
		windowed:  make([]float64, fftSize),
	}
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}
	return a
}

// spectrum computes the next frequency-domain frame from one fftSize-long
// window of samples. Shorter windows are treated as silence-led.
func (a *analyzer) spectrum(samples []float64) []byte {
	for i := range a.windowed {
		a.windowed[i] = 0
	}
	offset := a.fftSize - len(samples)
	if offset < 0 {
		samples = samples[len(samples)-a.fftSize:]
		offset = 0
	}
	for i, s := range samples {
		a.windowed[offset+i] = s * a.window[offset+i]
	}

	// Coefficients accepts nil or a slice of exactly fftSize/2+1.
	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	frame := make([]byte, a.binCount)
	for i := 0; i < a.binCount; i++ {
		magnitude := cmplx.Abs(a.coeffs[i]) / float64(a.fftSize)
		a.smoothed[i] = a.smoothing*a.smoothed[i] + (1-a.smoothing)*magnitude
		frame[i] = scaleDecibels(a.smoothed[i])
	}
	return frame
}

// waveform computes the matching time-domain frame: the last binCount samples
// recentered on 128.
func (a *analyzer) waveform(samples []float64) []byte {
	frame := make([]byte, a.binCount)
	for i := range frame {
		frame[i] = 128
	}

	if len(samples) > a.binCount {
		samples = samples[len(samples)-a.binCount:]
	}
	offset := a.binCount - len(samples)
	for i, s := range samples {
		v := 128 + int(math.Round(s*127))
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		frame[offset+i] = byte(v)
	}
	return frame
}

// reset clears the smoothing state, so the next frame starts from silence.
func (a *analyzer) reset() {
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
}

// scaleDecibels maps a linear magnitude onto the 0-255 scale through the
// analyser decibel range.
func scaleDecibels(magnitude float64) byte {
	if magnitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(magnitude)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}
