// Package playback provides an AudioSource that plays a local audio file
// through the system speaker while analyzing the samples it streams.
package playback

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// tap is a streamer wrapper that copies samples into a ring buffer on their
// way to the speaker, so the analyzer can read recently played audio. It sits
// between the decoder and the playback control.
type tap struct {
	source beep.Streamer

	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// newTap wraps a streamer with a mono ring buffer of the given size.
func newTap(source beep.Streamer, size int) *tap {
	return &tap{
		source: source,
		buf:    make([]float64, size),
		size:   size,
	}
}

// Stream passes audio through while capturing a mono mix into the ring buffer.
func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

// Err returns the underlying streamer's error.
func (t *tap) Err() error {
	return t.source.Err()
}

// latest returns the last n samples in chronological order. When fewer than n
// samples have been streamed the leading entries are zero.
func (t *tap) latest(n int) []float64 {
	if n > t.size {
		n = t.size
	}
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return out
}
