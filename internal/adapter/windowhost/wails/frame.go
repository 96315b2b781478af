package wails

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
)

// framePayload is the wire form of one presented frame. Overlay frames are
// mostly transparent, so PNG keeps the payload small even at full frame rate.
type framePayload struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Opacity float64 `json:"opacity"`
	PNG     string  `json:"png"`
}

// pngBuffer encodes frames reusing one scratch buffer between calls.
// Not safe for concurrent use; the owning window serializes access.
type pngBuffer struct {
	buf bytes.Buffer
}

func (p *pngBuffer) encode(frame *image.RGBA) (string, error) {
	p.buf.Reset()
	// Redrawn every frame, so encode speed matters more than size.
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&p.buf, frame); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(p.buf.Bytes()), nil
}
