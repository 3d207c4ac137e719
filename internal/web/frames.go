package web

import (
	"bytes"
	"fmt"
	"image/png"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/rook-computer/clockmirror/internal/state"
)

// FrameHolder keeps the latest mirror frame for HTTP clients. The PNG is
// encoded once per frame, not per request.
type FrameHolder struct {
	mu    sync.RWMutex
	frame state.Frame
	has   bool
	png   []byte
	etag  string
}

func NewFrameHolder() *FrameHolder {
	return &FrameHolder{}
}

func (h *FrameHolder) Name() string { return "web" }

func (h *FrameHolder) Present(frame state.Frame) error {
	if frame.Image == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, frame.Image); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	data := buf.Bytes()
	etag := fmt.Sprintf("\"%016x\"", xxh3.Hash(data))

	h.mu.Lock()
	h.frame = frame
	h.has = true
	h.png = data
	h.etag = etag
	h.mu.Unlock()
	return nil
}

// Latest returns the last frame presented.
func (h *FrameHolder) Latest() (state.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame, h.has
}

// PNG returns the encoded latest frame, its ETag and its sequence number.
func (h *FrameHolder) PNG() ([]byte, string, uint64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.png, h.etag, h.frame.Seq, h.has
}
