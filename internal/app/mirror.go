package app

import (
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/render/layout"
	"github.com/rook-computer/clockmirror/internal/state"
)

// Output receives finished frames. Present is called from the poll goroutine
// and must not block for long.
type Output interface {
	Name() string
	Present(frame state.Frame) error
}

// Mirror is the renderer state: the offscreen surface, the current mode and
// the frame sequence. The poll scheduler is its only caller.
type Mirror struct {
	Store   *state.Store
	Outputs []Output
	Logger  Logger
	Now     func() time.Time

	// PresentUnchanged sends frames to outputs even when the pixels did not
	// change since the last one.
	PresentUnchanged bool

	mu        sync.Mutex
	surface   *render.Surface
	scale     float64
	seq       uint64
	lastHash  uint64
	landscape bool
	hasFrame  bool
}

func NewMirror(scale float64, store *state.Store, outputs ...Output) *Mirror {
	if store == nil {
		store = state.NewStore()
	}
	return &Mirror{
		Store:   store,
		Outputs: outputs,
		Logger:  NoopLogger{},
		Now:     time.Now,
		surface: render.NewSurface(nil),
		scale:   render.ClampScale(scale),
	}
}

func (m *Mirror) Scale() float64 { return m.scale }

// Render draws snap and hands the finished frame to every output. Output
// errors are logged; they do not fail the cycle.
func (m *Mirror) Render(snap state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	spec, ops := layout.Frame(snap)
	frame, changed := m.draw(spec, ops)
	frame.Snapshot = snap
	if m.hasFrame && snap.LandscapeMode != m.landscape {
		m.Logger.Infof("mirror", "mode switched to %s", spec.Name)
	}
	m.landscape = snap.LandscapeMode
	m.hasFrame = true

	if !changed && !m.PresentUnchanged {
		m.Store.RecordUnchanged(frame.At)
		return nil
	}
	m.Store.RecordFrame(frame)
	m.present(frame)
	return nil
}

// Waiting draws the placeholder screen shown before the first snapshot. It
// does nothing once a real frame has been rendered.
func (m *Mirror) Waiting(lines ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasFrame {
		return
	}
	spec := layout.PortraitSpec()
	frame, changed := m.draw(spec, layout.Waiting(spec, lines...))
	frame.Placeholder = true
	if changed {
		m.present(frame)
	}
}

// Latest returns a copy of the last frame drawn, or nil before the first.
func (m *Mirror) Latest() *state.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.surface.Image() == nil {
		return nil
	}
	w, h := m.surface.Size()
	return &state.Frame{Seq: m.seq, Hash: m.lastHash, Image: m.surface.Frame(), Width: w, Height: h}
}

// draw replays ops onto the surface and copies the result out. The copy is
// taken only after the whole list has been played.
func (m *Mirror) draw(spec layout.Spec, ops render.Ops) (state.Frame, bool) {
	if m.surface.Ensure(spec.Width, spec.Height, m.scale) {
		pw, ph := m.surface.PixelSize()
		m.Logger.Infof("mirror", "surface %s %dx%d at scale %.2f (%dx%d px)", spec.Name, spec.Width, spec.Height, m.scale, pw, ph)
	}
	ops.Play(m.surface)

	img := m.surface.Frame()
	hash := xxh3.Hash(img.Pix)
	changed := m.seq == 0 || hash != m.lastHash
	if changed {
		m.seq++
		m.lastHash = hash
	}
	return state.Frame{
		Seq:    m.seq,
		Hash:   hash,
		At:     m.Now(),
		Image:  img,
		Width:  spec.Width,
		Height: spec.Height,
	}, changed
}

func (m *Mirror) present(frame state.Frame) {
	for _, out := range m.Outputs {
		if err := out.Present(frame); err != nil {
			m.Logger.Errorf("mirror", "output %s: %v", out.Name(), err)
		}
	}
}
