// Package tui mirrors the clock screen as text in a terminal.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/clockmirror/internal/render/layout"
	"github.com/rook-computer/clockmirror/internal/state"
)

// Terminal is a mirror output drawing each frame's snapshot with tcell.
// q, Esc and Ctrl-C call OnQuit; r calls OnRefresh.
type Terminal struct {
	OnQuit    func()
	OnRefresh func()

	mu      sync.Mutex
	screen  tcell.Screen
	frame   state.Frame
	hasData bool
	done    chan struct{}
}

// NewTerminal uses screen, or the real terminal when screen is nil.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	t.screen.HideCursor()
	t.done = make(chan struct{})
	go t.events(t.screen, t.done)
	t.drawLocked()
	return nil
}

func (t *Terminal) Stop() error {
	t.mu.Lock()
	screen, done := t.screen, t.done
	t.done = nil
	t.mu.Unlock()
	if done == nil {
		return nil
	}
	screen.Fini()
	<-done
	return nil
}

func (t *Terminal) Present(frame state.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = frame
	t.hasData = !frame.Placeholder
	if t.done != nil {
		t.drawLocked()
	}
	return nil
}

func (t *Terminal) events(screen tcell.Screen, done chan struct{}) {
	defer close(done)
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			t.mu.Lock()
			t.drawLocked()
			t.mu.Unlock()
		case *tcell.EventKey:
			t.mu.Lock()
			onQuit, onRefresh := t.OnQuit, t.OnRefresh
			t.mu.Unlock()
			switch {
			case ev.Key() == tcell.KeyEsc, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				if onQuit != nil {
					onQuit()
				}
			case ev.Rune() == 'r':
				if onRefresh != nil {
					onRefresh()
				}
			}
		}
	}
}

var palette = layout.PortraitSpec().Palette

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func style(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcellColor(c)).Background(tcellColor(palette.Background))
}

// drawLocked renders the current frame. Caller holds t.mu.
func (t *Terminal) drawLocked() {
	s := t.screen
	s.Fill(' ', style(palette.Background))
	w, _ := s.Size()

	putCentered(s, 0, w, layout.Title, style(palette.Title).Bold(true))
	if !t.hasData {
		putCentered(s, 2, w, "waiting for clock", style(palette.Placeholder))
		s.Show()
		return
	}
	snap := t.frame.Snapshot
	putCentered(s, 1, w, snap.DisplayDate(), style(palette.Date))
	hline(s, 2, w, style(palette.HeaderSeparator))

	y := 3
	drawCity(s, y, w, snap.Home, true)
	for i := 0; i < state.RemoteSlots; i++ {
		y++
		c, ok := snap.RemoteAt(i)
		if !ok {
			put(s, 1, y, state.PlaceholderLabel, style(palette.Placeholder))
			putRight(s, y, w, state.PlaceholderTime, style(palette.Placeholder))
			continue
		}
		drawCity(s, y, w, c, false)
	}

	y += 2
	mode := "portrait"
	if snap.LandscapeMode {
		mode = "landscape"
	}
	footer := fmt.Sprintf("%s  frame %d", mode, t.frame.Seq)
	if snap.Clock != nil {
		footer = fmt.Sprintf("%02d:%02d:%02d  %s", snap.Clock.Hour, snap.Clock.Minute, snap.Clock.Second, footer)
	}
	put(s, 1, y, footer, style(palette.Separator))
	s.Show()
}

func drawCity(s tcell.Screen, y, w int, c state.CityTime, home bool) {
	label := style(palette.Label)
	if c.Label == "" {
		label = style(palette.Placeholder)
	}
	x := put(s, 1, y, c.DisplayLabel(), label.Bold(home))
	switch {
	case home:
		put(s, x+1, y, layout.HomeMarker, style(palette.Home))
	case c.Marker() == state.PrevDayMarker:
		put(s, x+1, y, c.Marker().String(), style(palette.PrevDay))
	case c.Marker() == state.NextDayMarker:
		put(s, x+1, y, c.Marker().String(), style(palette.NextDay))
	}
	tm := style(palette.Time)
	if c.Time == "" {
		tm = style(palette.Placeholder)
	}
	putRight(s, y, w, c.DisplayTime(), tm.Bold(home))
}

// put writes text from x and returns the column after it.
func put(s tcell.Screen, x, y int, text string, st tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

func putCentered(s tcell.Screen, y, w int, text string, st tcell.Style) {
	n := len([]rune(text))
	x := (w - n) / 2
	if x < 0 {
		x = 0
	}
	put(s, x, y, text, st)
}

func putRight(s tcell.Screen, y, w int, text string, st tcell.Style) {
	put(s, w-1-len([]rune(text)), y, text, st)
}

func hline(s tcell.Screen, y, w int, st tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, tcell.RuneHLine, nil, st)
	}
}
