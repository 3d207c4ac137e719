package render

import (
	"image"
	"image/color"
)

// Drawer is the primitive set layouts are played onto. All coordinates are
// logical; implementations apply their own scale.
type Drawer interface {
	// Size returns the logical canvas size that layouts draw into.
	Size() (width int, height int)

	FillRect(rect image.Rectangle, c color.Color)

	MeasureText(text string, style TextStyle) TextMetrics
	DrawText(text string, x, y int, style TextStyle) TextMetrics

	DrawLine(x0, y0, x1, y1, width float64, c color.Color)
	DrawCircle(cx, cy, radius, width float64, c color.Color)
	FillDisc(cx, cy, radius float64, c color.Color)
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
// Coordinates for DrawText use a top-left anchor for Y.
// For X, Align controls how x is interpreted.
type TextStyle struct {
	Color color.Color
	Size  int // font size in logical pixels; 0 means DefaultTextSize
	Align TextAlign
	Bold  bool
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}
