package render

import (
	"image"
	"image/color"
)

type OpKind uint8

const (
	OpFillRect OpKind = iota + 1
	OpText
	OpLine
	OpCircle
	OpDisc
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill-rect"
	case OpText:
		return "text"
	case OpLine:
		return "line"
	case OpCircle:
		return "circle"
	case OpDisc:
		return "disc"
	default:
		return "unknown"
	}
}

// Op is one recorded draw instruction. Which fields are meaningful depends on
// Kind: Rect for fills; X/Y plus Text/Style for text; X/Y/X2/Y2/Width for
// lines; X/Y/Radius (and Width for outlines) for circles and discs.
type Op struct {
	Kind   OpKind
	Rect   image.Rectangle
	X, Y   float64
	X2, Y2 float64
	Radius float64
	Width  float64
	Color  color.RGBA
	Text   string
	Style  TextStyle
}

// Ops is an ordered instruction list. Layout engines build one per frame so
// the frame can be compared in tests without rasterising it.
type Ops []Op

func (ops *Ops) FillRect(rect image.Rectangle, c color.RGBA) {
	*ops = append(*ops, Op{Kind: OpFillRect, Rect: rect, Color: c})
}

func (ops *Ops) Text(text string, x, y int, style TextStyle) {
	if style.Color == nil {
		style.Color = color.RGBA{A: 0xFF}
	}
	*ops = append(*ops, Op{Kind: OpText, X: float64(x), Y: float64(y), Text: text, Style: style, Color: toRGBA(style.Color)})
}

func (ops *Ops) Line(x0, y0, x1, y1, width float64, c color.RGBA) {
	*ops = append(*ops, Op{Kind: OpLine, X: x0, Y: y0, X2: x1, Y2: y1, Width: width, Color: c})
}

func (ops *Ops) Circle(cx, cy, radius, width float64, c color.RGBA) {
	*ops = append(*ops, Op{Kind: OpCircle, X: cx, Y: cy, Radius: radius, Width: width, Color: c})
}

func (ops *Ops) Disc(cx, cy, radius float64, c color.RGBA) {
	*ops = append(*ops, Op{Kind: OpDisc, X: cx, Y: cy, Radius: radius, Color: c})
}

// Filter returns the instructions of the given kind, in order.
func (ops Ops) Filter(kind OpKind) Ops {
	var out Ops
	for _, op := range ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Play replays the list onto d in order.
func (ops Ops) Play(d Drawer) {
	for _, op := range ops {
		switch op.Kind {
		case OpFillRect:
			d.FillRect(op.Rect, op.Color)
		case OpText:
			d.DrawText(op.Text, int(op.X), int(op.Y), op.Style)
		case OpLine:
			d.DrawLine(op.X, op.Y, op.X2, op.Y2, op.Width, op.Color)
		case OpCircle:
			d.DrawCircle(op.X, op.Y, op.Radius, op.Width, op.Color)
		case OpDisc:
			d.FillDisc(op.X, op.Y, op.Radius, op.Color)
		}
	}
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
