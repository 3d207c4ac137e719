package render

import (
	"fmt"
	"image"
	"image/color"
	"reflect"
	"testing"
)

type traceDrawer struct {
	calls []string
}

func (d *traceDrawer) Size() (int, int) { return 240, 320 }

func (d *traceDrawer) FillRect(rect image.Rectangle, c color.Color) {
	d.calls = append(d.calls, fmt.Sprintf("fill %v", rect))
}

func (d *traceDrawer) MeasureText(text string, style TextStyle) TextMetrics {
	return TextMetrics{Width: len(text) * style.Size}
}

func (d *traceDrawer) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	d.calls = append(d.calls, fmt.Sprintf("text %q %d,%d size=%d align=%d", text, x, y, style.Size, style.Align))
	return d.MeasureText(text, style)
}

func (d *traceDrawer) DrawLine(x0, y0, x1, y1, width float64, c color.Color) {
	d.calls = append(d.calls, fmt.Sprintf("line %g,%g-%g,%g w=%g", x0, y0, x1, y1, width))
}

func (d *traceDrawer) DrawCircle(cx, cy, radius, width float64, c color.Color) {
	d.calls = append(d.calls, fmt.Sprintf("circle %g,%g r=%g w=%g", cx, cy, radius, width))
}

func (d *traceDrawer) FillDisc(cx, cy, radius float64, c color.Color) {
	d.calls = append(d.calls, fmt.Sprintf("disc %g,%g r=%g", cx, cy, radius))
}

func TestOpsPlayPreservesOrder(t *testing.T) {
	var ops Ops
	ops.FillRect(image.Rect(0, 0, 240, 320), color.RGBA{A: 0xFF})
	ops.Text("WORLD CLOCK", 120, 4, TextStyle{Size: 14, Align: TextAlignCenter})
	ops.Line(0, 40, 240, 40, 1, color.RGBA{A: 0xFF})
	ops.Circle(70, 170, 50, 2, color.RGBA{A: 0xFF})
	ops.Disc(70, 170, 3, color.RGBA{A: 0xFF})

	d := &traceDrawer{}
	ops.Play(d)

	want := []string{
		"fill (0,0)-(240,320)",
		`text "WORLD CLOCK" 120,4 size=14 align=1`,
		"line 0,40-240,40 w=1",
		"circle 70,170 r=50 w=2",
		"disc 70,170 r=3",
	}
	if !reflect.DeepEqual(d.calls, want) {
		t.Fatalf("unexpected replay:\n got %v\nwant %v", d.calls, want)
	}
}

func TestOpsTextRecordsColour(t *testing.T) {
	var ops Ops
	ops.Text("LONDON", 8, 44, TextStyle{Color: color.White, Size: 16})
	if got := ops[0].Color; got != (color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Fatalf("expected white text colour, got %v", got)
	}
	if len(ops.Filter(OpText)) != 1 || len(ops.Filter(OpLine)) != 0 {
		t.Fatalf("unexpected filter result")
	}
}

func TestClampScale(t *testing.T) {
	cases := map[float64]float64{-1: DefaultScale, 0: DefaultScale, 0.1: MinScale, 1.5: 1.5, 9: MaxScale}
	for in, want := range cases {
		if got := ClampScale(in); got != want {
			t.Fatalf("ClampScale(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestBlitScalesToDestination(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 0xFF, A: 0xFF})
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	blit(dst, src)
	if got := dst.RGBAAt(3, 3); got.R != 0xFF {
		t.Fatalf("expected bottom-right quadrant scaled up, got %v", got)
	}
	if got := dst.RGBAAt(0, 0); got.R != 0 {
		t.Fatalf("expected top-left to stay clear, got %v", got)
	}
}
