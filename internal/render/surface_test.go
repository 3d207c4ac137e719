package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

var (
	testRed   = color.RGBA{R: 0xFF, A: 0xFF}
	testWhite = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

func TestSurfaceScalesLogicalSize(t *testing.T) {
	s := NewSurface(nil)
	if !s.Ensure(320, 240, 1.5) {
		t.Fatalf("expected first Ensure to allocate")
	}
	if w, h := s.PixelSize(); w != 480 || h != 360 {
		t.Fatalf("expected 480x360 pixels, got %dx%d", w, h)
	}
	if w, h := s.Size(); w != 320 || h != 240 {
		t.Fatalf("expected logical 320x240, got %dx%d", w, h)
	}

	// Logical (300,220)-(320,240) must land on pixels (450,330)-(480,360).
	s.FillRect(image.Rect(300, 220, 320, 240), testRed)
	img := s.Image()
	if got := img.RGBAAt(479, 359); got != testRed {
		t.Fatalf("expected bottom-right pixel filled, got %v", got)
	}
	if got := img.RGBAAt(455, 335); got != testRed {
		t.Fatalf("expected scaled rect interior filled, got %v", got)
	}
	if got := img.RGBAAt(449, 329); got == testRed {
		t.Fatalf("expected pixel outside scaled rect to stay clear")
	}
}

func TestSurfaceEnsureOnlyReallocatesOnChange(t *testing.T) {
	s := NewSurface(nil)
	s.Ensure(240, 320, 1)
	first := s.Image()
	s.FillRect(image.Rect(0, 0, 10, 10), testRed)

	if s.Ensure(240, 320, 1) {
		t.Fatalf("expected Ensure with unchanged size not to reallocate")
	}
	if s.Image() != first {
		t.Fatalf("expected the same canvas to be kept")
	}
	if got := s.Image().RGBAAt(5, 5); got != testRed {
		t.Fatalf("expected previous pixels to survive, got %v", got)
	}

	if !s.Ensure(320, 240, 1) {
		t.Fatalf("expected orientation change to reallocate")
	}
	if w, h := s.PixelSize(); w != 320 || h != 240 {
		t.Fatalf("expected 320x240 after switch, got %dx%d", w, h)
	}
}

func TestSurfaceClampsScale(t *testing.T) {
	s := NewSurface(nil)
	s.Ensure(100, 100, 0)
	if s.Scale() != DefaultScale {
		t.Fatalf("expected default scale for zero, got %v", s.Scale())
	}
	s.Ensure(100, 100, 100)
	if s.Scale() != MaxScale {
		t.Fatalf("expected scale clamped to %v, got %v", MaxScale, s.Scale())
	}
}

func TestSurfaceTextAlignment(t *testing.T) {
	s := NewSurface(nil)
	s.Ensure(200, 40, 1)
	style := TextStyle{Color: testWhite, Size: 16}
	m := s.MeasureText("88:88", style)
	if m.Width <= 0 || m.Height <= 0 {
		t.Fatalf("expected positive metrics, got %+v", m)
	}

	right := TextStyle{Color: testWhite, Size: 16, Align: TextAlignRight}
	s.DrawText("88:88", 192, 4, right)
	if !inkInColumns(s.Image(), 192-m.Width, 192) {
		t.Fatalf("expected right-aligned text to end at x=192")
	}
	if inkInColumns(s.Image(), 193, 200) {
		t.Fatalf("expected no ink right of the anchor")
	}
}

func TestSurfaceTextWidthIsScaleIndependent(t *testing.T) {
	s := NewSurface(nil)
	s.Ensure(200, 40, 1)
	small := s.MeasureText("LONDON", TextStyle{Size: 16})
	s.Ensure(200, 40, 2)
	scaled := s.MeasureText("LONDON", TextStyle{Size: 16})
	if diff := small.Width - scaled.Width; diff > 3 || diff < -3 {
		t.Fatalf("expected logical width to be scale independent, got %d vs %d", small.Width, scaled.Width)
	}
}

func TestSurfaceStrokes(t *testing.T) {
	s := NewSurface(nil)
	s.Ensure(100, 100, 1)
	s.DrawLine(10, 50, 90, 50, 3, testRed)
	if got := s.Image().RGBAAt(50, 50); got.R < 0x80 {
		t.Fatalf("expected line pixel to be painted, got %v", got)
	}

	s.Ensure(100, 100, 1)
	s.FillRect(image.Rect(0, 0, 100, 100), color.RGBA{A: 0xFF})
	s.DrawCircle(50, 50, 30, 2, testWhite)
	if got := s.Image().RGBAAt(80, 50); got.R < 0x80 {
		t.Fatalf("expected ring pixel to be painted, got %v", got)
	}
	if got := s.Image().RGBAAt(50, 50); got.R != 0 {
		t.Fatalf("expected circle centre to stay clear, got %v", got)
	}

	s.FillDisc(50, 50, 4, testRed)
	if got := s.Image().RGBAAt(50, 50); got.R < 0x80 {
		t.Fatalf("expected disc centre to be painted, got %v", got)
	}
}

func TestFrameIsACopy(t *testing.T) {
	s := NewSurface(nil)
	s.Ensure(10, 10, 1)
	frame := s.Frame()
	s.FillRect(image.Rect(0, 0, 10, 10), testRed)
	if got := frame.RGBAAt(1, 1); got == testRed {
		t.Fatalf("expected frame copy to be independent of the canvas")
	}
}

func TestEncodePPM(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, testRed)
	img.SetRGBA(1, 0, testWhite)

	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatalf("EncodePPM() error: %v", err)
	}
	want := append([]byte("P6\n2 1\n255\n"), 0xFF, 0, 0, 0xFF, 0xFF, 0xFF)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("unexpected ppm bytes: %v", buf.Bytes())
	}
}

func inkInColumns(img *image.RGBA, x0, x1 int) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := x0; x < x1 && x < b.Max.X; x++ {
			if x < b.Min.X {
				continue
			}
			if img.RGBAAt(x, y).A != 0 {
				return true
			}
		}
	}
	return false
}
