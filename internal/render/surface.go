package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/freetype/raster"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Surface is an offscreen RGBA canvas with a uniform logical-to-pixel scale.
// It implements Drawer; callers draw in logical coordinates only.
type Surface struct {
	canvas     *image.RGBA
	rasterizer *raster.Rasterizer
	painter    *raster.RGBAPainter
	fonts      *Fonts

	width  int
	height int
	scale  float64
}

func NewSurface(fonts *Fonts) *Surface {
	if fonts == nil {
		fonts = NewFonts()
	}
	return &Surface{fonts: fonts, scale: DefaultScale}
}

// Ensure provisions the canvas for a logical size at the given scale. The
// pixel buffer is only reallocated when its pixel dimensions change, since
// reallocation discards the previous frame. It reports whether it did.
func (s *Surface) Ensure(width, height int, scale float64) bool {
	scale = ClampScale(scale)
	pixelWidth := int(math.Round(float64(width) * scale))
	pixelHeight := int(math.Round(float64(height) * scale))

	s.width = width
	s.height = height
	s.scale = scale

	if s.canvas != nil && s.canvas.Bounds().Dx() == pixelWidth && s.canvas.Bounds().Dy() == pixelHeight {
		return false
	}
	s.canvas = image.NewRGBA(image.Rect(0, 0, pixelWidth, pixelHeight))
	s.rasterizer = raster.NewRasterizer(pixelWidth, pixelHeight)
	s.painter = raster.NewRGBAPainter(s.canvas)
	return true
}

// Size returns the logical size.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// PixelSize returns the canvas size in output pixels.
func (s *Surface) PixelSize() (int, int) {
	if s.canvas == nil {
		return 0, 0
	}
	return s.canvas.Bounds().Dx(), s.canvas.Bounds().Dy()
}

func (s *Surface) Scale() float64 { return s.scale }

// Image exposes the live canvas. It is overwritten by the next frame.
func (s *Surface) Image() *image.RGBA { return s.canvas }

// Frame returns a copy of the canvas that outputs may keep.
func (s *Surface) Frame() *image.RGBA {
	if s.canvas == nil {
		return nil
	}
	out := image.NewRGBA(s.canvas.Bounds())
	copy(out.Pix, s.canvas.Pix)
	return out
}

func (s *Surface) px(v float64) float64 { return v * s.scale }

func (s *Surface) point(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(s.px(x) * 64)),
		Y: fixed.Int26_6(math.Round(s.px(y) * 64)),
	}
}

func (s *Surface) FillRect(rect image.Rectangle, c color.Color) {
	if s.canvas == nil {
		return
	}
	scaled := image.Rect(
		int(math.Round(s.px(float64(rect.Min.X)))),
		int(math.Round(s.px(float64(rect.Min.Y)))),
		int(math.Round(s.px(float64(rect.Max.X)))),
		int(math.Round(s.px(float64(rect.Max.Y)))),
	)
	draw.Draw(s.canvas, scaled, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func (s *Surface) face(style TextStyle) font.Face {
	size := style.Size
	if size <= 0 {
		size = DefaultTextSize
	}
	return s.fonts.Face(s.px(float64(size)), style.Bold)
}

func (s *Surface) MeasureText(text string, style TextStyle) TextMetrics {
	face := s.face(style)
	return s.metrics(face, font.MeasureString(face, text))
}

func (s *Surface) metrics(face font.Face, advance fixed.Int26_6) TextMetrics {
	m := face.Metrics()
	logical := func(v fixed.Int26_6) int {
		return int(math.Ceil(float64(v) / 64 / s.scale))
	}
	return TextMetrics{
		Width:      logical(advance),
		Height:     logical(m.Ascent + m.Descent),
		Ascent:     logical(m.Ascent),
		Descent:    logical(m.Descent),
		LineHeight: logical(m.Height),
	}
}

func (s *Surface) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	face := s.face(style)
	advance := font.MeasureString(face, text)
	metrics := s.metrics(face, advance)
	if s.canvas == nil {
		return metrics
	}

	fg := style.Color
	if fg == nil {
		fg = color.White
	}
	dot := s.point(float64(x), float64(y))
	switch style.Align {
	case TextAlignCenter:
		dot.X -= advance / 2
	case TextAlignRight:
		dot.X -= advance
	}
	dot.Y += face.Metrics().Ascent

	drawer := &font.Drawer{Dst: s.canvas, Src: image.NewUniform(fg), Face: face, Dot: dot}
	drawer.DrawString(text)
	return metrics
}

func (s *Surface) DrawLine(x0, y0, x1, y1, width float64, c color.Color) {
	if s.canvas == nil {
		return
	}
	var path raster.Path
	path.Start(s.point(x0, y0))
	path.Add1(s.point(x1, y1))
	s.rasterizer.Clear()
	raster.Stroke(s.rasterizer, path, s.strokeWidth(width), raster.ButtCapper, raster.RoundJoiner)
	s.paint(c)
}

// DrawCircle draws an outline of the given width centred on radius. The ring
// is filled as two concentric polygons under the even-odd rule.
func (s *Surface) DrawCircle(cx, cy, radius, width float64, c color.Color) {
	if s.canvas == nil || radius <= 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	inner := radius - width/2
	outer := radius + width/2
	s.rasterizer.Clear()
	s.rasterizer.UseNonZeroWinding = false
	s.addPolygon(cx, cy, outer)
	if inner > 0 {
		s.addPolygon(cx, cy, inner)
	}
	s.paint(c)
}

func (s *Surface) FillDisc(cx, cy, radius float64, c color.Color) {
	if s.canvas == nil || radius <= 0 {
		return
	}
	s.rasterizer.Clear()
	s.addPolygon(cx, cy, radius)
	s.paint(c)
}

func (s *Surface) addPolygon(cx, cy, radius float64) {
	segments := int(math.Ceil(s.px(radius)))
	if segments < minCircleSegments {
		segments = minCircleSegments
	}
	if segments > maxCircleSegments {
		segments = maxCircleSegments
	}
	start := s.point(cx+radius, cy)
	s.rasterizer.Start(start)
	for i := 1; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		s.rasterizer.Add1(s.point(cx+radius*math.Cos(theta), cy+radius*math.Sin(theta)))
	}
	s.rasterizer.Add1(start)
}

func (s *Surface) strokeWidth(width float64) fixed.Int26_6 {
	if width <= 0 {
		width = 1
	}
	return fixed.Int26_6(math.Round(s.px(width) * 64))
}

func (s *Surface) paint(c color.Color) {
	s.painter.SetColor(c)
	s.rasterizer.Rasterize(s.painter)
}
