// Package clockface computes the analog clock shown in landscape mode.
//
// Angles are in degrees with 0 at the 12 o'clock position, increasing
// clockwise, matching how the device draws its face.
package clockface

import (
	"image/color"
	"math"

	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/state"
)

// Geometry is the static face layout in logical pixels.
type Geometry struct {
	CenterX, CenterY float64
	Radius           float64
	FaceWidth        float64

	TickLength      float64
	MajorTickLength float64
	TickWidth       float64
	MajorTickWidth  float64

	HourLength, MinuteLength, SecondLength float64
	HourWidth, MinuteWidth, SecondWidth    float64

	DotRadius float64
}

type Palette struct {
	Face   color.RGBA
	Ticks  color.RGBA
	Hour   color.RGBA
	Minute color.RGBA
	Second color.RGBA
	Dot    color.RGBA
}

type Angles struct {
	Hour   float64
	Minute float64
	Second float64
}

// HandAngles converts raw time components to hand angles. The hour hand
// moves half a degree per minute so it sweeps smoothly between hours.
func HandAngles(hour, minute, second int) Angles {
	return Angles{
		Hour:   float64(hour%12)*30 + float64(minute)*0.5,
		Minute: float64(minute) * 6,
		Second: float64(second) * 6,
	}
}

// Endpoint returns the point length away from (cx, cy) at angle degrees.
func Endpoint(cx, cy, length, angle float64) (float64, float64) {
	rad := angle * math.Pi / 180
	return cx + length*math.Sin(rad), cy - length*math.Cos(rad)
}

// Draw appends the face, ticks, hands and centre dot to ops. A nil clock
// draws nothing.
func Draw(ops *render.Ops, g Geometry, p Palette, clock *state.ClockTime) {
	if clock == nil {
		return
	}
	ops.Circle(g.CenterX, g.CenterY, g.Radius, g.FaceWidth, p.Face)

	for i := 0; i < 12; i++ {
		length, width := g.TickLength, g.TickWidth
		if i%3 == 0 {
			length, width = g.MajorTickLength, g.MajorTickWidth
		}
		angle := float64(i) * 30
		x0, y0 := Endpoint(g.CenterX, g.CenterY, g.Radius-length, angle)
		x1, y1 := Endpoint(g.CenterX, g.CenterY, g.Radius, angle)
		ops.Line(x0, y0, x1, y1, width, p.Ticks)
	}

	// Shortest first so the longer hands end up on top.
	a := HandAngles(clock.Hour, clock.Minute, clock.Second)
	hand(ops, g, g.HourLength, g.HourWidth, a.Hour, p.Hour)
	hand(ops, g, g.MinuteLength, g.MinuteWidth, a.Minute, p.Minute)
	hand(ops, g, g.SecondLength, g.SecondWidth, a.Second, p.Second)

	ops.Disc(g.CenterX, g.CenterY, g.DotRadius, p.Dot)
}

func hand(ops *render.Ops, g Geometry, length, width, angle float64, c color.RGBA) {
	x, y := Endpoint(g.CenterX, g.CenterY, length, angle)
	ops.Line(g.CenterX, g.CenterY, x, y, width, c)
}
