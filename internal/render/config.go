package render

// Render configuration shared by every surface.
const (
	// DefaultScale maps one logical pixel to one output pixel.
	DefaultScale = 1.0
	MinScale     = 0.5
	MaxScale     = 4.0

	// DefaultTextSize is used when a TextStyle leaves Size at zero.
	DefaultTextSize = 12

	// Circle outlines and discs are approximated by polygons; the segment
	// count follows the on-screen radius within these bounds.
	minCircleSegments = 24
	maxCircleSegments = 180
)

// ClampScale keeps a configured scale inside the supported range.
func ClampScale(scale float64) float64 {
	if scale <= 0 {
		return DefaultScale
	}
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
