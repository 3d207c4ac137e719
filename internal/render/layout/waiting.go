package layout

import (
	"image"

	"github.com/rook-computer/clockmirror/internal/render"
)

// Waiting is shown on local outputs until the first snapshot arrives. Lines
// are centred below the title, one per row.
func Waiting(spec Spec, lines ...string) render.Ops {
	var ops render.Ops
	background(&ops, spec)
	p := spec.Palette
	ops.Text(Title, spec.Width/2, vcenter(0, spec.TitleHeight, spec.Fonts.Title), style(p.Title, spec.Fonts.Title, render.TextAlignCenter))
	bottom := spec.HeaderHeight()
	ops.FillRect(image.Rect(0, bottom-1, spec.Width, bottom), p.HeaderSeparator)

	size := spec.Fonts.Marker + 2
	y := bottom + spec.Pad*2
	for i, line := range lines {
		c := p.Label
		if i > 0 {
			c = p.Placeholder
		}
		ops.Text(line, spec.Width/2, y, style(c, size, render.TextAlignCenter))
		y += size + spec.Pad
	}
	return ops
}
