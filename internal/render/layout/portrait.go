package layout

import (
	"image"

	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/state"
)

// Portrait builds the portrait frame: header, then the home row followed by
// the remote rows, all the same height.
func Portrait(spec Spec, snap state.Snapshot) render.Ops {
	var ops render.Ops
	background(&ops, spec)
	header(&ops, spec, snap)

	_, body := SplitHorizontal(image.Rect(0, 0, spec.Width, spec.Height), spec.HeaderHeight())
	rows := Rows(body, 1+state.RemoteSlots, spec.RowHeight)
	for i, rect := range rows {
		if i > 0 {
			rowSeparator(&ops, spec, rect)
		}
		if i == 0 {
			cityRow(&ops, spec, rect, homeContent(spec, snap.Home))
			continue
		}
		cityRow(&ops, spec, rect, remoteContent(spec, snap, i-1))
	}
	return ops
}
