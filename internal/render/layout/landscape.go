package layout

import (
	"image"

	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/render/clockface"
	"github.com/rook-computer/clockmirror/internal/state"
)

// Landscape builds the landscape frame: header across the top, home city and
// analog clock in the left panel, remote rows stacked on the right.
func Landscape(spec Spec, snap state.Snapshot) render.Ops {
	var ops render.Ops
	background(&ops, spec)
	header(&ops, spec, snap)

	_, body := SplitHorizontal(image.Rect(0, 0, spec.Width, spec.Height), spec.HeaderHeight())
	left, right := SplitVertical(body, spec.PanelWidth)
	ops.FillRect(image.Rect(right.Min.X, right.Min.Y, right.Min.X+1, right.Max.Y), spec.Palette.Separator)
	right.Min.X++

	homePanel(&ops, spec, left, snap.Home)
	clockface.Draw(&ops, spec.Clock, spec.ClockPalette, snap.Clock)

	for i, rect := range Rows(right, state.RemoteSlots, spec.RowHeight) {
		if i > 0 {
			rowSeparator(&ops, spec, rect)
		}
		cityRow(&ops, spec, rect, remoteContent(spec, snap, i))
	}
	return ops
}

// homePanel stacks label and marker on the left with the time right-aligned
// below the label line, leaving the lower part of the panel to the clock.
func homePanel(ops *render.Ops, spec Spec, panel image.Rectangle, home state.CityTime) {
	row := homeContent(spec, home)
	labelSize := spec.LabelSize(row.labelRunes)
	inner := Inset(panel, spec.Pad, 0)
	y := inner.Min.Y + labelTop

	ops.Text(row.label, inner.Min.X, y, style(row.labelColor, labelSize, render.TextAlignLeft))
	ops.Text(row.marker, inner.Min.X, y+labelSize+markerGap, style(row.markerColor, spec.Fonts.Marker, render.TextAlignLeft))
	ops.Text(row.time, inner.Max.X, y+labelSize+markerGap+spec.Fonts.Marker+markerGap, style(row.timeColor, row.timeSize, render.TextAlignRight))
}
