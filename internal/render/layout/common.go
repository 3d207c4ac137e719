package layout

import (
	"image"
	"image/color"

	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/state"
)

// Title is the fixed header text.
const Title = "WORLD CLOCK"

// HomeMarker is drawn beneath the home label.
const HomeMarker = "HOME"

const (
	labelTop  = 4
	markerGap = 4
)

// Frame picks the layout for the snapshot's orientation and builds its
// instruction list.
func Frame(snap state.Snapshot) (Spec, render.Ops) {
	if snap.LandscapeMode {
		spec := LandscapeSpec()
		return spec, Landscape(spec, snap)
	}
	spec := PortraitSpec()
	return spec, Portrait(spec, snap)
}

func style(c color.RGBA, size int, align render.TextAlign) render.TextStyle {
	return render.TextStyle{Color: c, Size: size, Align: align, Bold: true}
}

// vcenter returns the top y that centres a line of size px in a band.
func vcenter(top, height, size int) int {
	return top + (height-size)/2
}

func background(ops *render.Ops, spec Spec) {
	ops.FillRect(image.Rect(0, 0, spec.Width, spec.Height), spec.Palette.Background)
}

func header(ops *render.Ops, spec Spec, snap state.Snapshot) {
	p := spec.Palette
	cx := spec.Width / 2
	ops.Text(Title, cx, vcenter(0, spec.TitleHeight, spec.Fonts.Title), style(p.Title, spec.Fonts.Title, render.TextAlignCenter))
	ops.Text(snap.DisplayDate(), cx, vcenter(spec.TitleHeight, spec.DateHeight, spec.Fonts.Date), style(p.Date, spec.Fonts.Date, render.TextAlignCenter))

	bottom := spec.HeaderHeight()
	ops.FillRect(image.Rect(0, bottom-1, spec.Width, bottom), p.HeaderSeparator)
}

// rowSeparator draws the one-pixel rule on the top edge of row.
func rowSeparator(ops *render.Ops, spec Spec, row image.Rectangle) {
	ops.FillRect(image.Rect(row.Min.X, row.Min.Y, row.Max.X, row.Min.Y+1), spec.Palette.Separator)
}

type rowContent struct {
	label       string
	labelRunes  int
	labelColor  color.RGBA
	time        string
	timeColor   color.RGBA
	timeSize    int
	marker      string
	markerColor color.RGBA
}

func homeContent(spec Spec, home state.CityTime) rowContent {
	p := spec.Palette
	return rowContent{
		label:       home.DisplayLabel(),
		labelRunes:  home.LabelLen(),
		labelColor:  p.Label,
		time:        home.DisplayTime(),
		timeColor:   p.Time,
		timeSize:    spec.Fonts.HomeTime,
		marker:      HomeMarker,
		markerColor: p.Home,
	}
}

// remoteContent fills absent slots with placeholders.
func remoteContent(spec Spec, snap state.Snapshot, i int) rowContent {
	p := spec.Palette
	city, ok := snap.RemoteAt(i)
	if !ok {
		return rowContent{
			label:      state.PlaceholderLabel,
			labelRunes: len(state.PlaceholderLabel),
			labelColor: p.Placeholder,
			time:       state.PlaceholderTime,
			timeColor:  p.Placeholder,
			timeSize:   spec.Fonts.Time,
		}
	}
	row := rowContent{
		label:      city.DisplayLabel(),
		labelRunes: city.LabelLen(),
		labelColor: p.Label,
		time:       city.DisplayTime(),
		timeColor:  p.Time,
		timeSize:   spec.Fonts.Time,
	}
	switch city.Marker() {
	case state.PrevDayMarker:
		row.marker, row.markerColor = city.Marker().String(), p.PrevDay
	case state.NextDayMarker:
		row.marker, row.markerColor = city.Marker().String(), p.NextDay
	}
	return row
}

// cityRow draws the label top-left, the marker beneath it and the time
// right-aligned and vertically centred.
func cityRow(ops *render.Ops, spec Spec, rect image.Rectangle, row rowContent) {
	labelSize := spec.LabelSize(row.labelRunes)
	inner := Inset(rect, spec.Pad, 0)
	ops.Text(row.label, inner.Min.X, inner.Min.Y+labelTop, style(row.labelColor, labelSize, render.TextAlignLeft))
	if row.marker != "" {
		ops.Text(row.marker, inner.Min.X, inner.Min.Y+labelTop+labelSize+markerGap, style(row.markerColor, spec.Fonts.Marker, render.TextAlignLeft))
	}
	ops.Text(row.time, inner.Max.X, vcenter(inner.Min.Y, inner.Dy(), row.timeSize), style(row.timeColor, row.timeSize, render.TextAlignRight))
}
