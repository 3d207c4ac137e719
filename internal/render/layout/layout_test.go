package layout

import (
	"image"
	"reflect"
	"testing"

	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/state"
)

func fullSnapshot() state.Snapshot {
	return state.Snapshot{
		Date: "THU 24 MAR",
		Home: state.CityTime{Label: "SYDNEY", Time: "09:15"},
		Remote: []state.CityTime{
			{Label: "VANCOUVER", Time: "15:15", PrevDay: true},
			{Label: "LONDON", Time: "23:15", PrevDay: true},
			{Label: "NAIROBI", Time: "01:15"},
			{Label: "DENVER", Time: "16:15", PrevDay: true},
			{Label: "TOKYO", Time: "07:15"},
		},
		Clock: &state.ClockTime{Hour: 9, Minute: 15, Second: 30},
	}
}

func texts(ops render.Ops) []render.Op {
	return ops.Filter(render.OpText)
}

func findText(t *testing.T, ops render.Ops, text string) render.Op {
	t.Helper()
	for _, op := range texts(ops) {
		if op.Text == text {
			return op
		}
	}
	t.Fatalf("expected text %q in frame", text)
	return render.Op{}
}

func countText(ops render.Ops, text string) int {
	n := 0
	for _, op := range texts(ops) {
		if op.Text == text {
			n++
		}
	}
	return n
}

func separators(ops render.Ops, spec Spec) (rows, header, vertical int) {
	for _, op := range ops.Filter(render.OpFillRect) {
		switch {
		case op.Color == spec.Palette.HeaderSeparator && op.Rect.Dy() == 1:
			header++
		case op.Color == spec.Palette.Separator && op.Rect.Dy() == 1:
			rows++
		case op.Color == spec.Palette.Separator && op.Rect.Dx() == 1:
			vertical++
		}
	}
	return rows, header, vertical
}

func TestLayoutsAreDeterministic(t *testing.T) {
	snap := fullSnapshot()
	if a, b := Portrait(PortraitSpec(), snap), Portrait(PortraitSpec(), snap); !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical portrait ops for identical input")
	}
	snap.LandscapeMode = true
	if a, b := Landscape(LandscapeSpec(), snap), Landscape(LandscapeSpec(), snap); !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical landscape ops for identical input")
	}
}

func TestFrameSelectsOrientation(t *testing.T) {
	snap := fullSnapshot()
	spec, _ := Frame(snap)
	if spec.Width != 240 || spec.Height != 320 {
		t.Fatalf("expected portrait 240x320, got %dx%d", spec.Width, spec.Height)
	}
	snap.LandscapeMode = true
	spec, ops := Frame(snap)
	if spec.Width != 320 || spec.Height != 240 {
		t.Fatalf("expected landscape 320x240, got %dx%d", spec.Width, spec.Height)
	}
	if len(ops.Filter(render.OpCircle)) != 1 {
		t.Fatalf("expected the landscape frame to include the clock face")
	}
}

func TestLabelFontThreshold(t *testing.T) {
	for _, spec := range []Spec{PortraitSpec(), LandscapeSpec()} {
		snap := fullSnapshot()
		snap.Home.Label = "WELLINGTN"      // 9
		snap.Remote[2].Label = "WELLINGTON" // 10
		ops := Portrait(spec, snap)
		if spec.PanelWidth > 0 {
			ops = Landscape(spec, snap)
		}

		nine := findText(t, ops, "WELLINGTN").Style.Size
		ten := findText(t, ops, "WELLINGTON").Style.Size
		if nine != spec.Fonts.LabelLarge {
			t.Fatalf("%s: expected 9-char label at %d, got %d", spec.Name, spec.Fonts.LabelLarge, nine)
		}
		if ten >= nine {
			t.Fatalf("%s: expected 10-char label smaller than %d, got %d", spec.Name, nine, ten)
		}
	}
}

func TestLabelThresholdCountsRunes(t *testing.T) {
	spec := PortraitSpec()
	snap := fullSnapshot()
	snap.Remote[0].Label = "ZÜRICHSEE" // 9 runes, 10 bytes
	op := findText(t, Portrait(spec, snap), "ZÜRICHSEE")
	if op.Style.Size != spec.Fonts.LabelLarge {
		t.Fatalf("expected rune count to decide the size, got %d", op.Style.Size)
	}
}

func TestDayMarkersAreExclusive(t *testing.T) {
	spec := PortraitSpec()
	snap := fullSnapshot()
	snap.Remote = []state.CityTime{
		{Label: "BOTH", Time: "00:00", PrevDay: true, NextDay: true},
		{Label: "NEXT", Time: "00:00", NextDay: true},
		{Label: "NONE", Time: "00:00"},
	}
	ops := Portrait(spec, snap)
	if n := countText(ops, "PREV DAY"); n != 1 {
		t.Fatalf("expected exactly one PREV DAY marker, got %d", n)
	}
	if n := countText(ops, "NEXT DAY"); n != 1 {
		t.Fatalf("expected exactly one NEXT DAY marker, got %d", n)
	}
	if op := findText(t, ops, "NEXT DAY"); op.Color != spec.Palette.NextDay {
		t.Fatalf("expected next-day accent colour, got %v", op.Color)
	}
	if op := findText(t, ops, "PREV DAY"); op.Color != spec.Palette.PrevDay {
		t.Fatalf("expected prev-day accent colour, got %v", op.Color)
	}
}

func TestShortRemoteListUsesPlaceholders(t *testing.T) {
	for _, landscape := range []bool{false, true} {
		snap := fullSnapshot()
		snap.LandscapeMode = landscape
		snap.Remote = snap.Remote[:2]
		spec, ops := Frame(snap)

		if n := countText(ops, state.PlaceholderLabel); n != 3 {
			t.Fatalf("%s: expected 3 placeholder labels, got %d", spec.Name, n)
		}
		if n := countText(ops, state.PlaceholderTime); n != 3 {
			t.Fatalf("%s: expected 3 placeholder times, got %d", spec.Name, n)
		}
		findText(t, ops, "SYDNEY")
		findText(t, ops, HomeMarker)
	}
}

func TestEmptySnapshotStillRenders(t *testing.T) {
	ops := Portrait(PortraitSpec(), state.Snapshot{})
	if n := countText(ops, state.PlaceholderTime); n != 1+state.RemoteSlots {
		t.Fatalf("expected every time to be a placeholder, got %d", n)
	}
	if countText(ops, state.PlaceholderDate) == 0 {
		t.Fatalf("expected a date placeholder")
	}
}

func TestPortraitSeparators(t *testing.T) {
	spec := PortraitSpec()
	rows, header, vertical := separators(Portrait(spec, fullSnapshot()), spec)
	if header != 1 {
		t.Fatalf("expected one header separator, got %d", header)
	}
	if rows != state.RemoteSlots {
		t.Fatalf("expected %d row separators between 6 rows, got %d", state.RemoteSlots, rows)
	}
	if vertical != 0 {
		t.Fatalf("expected no divider in portrait, got %d", vertical)
	}
	if spec.Palette.HeaderSeparator == spec.Palette.Separator {
		t.Fatalf("expected header separator to differ from row separators")
	}

	for _, op := range Portrait(spec, fullSnapshot()).Filter(render.OpFillRect) {
		if op.Color == spec.Palette.Separator && op.Rect.Min.Y == spec.HeaderHeight() {
			t.Fatalf("expected no row separator on the header boundary")
		}
	}
}

func TestLandscapeSeparators(t *testing.T) {
	spec := LandscapeSpec()
	snap := fullSnapshot()
	snap.LandscapeMode = true
	rows, header, vertical := separators(Landscape(spec, snap), spec)
	if header != 1 || rows != state.RemoteSlots-1 || vertical != 1 {
		t.Fatalf("expected 1 header, %d row and 1 vertical separator, got %d/%d/%d", state.RemoteSlots-1, header, rows, vertical)
	}
}

func TestLandscapeWithoutClockSkipsFace(t *testing.T) {
	snap := fullSnapshot()
	snap.LandscapeMode = true
	snap.Clock = nil
	ops := Landscape(LandscapeSpec(), snap)
	if len(ops.Filter(render.OpCircle)) != 0 || len(ops.Filter(render.OpLine)) != 0 {
		t.Fatalf("expected no clock geometry without a clock")
	}
	findText(t, ops, "09:15")
}

func TestRowsStayInsideCanvas(t *testing.T) {
	for _, spec := range []Spec{PortraitSpec(), LandscapeSpec()} {
		bounds := image.Rect(0, 0, spec.Width, spec.Height)
		snap := fullSnapshot()
		ops := Portrait(spec, snap)
		if spec.PanelWidth > 0 {
			ops = Landscape(spec, snap)
		}
		for _, op := range texts(ops) {
			if !image.Pt(int(op.X), int(op.Y)).In(bounds) {
				t.Fatalf("%s: text %q anchored outside the canvas at (%v,%v)", spec.Name, op.Text, op.X, op.Y)
			}
			if op.Y+float64(op.Style.Size) > float64(spec.Height) {
				t.Fatalf("%s: text %q runs past the bottom edge", spec.Name, op.Text)
			}
		}
	}
}

func TestHeaderIsCentred(t *testing.T) {
	spec := PortraitSpec()
	ops := Portrait(spec, fullSnapshot())
	for _, text := range []string{Title, "THU 24 MAR"} {
		op := findText(t, ops, text)
		if op.Style.Align != render.TextAlignCenter || int(op.X) != spec.Width/2 {
			t.Fatalf("expected %q centred, got align=%v x=%v", text, op.Style.Align, op.X)
		}
	}
}

func TestRows(t *testing.T) {
	rows := Rows(image.Rect(0, 40, 240, 320), 6, 46)
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[1].Min.Y != 86 || rows[5].Max.Y != 316 {
		t.Fatalf("unexpected row bounds: %v .. %v", rows[1], rows[5])
	}
	clipped := Rows(image.Rect(0, 0, 10, 50), 3, 20)
	if clipped[2].Dy() != 10 {
		t.Fatalf("expected last row clipped to 10, got %d", clipped[2].Dy())
	}
}

func TestWaitingScreen(t *testing.T) {
	spec := PortraitSpec()
	ops := Waiting(spec, "waiting for device", "http://worldclock.local")
	findText(t, ops, Title)
	first := findText(t, ops, "waiting for device")
	second := findText(t, ops, "http://worldclock.local")
	if second.Y <= first.Y {
		t.Fatalf("expected lines to stack downwards")
	}
	if second.Color != spec.Palette.Placeholder {
		t.Fatalf("expected detail lines dimmed, got %v", second.Color)
	}
}

func TestInset(t *testing.T) {
	got := Inset(image.Rect(0, 0, 240, 46), 8, 0)
	if got != image.Rect(8, 0, 232, 46) {
		t.Fatalf("unexpected inset: %v", got)
	}
	collapsed := Inset(image.Rect(0, 0, 10, 10), 20, 20)
	if collapsed.Dx() != 0 || collapsed.Dy() != 0 || collapsed.Min.X != 5 {
		t.Fatalf("expected collapse to centre, got %v", collapsed)
	}
}
