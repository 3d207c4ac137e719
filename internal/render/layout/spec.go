package layout

import (
	"image/color"

	"github.com/rook-computer/clockmirror/internal/render/clockface"
)

// Palette holds every colour a layout uses.
type Palette struct {
	Background      color.RGBA
	Title           color.RGBA
	Date            color.RGBA
	Label           color.RGBA
	Time            color.RGBA
	Placeholder     color.RGBA
	Home            color.RGBA
	PrevDay         color.RGBA
	NextDay         color.RGBA
	Separator       color.RGBA
	HeaderSeparator color.RGBA
}

// FontSizes are logical pixel sizes. Labels longer than LabelThreshold
// runes use LabelSmall.
type FontSizes struct {
	Title          int
	Date           int
	LabelLarge     int
	LabelSmall     int
	LabelThreshold int
	Time           int
	HomeTime       int
	Marker         int
}

// Spec fixes one orientation's geometry. All values are logical pixels.
type Spec struct {
	Name   string
	Width  int
	Height int

	TitleHeight int
	DateHeight  int
	Pad         int

	// Portrait: home plus remote rows share RowHeight.
	// Landscape: only the remote column uses it.
	RowHeight int

	// Landscape only.
	PanelWidth   int
	Clock        clockface.Geometry
	ClockPalette clockface.Palette

	Fonts   FontSizes
	Palette Palette
}

// HeaderHeight is the title band plus the date band.
func (s Spec) HeaderHeight() int { return s.TitleHeight + s.DateHeight }

// LabelSize applies the long-label font policy.
func (s Spec) LabelSize(runes int) int {
	if runes > s.Fonts.LabelThreshold {
		return s.Fonts.LabelSmall
	}
	return s.Fonts.LabelLarge
}

// The device drives an RGB565 panel; colours are expanded the same way
// its screenshot dump does so captures compare exactly.
func rgb565(v uint16) color.RGBA {
	return color.RGBA{
		R: uint8((v >> 11 & 0x1F) << 3),
		G: uint8((v >> 5 & 0x3F) << 2),
		B: uint8((v & 0x1F) << 3),
		A: 0xFF,
	}
}

var devicePalette = Palette{
	Background:      rgb565(0x0000),
	Title:           rgb565(0xFFFF),
	Date:            rgb565(0x07E0),
	Label:           rgb565(0xFFFF),
	Time:            rgb565(0x07E0),
	Placeholder:     rgb565(0x7BEF),
	Home:            rgb565(0x07FF),
	PrevDay:         rgb565(0xFFE0),
	NextDay:         rgb565(0xFDA0),
	Separator:       rgb565(0x39E7),
	HeaderSeparator: rgb565(0xD69A),
}

const (
	labelThreshold = 9

	titleHeight = 22
	dateHeight  = 18
	pad         = 8
)

// PortraitSpec is the 240x320 layout: header then six equal rows, home first.
func PortraitSpec() Spec {
	return Spec{
		Name:        "portrait",
		Width:       240,
		Height:      320,
		TitleHeight: titleHeight,
		DateHeight:  dateHeight,
		Pad:         pad,
		RowHeight:   46,
		Fonts: FontSizes{
			Title:          14,
			Date:           13,
			LabelLarge:     16,
			LabelSmall:     12,
			LabelThreshold: labelThreshold,
			Time:           24,
			HomeTime:       24,
			Marker:         9,
		},
		Palette: devicePalette,
	}
}

// LandscapeSpec is the 320x240 layout: header, a home panel with the analog
// clock on the left and the remote column on the right.
func LandscapeSpec() Spec {
	return Spec{
		Name:        "landscape",
		Width:       320,
		Height:      240,
		TitleHeight: titleHeight,
		DateHeight:  dateHeight,
		Pad:         pad,
		RowHeight:   40,
		PanelWidth:  140,
		Clock: clockface.Geometry{
			CenterX:         70,
			CenterY:         160,
			Radius:          50,
			FaceWidth:       2,
			TickLength:      5,
			MajorTickLength: 9,
			TickWidth:       1,
			MajorTickWidth:  3,
			HourLength:      26,
			MinuteLength:    38,
			SecondLength:    44,
			HourWidth:       4,
			MinuteWidth:     3,
			SecondWidth:     1,
			DotRadius:       3,
		},
		ClockPalette: clockface.Palette{
			Face:   rgb565(0xD69A),
			Ticks:  rgb565(0xFFFF),
			Hour:   rgb565(0xFFFF),
			Minute: rgb565(0xFFFF),
			Second: rgb565(0xF800),
			Dot:    rgb565(0xF800),
		},
		Fonts: FontSizes{
			Title:          14,
			Date:           12,
			LabelLarge:     14,
			LabelSmall:     11,
			LabelThreshold: labelThreshold,
			Time:           20,
			HomeTime:       20,
			Marker:         9,
		},
		Palette: devicePalette,
	}
}
