package state

import (
	"errors"
	"fmt"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// RemoteSlots is the fixed number of remote city rows on the device screen.
const RemoteSlots = 5

// Placeholder text for fields the device did not deliver.
const (
	PlaceholderLabel = "---"
	PlaceholderTime  = "--:--"
	PlaceholderDate  = "---"
)

// ErrMalformedSnapshot is returned for payloads that cannot be rendered.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CityTime is one city's display text as computed on the device.
type CityTime struct {
	Label   string `json:"label"`
	Time    string `json:"time"`
	PrevDay bool   `json:"prevDay"`
	NextDay bool   `json:"nextDay"`
}

// DisplayLabel returns the label, or the placeholder when it is empty.
func (c CityTime) DisplayLabel() string {
	if c.Label == "" {
		return PlaceholderLabel
	}
	return c.Label
}

// DisplayTime returns the time string, or the placeholder when it is empty.
func (c CityTime) DisplayTime() string {
	if c.Time == "" {
		return PlaceholderTime
	}
	return c.Time
}

// LabelLen counts the label in runes, which is what the font threshold uses.
func (c CityTime) LabelLen() int {
	return utf8.RuneCountInString(c.DisplayLabel())
}

// DayMarker is the day-offset marker drawn under a city label.
type DayMarker int

const (
	NoMarker DayMarker = iota
	PrevDayMarker
	NextDayMarker
)

func (m DayMarker) String() string {
	switch m {
	case PrevDayMarker:
		return "PREV DAY"
	case NextDayMarker:
		return "NEXT DAY"
	default:
		return ""
	}
}

// Marker resolves the day flags to at most one marker. PrevDay wins when the
// device reports both.
func (c CityTime) Marker() DayMarker {
	switch {
	case c.PrevDay:
		return PrevDayMarker
	case c.NextDay:
		return NextDayMarker
	default:
		return NoMarker
	}
}

// ClockTime carries the raw components for the analog face.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

func (c ClockTime) validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("clock hour %d out of range", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("clock minute %d out of range", c.Minute)
	}
	if c.Second < 0 || c.Second > 59 {
		return fmt.Errorf("clock second %d out of range", c.Second)
	}
	return nil
}

// Snapshot is one poll result. It is a value type; renderers only read it.
type Snapshot struct {
	Date          string     `json:"date"`
	LandscapeMode bool       `json:"landscapeMode"`
	Home          CityTime   `json:"home"`
	Remote        []CityTime `json:"remote"`
	Clock         *ClockTime `json:"clock,omitempty"`
}

// DisplayDate returns the date line, or the placeholder when it is empty.
func (s Snapshot) DisplayDate() string {
	if s.Date == "" {
		return PlaceholderDate
	}
	return s.Date
}

// RemoteAt returns remote slot i and whether the device delivered it.
func (s Snapshot) RemoteAt(i int) (CityTime, bool) {
	if i < 0 || i >= len(s.Remote) || i >= RemoteSlots {
		return CityTime{}, false
	}
	return s.Remote[i], true
}

type wireSnapshot struct {
	Date          string     `json:"date"`
	LandscapeMode bool       `json:"landscapeMode"`
	Home          *CityTime  `json:"home"`
	Remote        []CityTime `json:"remote"`
	Clock         *ClockTime `json:"clock"`
}

// DecodeSnapshot parses a device payload. Unparseable JSON, a missing home
// city, or clock components out of range yield ErrMalformedSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var wire wireSnapshot
	if err := json.Unmarshal(data, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if wire.Home == nil {
		return Snapshot{}, fmt.Errorf("%w: missing home", ErrMalformedSnapshot)
	}
	if wire.Clock != nil {
		if err := wire.Clock.validate(); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
	}

	remote := wire.Remote
	if len(remote) > RemoteSlots {
		remote = remote[:RemoteSlots]
	}
	snap := Snapshot{
		Date:          wire.Date,
		LandscapeMode: wire.LandscapeMode,
		Home:          *wire.Home,
		Remote:        append([]CityTime(nil), remote...),
	}
	if wire.Clock != nil {
		clock := *wire.Clock
		snap.Clock = &clock
	}
	return snap, nil
}

// EncodeSnapshot is the inverse of DecodeSnapshot; the simulator serves it.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}
