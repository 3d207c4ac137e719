package publish

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/clockmirror/internal/state"
)

func sampleFrame() state.Frame {
	return state.Frame{
		Seq:  7,
		Hash: 0xbeef,
		At:   time.Date(2026, 3, 24, 9, 30, 0, 0, time.UTC),
		Snapshot: state.Snapshot{
			Date: "TUE 24 MAR",
			Home: state.CityTime{Label: "London", Time: "09:30"},
			Remote: []state.CityTime{
				{Label: "Sydney", Time: "20:30", NextDay: true},
				{Time: "04:30"},
			},
			Clock: &state.ClockTime{Hour: 9, Minute: 30},
		},
	}
}

func TestNewFrameEvent(t *testing.T) {
	ev := NewFrameEvent(sampleFrame())
	if ev.Seq != 7 || ev.Hash != "beef" || ev.Date != "TUE 24 MAR" || ev.Landscape {
		t.Fatalf("unexpected header fields: %+v", ev)
	}
	if ev.Home.Label != "London" || ev.Home.Marker != "" {
		t.Fatalf("unexpected home: %+v", ev.Home)
	}
	if len(ev.Remote) != 2 {
		t.Fatalf("expected 2 remote cities, got %d", len(ev.Remote))
	}
	if ev.Remote[0].Marker != "NEXT DAY" {
		t.Fatalf("expected next day marker, got %q", ev.Remote[0].Marker)
	}
	if ev.Remote[1].Label != state.PlaceholderLabel {
		t.Fatalf("expected placeholder label, got %q", ev.Remote[1].Label)
	}
	if ev.Clock == nil || ev.Clock.Hour != 9 {
		t.Fatalf("expected clock to be carried")
	}
}

func TestPresentPublishesToTopic(t *testing.T) {
	out := NewMQTTOutput(Options{Broker: "localhost", Topic: "clock/frame"})
	var gotTopic string
	var gotPayload []byte
	out.send = func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, payload
		return nil
	}

	if err := out.Present(sampleFrame()); err != nil {
		t.Fatalf("Present() error: %v", err)
	}
	if gotTopic != "clock/frame" {
		t.Fatalf("unexpected topic %q", gotTopic)
	}
	var ev FrameEvent
	if err := json.Unmarshal(gotPayload, &ev); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if ev.Seq != 7 || ev.Home.Time != "09:30" {
		t.Fatalf("unexpected payload: %s", gotPayload)
	}
	if !strings.Contains(string(gotPayload), `"landscape":false`) {
		t.Fatalf("expected landscape field in payload: %s", gotPayload)
	}
}

func TestPresentSkipsPlaceholderAndUnconnected(t *testing.T) {
	out := NewMQTTOutput(Options{Topic: "t"})
	if err := out.Present(sampleFrame()); err != nil {
		t.Fatalf("expected unconnected output to ignore frames, got %v", err)
	}

	calls := 0
	out.send = func(string, []byte) error { calls++; return errors.New("broker down") }
	frame := sampleFrame()
	frame.Placeholder = true
	if err := out.Present(frame); err != nil || calls != 0 {
		t.Fatalf("expected waiting frame to be skipped, err=%v calls=%d", err, calls)
	}
	if err := out.Present(sampleFrame()); err == nil {
		t.Fatalf("expected send error to surface")
	}
}

func TestNewMQTTOutputDefaults(t *testing.T) {
	out := NewMQTTOutput(Options{Broker: "b", Topic: "t"})
	if out.Options.Port != 1883 || !strings.HasPrefix(out.Options.ClientID, "clockmirror-") {
		t.Fatalf("unexpected defaults: %+v", out.Options)
	}
	if out.Name() != "mqtt" {
		t.Fatalf("unexpected name %q", out.Name())
	}
	if err := out.Stop(); err != nil {
		t.Fatalf("Stop() before Start: %v", err)
	}
}
