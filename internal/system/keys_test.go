package system

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func inputEvent(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestKeyPresses(t *testing.T) {
	const tv = 16
	var buf []byte
	buf = append(buf, inputEvent(tv, evKey, KeyF5, 1)...)
	buf = append(buf, inputEvent(tv, evKey, KeyF5, 0)...) // release
	buf = append(buf, inputEvent(tv, 0x00, 0, 0)...)      // EV_SYN
	buf = append(buf, inputEvent(tv, evKey, KeyF4, 2)...) // autorepeat
	buf = append(buf, inputEvent(tv, evKey, KeyF4, 1)...)
	buf = append(buf, 0x01, 0x02) // partial

	got := keyPresses(buf, tv)
	if want := []uint16{KeyF5, KeyF4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

type recordingLogger struct{ infos, errors []string }

func (l *recordingLogger) Infof(c, f string, args ...interface{})  { l.infos = append(l.infos, c+": "+f) }
func (l *recordingLogger) Errorf(c, f string, args ...interface{}) { l.errors = append(l.errors, c+": "+f) }

func TestLogResult(t *testing.T) {
	l := &recordingLogger{}
	if err := logResult(l, nil, "cursor hidden", "hide cursor failed"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(l.infos) != 1 || len(l.errors) != 0 {
		t.Fatalf("expected one info line, got %+v", l)
	}
	if err := logResult(l, errNoTTY, "ok", "failed"); err != errNoTTY {
		t.Fatalf("expected error passed through, got %v", err)
	}
	if len(l.errors) != 1 {
		t.Fatalf("expected one error line, got %+v", l)
	}
}

var errNoTTY = errorString("no tty")

type errorString string

func (e errorString) Error() string { return string(e) }
