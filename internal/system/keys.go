package system

import "encoding/binary"

// Linux input-event-codes.h
const (
	evKey = 0x01

	KeyF4 uint16 = 62
	KeyF5 uint16 = 63
)

// keyPresses parses a buffer of input_event records and returns the codes of
// key-down events in order. Trailing partial records are ignored.
func keyPresses(buf []byte, tvSize int) []uint16 {
	eventSize := tvSize + 2 + 2 + 4
	var out []uint16
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && value == 1 {
			out = append(out, code)
		}
	}
	return out
}
