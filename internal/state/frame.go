package state

import (
	"image"
	"time"
)

// Frame is one finished mirror image together with the snapshot it shows.
// Image is owned by the frame; outputs must not modify it.
type Frame struct {
	Seq      uint64
	Hash     uint64
	At       time.Time
	Snapshot Snapshot
	Image    *image.RGBA

	// Placeholder marks the waiting screen rather than a device snapshot.
	Placeholder bool

	// Logical canvas size; Image is this times the render scale.
	Width  int
	Height int
}
