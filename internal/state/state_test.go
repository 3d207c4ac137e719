package state

import (
	"errors"
	"image"
	"testing"
	"time"
)

func TestStoreCountsFramesAndFailures(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 24, 9, 15, 0, 0, time.UTC)

	store.RecordFailure(now, errors.New("unreachable"))
	store.RecordFailure(now.Add(time.Second), errors.New("timeout"))
	st := store.Snapshot()
	if st.Failures != 2 || st.ConsecutiveFailures != 2 || st.LastError != "timeout" {
		t.Fatalf("unexpected status after failures: %+v", st)
	}

	store.RecordFrame(Frame{
		Seq:      1,
		Hash:     42,
		At:       now.Add(2 * time.Second),
		Snapshot: Snapshot{LandscapeMode: true},
		Image:    image.NewRGBA(image.Rect(0, 0, 480, 360)),
	})
	st = store.Snapshot()
	if st.Frames != 1 || st.ConsecutiveFailures != 0 {
		t.Fatalf("expected a frame to reset the failure streak: %+v", st)
	}
	if st.LastError != "timeout" {
		t.Fatalf("expected the last error to be kept, got %q", st.LastError)
	}
	if !st.Landscape || st.SurfaceWidth != 480 || st.SurfaceHeight != 360 || st.LastHash != 42 {
		t.Fatalf("unexpected frame fields: %+v", st)
	}

	store.RecordUnchanged(now.Add(4 * time.Second))
	if st = store.Snapshot(); st.Unchanged != 1 || st.Frames != 1 {
		t.Fatalf("expected unchanged render to be counted separately: %+v", st)
	}
}
