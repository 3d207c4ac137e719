package state

import (
	"sync"
	"time"
)

// MirrorStatus describes how the mirror is keeping up with the device.
type MirrorStatus struct {
	StartedAt           time.Time
	Frames              uint64
	Unchanged           uint64
	Failures            uint64
	ConsecutiveFailures int
	LastError           string
	LastErrorAt         time.Time
	LastFrameAt         time.Time
	LastSeq             uint64
	LastHash            uint64
	Landscape           bool
	SurfaceWidth        int
	SurfaceHeight       int
}

type Store struct {
	mu     sync.RWMutex
	status MirrorStatus
}

func NewStore() *Store {
	return &Store{status: MirrorStatus{StartedAt: time.Now()}}
}

func (store *Store) Snapshot() MirrorStatus {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.status
}

// RecordFrame notes a rendered frame that differed from the previous one.
// LastError is kept so the operator can still see what went wrong most
// recently.
func (store *Store) RecordFrame(frame Frame) {
	store.mu.Lock()
	store.status.Frames++
	store.status.ConsecutiveFailures = 0
	store.status.LastFrameAt = frame.At
	store.status.LastSeq = frame.Seq
	store.status.LastHash = frame.Hash
	store.status.Landscape = frame.Snapshot.LandscapeMode
	if frame.Image != nil {
		store.status.SurfaceWidth = frame.Image.Bounds().Dx()
		store.status.SurfaceHeight = frame.Image.Bounds().Dy()
	}
	store.mu.Unlock()
}

// RecordUnchanged notes a render that produced the same pixels as before.
func (store *Store) RecordUnchanged(at time.Time) {
	store.mu.Lock()
	store.status.Unchanged++
	store.status.ConsecutiveFailures = 0
	store.status.LastFrameAt = at
	store.mu.Unlock()
}

func (store *Store) RecordFailure(at time.Time, err error) {
	store.mu.Lock()
	store.status.Failures++
	store.status.ConsecutiveFailures++
	store.status.LastErrorAt = at
	if err != nil {
		store.status.LastError = err.Error()
	}
	store.mu.Unlock()
}
