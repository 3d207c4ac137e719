package app

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rook-computer/clockmirror/internal/state"
)

type flakyFetcher struct {
	calls atomic.Int32
}

func (f *flakyFetcher) FetchSnapshot(ctx context.Context) (state.Snapshot, error) {
	if f.calls.Add(1) == 1 {
		return state.Snapshot{}, errors.New("connection refused")
	}
	return sydney(), nil
}

type lifecycleOutput struct {
	recordingOutput
	started, stopped atomic.Bool
}

func (o *lifecycleOutput) Start(ctx context.Context) error { o.started.Store(true); return nil }
func (o *lifecycleOutput) Stop() error                     { o.stopped.Store(true); return nil }

func TestAppMirrorsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &lifecycleOutput{}
	out.notify = make(chan state.Frame, 8)
	store := state.NewStore()
	fetcher := &flakyFetcher{}
	a := New(store, fetcher, NewMirror(1, store, out), nil)
	a.Interval = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case frame := <-out.notify:
			if frame.Placeholder {
				continue
			}
		case <-deadline:
			t.Fatalf("expected a real frame after the first failure")
		}
		break
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !out.started.Load() || !out.stopped.Load() {
		t.Fatalf("expected lifecycle output to be started and stopped")
	}
	if st := store.Snapshot(); st.Failures < 1 || st.Frames < 1 {
		t.Fatalf("expected the failure and the frame to be recorded: %+v", st)
	}
}

func TestAppExitStopsStart(t *testing.T) {
	store := state.NewStore()
	a := New(store, &flakyFetcher{}, NewMirror(1, store), nil)
	a.Interval = time.Hour

	done := make(chan error, 1)
	go func() { done <- a.Start(context.Background()) }()

	a.Exit(nil)
	a.Exit(errors.New("ignored second exit"))
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil from Exit(nil), got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected Start to return after Exit")
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("poll", "polling every %s", 2*time.Second)
	l.Errorf("web", "listen %s", ":8080")

	pattern := regexp.MustCompile(`^\S+ \[INFO\] poll: polling every 2s\n\S+ \[ERROR\] web: listen :8080\n$`)
	if !pattern.MatchString(buf.String()) {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}
