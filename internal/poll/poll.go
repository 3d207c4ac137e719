// Package poll drives the fetch-render cycle.
package poll

import (
	"context"
	"time"

	"github.com/rook-computer/clockmirror/internal/state"
)

const DefaultInterval = 2 * time.Second

// Fetcher returns the device's current snapshot.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (state.Snapshot, error)
}

// Renderer consumes one snapshot. It runs synchronously inside the cycle.
type Renderer interface {
	Render(snap state.Snapshot) error
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(snap state.Snapshot) error

func (f RenderFunc) Render(snap state.Snapshot) error { return f(snap) }

// Scheduler fetches a snapshot, renders it, then waits Interval measured from
// completion. Fetch and render never overlap.
type Scheduler struct {
	Fetcher  Fetcher
	Renderer Renderer
	Interval time.Duration
	Logger   interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	// OnFailure, when set, is told about every skipped cycle.
	OnFailure func(err error)

	// Refresh cuts the current wait short; a send triggers the next cycle
	// immediately.
	Refresh <-chan struct{}

	// Wait blocks for d or until ctx is done. Nil uses a timer that also
	// honours Refresh.
	Wait func(ctx context.Context, d time.Duration) error
}

// Run cycles until ctx is cancelled and returns ctx.Err(). Individual
// failures only skip their frame.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	wait := s.Wait
	if wait == nil {
		wait = func(ctx context.Context, d time.Duration) error { return sleep(ctx, d, s.Refresh) }
	}
	if s.Logger != nil {
		s.Logger.Infof("poll", "polling every %s", interval)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if s.Logger != nil {
				s.Logger.Errorf("poll", "cycle skipped: %v", err)
			}
			if s.OnFailure != nil {
				s.OnFailure(err)
			}
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
}

// Cycle runs one fetch and, on success, one render.
func (s *Scheduler) Cycle(ctx context.Context) error {
	snap, err := s.Fetcher.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	return s.Renderer.Render(snap)
}

func sleep(ctx context.Context, d time.Duration, refresh <-chan struct{}) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	case <-refresh:
		return nil
	}
}
