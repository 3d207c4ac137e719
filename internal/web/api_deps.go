package web

import (
	"context"
	"errors"
	"time"

	"github.com/rook-computer/clockmirror/internal/state"
)

// FrameSource provides the latest mirror frame.
type FrameSource interface {
	Latest() (state.Frame, bool)
	PNG() (data []byte, etag string, seq uint64, ok bool)
}

// StatusSource provides mirror health counters.
type StatusSource interface {
	Snapshot() state.MirrorStatus
}

// DeviceForwarder relays a request to the clock and returns its raw reply.
//
// The concrete implementation is *device.Client.
type DeviceForwarder interface {
	Forward(ctx context.Context, method, path string, body []byte) (status int, contentType string, data []byte, err error)
}

// sysLogger matches the logging shape used across the app.
// It is intentionally tiny so callers can pass existing loggers without adapters.
type sysLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type APIV1Deps struct {
	Frames FrameSource
	Status StatusSource
	Device DeviceForwarder

	// DeviceAddr and ConsoleURL are reported by /status; ConsoleURL is also
	// the default QR payload.
	DeviceAddr   string
	ConsoleURL   string
	PollInterval time.Duration

	Logger sysLogger
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Frames == nil {
		out.Frames = NewFrameHolder()
	}
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.Device == nil {
		out.Device = NoopDeviceForwarder{Err: errors.New("device not configured")}
	}
	if out.Logger == nil {
		out.Logger = noopSysLogger{}
	}
	return out
}

type NoopDeviceForwarder struct{ Err error }

func (f NoopDeviceForwarder) Forward(context.Context, string, string, []byte) (int, string, []byte, error) {
	if f.Err != nil {
		return 0, "", nil, f.Err
	}
	return 0, "", nil, errors.New("device not configured")
}

type noopSysLogger struct{}

func (noopSysLogger) Infof(string, string, ...interface{})  {}
func (noopSysLogger) Errorf(string, string, ...interface{}) {}
