package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/clockmirror/internal/poll"
	"github.com/rook-computer/clockmirror/internal/state"
	"github.com/rook-computer/clockmirror/internal/system"
	"github.com/rook-computer/clockmirror/internal/web"
)

// Lifecycle is implemented by outputs that hold resources, such as the
// framebuffer or an MQTT connection.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop() error
}

type App struct {
	Store   *state.Store
	Fetcher poll.Fetcher
	Mirror  *Mirror
	Web     web.Server
	Logger  Logger

	Interval   time.Duration
	DeviceAddr string

	// GraphicsMode switches the local console to KD_GRAPHICS while running,
	// so the kernel cursor does not blink over framebuffer output.
	GraphicsMode bool

	exitOnce atomic.Bool
	exitCh   chan error
	refresh  chan struct{}
}

func New(store *state.Store, fetcher poll.Fetcher, mirror *Mirror, webServer web.Server) *App {
	return &App{Store: store, Fetcher: fetcher, Mirror: mirror, Web: webServer, Logger: NoopLogger{}, exitCh: make(chan error, 1), refresh: make(chan struct{}, 1)}
}

// Refresh asks the poll loop to fetch now instead of waiting out the interval.
func (app *App) Refresh() {
	if app.refresh == nil {
		return
	}
	select {
	case app.refresh <- struct{}{}:
	default:
	}
}

// Exit requests the app to stop running.
// Any output can call this to terminate the process via the generic codepath.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.refresh == nil {
		app.refresh = make(chan struct{}, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Mirror == nil {
		app.Mirror = NewMirror(0, app.Store)
	}
	if app.Store == nil {
		app.Store = app.Mirror.Store
	}
	app.Mirror.Logger = app.Logger

	for _, out := range app.Mirror.Outputs {
		lc, ok := out.(Lifecycle)
		if !ok {
			continue
		}
		if err := lc.Start(ctx); err != nil {
			app.Logger.Errorf("app", "output %s start error: %v", out.Name(), err)
			return fmt.Errorf("start %s output: %w", out.Name(), err)
		}
		defer func(name string, lc Lifecycle) {
			if err := lc.Stop(); err != nil {
				app.Logger.Errorf("app", "output %s stop error: %v", name, err)
			}
		}(out.Name(), lc)
	}

	if app.GraphicsMode {
		// Switch console to KD_GRAPHICS to suppress hardware cursor
		if err := system.SetGraphicsModeWithLog(app.Logger); err != nil {
			app.Logger.Errorf("tty", "set graphics mode failed: %v", err)
		}
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()

		// Kiosk keys: F4 quits, F5 polls immediately.
		system.WatchKeys(ctx, app.Logger, map[uint16]func(){
			system.KeyF4: func() { app.Exit(nil) },
			system.KeyF5: app.Refresh,
		})
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("app", "web start error: %v", err)
			return err
		}
		defer app.Web.Stop()
	}

	// Give local outputs something to show before the first poll returns.
	app.Mirror.Waiting("waiting for device", app.DeviceAddr)

	scheduler := &poll.Scheduler{
		Fetcher:  app.Fetcher,
		Renderer: app.Mirror,
		Interval: app.Interval,
		Logger:   app.Logger,
		Refresh:  app.refresh,
		OnFailure: func(err error) {
			app.Store.RecordFailure(time.Now(), err)
			app.Mirror.Waiting("waiting for device", app.DeviceAddr, err.Error())
		},
	}

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = scheduler.Run(loopCtx)
	}()

	// Wait for completion (requested by an output), then exit.
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	return err
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct{ w io.Writer }

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	writeLog(l.w, "INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	writeLog(l.w, "ERROR", component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
