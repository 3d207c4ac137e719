package render

import (
	"context"
	"image"
	"sync"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/clockmirror/internal/state"
)

// FBOutput shows mirror frames on a local Linux framebuffer, scaled
// nearest-neighbour to the device bounds so pixels stay crisp.
type FBOutput struct {
	Path   string
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	mu    sync.Mutex
	fbDev *fb.Device
}

func NewFBOutput(path string) *FBOutput {
	if path == "" {
		path = "/dev/fb0"
	}
	return &FBOutput{Path: path}
}

func (o *FBOutput) Start(ctx context.Context) error {
	dev, err := fb.Open(o.Path)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.fbDev = dev
	o.mu.Unlock()
	if o.Logger != nil {
		bounds := dev.Bounds()
		o.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", o.Path, bounds.Dx(), bounds.Dy())
	}
	return nil
}

func (o *FBOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fbDev != nil {
		o.fbDev.Close()
		o.fbDev = nil
	}
	return nil
}

func (o *FBOutput) Name() string { return "framebuffer" }

// Present blits one finished frame.
func (o *FBOutput) Present(frame state.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fbDev == nil || frame.Image == nil {
		return nil
	}
	blit(o.fbDev, frame.Image)
	return nil
}

func blit(dst xdraw.Image, frame *image.RGBA) {
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
}
