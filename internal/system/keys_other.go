//go:build !linux

package system

import "context"

// WatchKeys is a no-op without evdev.
func WatchKeys(ctx context.Context, l logger, bindings map[uint16]func()) {
	if l != nil && len(bindings) > 0 {
		l.Infof("input", "key bindings need linux evdev; ignored")
	}
}
