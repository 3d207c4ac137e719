//go:build unix

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// redirectStdIO points fds 1 and 2 at path. A run marker is written first so
// consecutive runs appending to the same file can be told apart.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintf(f, "=== clockmirror pid %d started %s ===\n", os.Getpid(), time.Now().Format(time.RFC3339))

	// Dup2 rather than reassigning os.Stdout so runtime panics from any
	// goroutine land in the file too.
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stderr.Fd())} {
		if err := unix.Dup2(int(f.Fd()), fd); err != nil {
			return fmt.Errorf("dup2 onto fd %d: %w", fd, err)
		}
	}
	return nil
}
