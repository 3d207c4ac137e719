//go:build !unix

package main

import (
	"fmt"
	"os"
	"time"
)

// Runtime panics still go to the original stderr here; only Go-level
// prints follow the reassigned files.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "=== clockmirror pid %d started %s ===\n", os.Getpid(), time.Now().Format(time.RFC3339))
	os.Stdout = f
	os.Stderr = f
	return nil
}
