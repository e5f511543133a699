//go:build windows

package store

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// IsCrossDevice reports whether err is a hard link refused because source
// and target live on different volumes.
func IsCrossDevice(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}

// syncFile flushes the file's buffers to disk.
func syncFile(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
