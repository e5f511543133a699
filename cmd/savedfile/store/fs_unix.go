//go:build unix

package store

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// IsCrossDevice reports whether err is a hard link refused because source
// and target live on different filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// syncFile flushes the file's data to stable storage.
func syncFile(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
