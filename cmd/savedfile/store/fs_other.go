//go:build !unix && !windows

package store

import "os"

func IsCrossDevice(error) bool { return false }

func syncFile(f *os.File) error { return f.Sync() }
