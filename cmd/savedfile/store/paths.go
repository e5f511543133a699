package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appFolder    = ".savedfile"
	registryName = "savedfile.json"
	filesFolder  = "files"
)

// HomeDir returns the user's home directory as reported by the platform
// environment variable (USERPROFILE on Windows, HOME elsewhere).
// An unset variable yields "", and every path derived from it is relative.
func HomeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}

// JoinHome returns HomeDir()/.savedfile/segment.
func JoinHome(segment string) string {
	return filepath.Join(HomeDir(), appFolder, segment)
}

// Paths is the on-disk layout of a registry rooted at Root.
type Paths struct {
	Root string
}

// DefaultPaths returns the layout under the user's home directory.
func DefaultPaths() Paths {
	return Paths{Root: JoinHome("")}
}

// RegistryFile is the JSON document holding every entry.
func (p Paths) RegistryFile() string {
	return filepath.Join(p.Root, registryName)
}

// FilesDir is the storage directory holding one stored copy per entry.
func (p Paths) FilesDir() string {
	return filepath.Join(p.Root, filesFolder)
}
