package store

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

var linkFile = os.Link

// SetLinker replaces the function used to create hard links and returns a
// func restoring the previous one. It lets callers simulate filesystems that
// refuse links.
func SetLinker(fn func(oldname, newname string) error) (restore func()) {
	prev := linkFile
	linkFile = fn
	return func() { linkFile = prev }
}

// Store copies the entry's source into dir under Key() and records the copy
// as the entry's stored path.
func (e *Entry) Store(dir string) error {
	to, err := e.Copy(dir)
	if err != nil {
		return err
	}
	e.StoredPath = &to
	log.Debug().Str("key", e.Key()).Str("stored", to).Msg("stored file")
	return nil
}

// Copy creates dir (and its parents), copies the entry's source to
// dir/Key() and returns that path.
func (e Entry) Copy(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ioError("create directory", dir, err)
	}
	to := filepath.Join(dir, e.Key())
	if err := copyFile(e.source(), to); err != nil {
		return "", err
	}
	return to, nil
}

// CopyFile copies the entry's source to exactly dest, creating dest's parent
// directories. An existing file at dest is overwritten.
func (e Entry) CopyFile(dest string) error {
	if parent := filepath.Dir(dest); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return ioError("create directory", parent, err)
		}
	}
	return copyFile(e.source(), dest)
}

// Link creates a hard link at to pointing at the entry's source. It fails
// when to already exists or the filesystem refuses the link; callers are
// expected to fall back to CopyFile.
func (e Entry) Link(to string) error {
	from := e.source()
	if err := linkFile(from, to); err != nil {
		log.Debug().Err(err).Str("from", from).Str("to", to).
			Bool("cross_device", IsCrossDevice(err)).Msg("hard link refused")
		return ioError("link", to, err)
	}
	log.Debug().Str("from", from).Str("to", to).Msg("linked file")
	return nil
}

// Refresh copies the original file over the stored copy in dir, recording
// the stored path if the entry had none.
func (e *Entry) Refresh(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError("create directory", dir, err)
	}
	to := filepath.Join(dir, e.Key())
	if err := copyFile(e.OriginalPath, to); err != nil {
		return err
	}
	e.StoredPath = &to
	log.Debug().Str("key", e.Key()).Str("original", e.OriginalPath).Msg("refreshed stored file")
	return nil
}

// copyFile streams src into dst. When both names already refer to the same
// file (a hard link or the same path) nothing is written, since truncating
// dst would destroy src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return ioError("open source", src, err)
	}
	defer in.Close()

	if srcInfo, err := in.Stat(); err == nil {
		if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
			return nil
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return ioError("create destination", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return ioError("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return ioError("close", dst, err)
	}
	return nil
}
