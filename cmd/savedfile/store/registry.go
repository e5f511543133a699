// Package store is the savedfile registry: the entry index, its JSON
// persistence and the file operations that store and materialize entries.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry is the index of every saved file, keyed by Entry.Key().
//
// The map is guarded by mu. Every mutation is committed in memory first and
// the whole map is then rewritten to disk without holding mu; writeMu orders
// those rewrites so the file always ends with the latest snapshot.
type Registry struct {
	path       string
	syncWrites bool

	mu      sync.Mutex
	entries map[string]Entry

	writeMu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithSyncWrites makes every flush fsync the registry file before closing it.
func WithSyncWrites(enabled bool) Option {
	return func(r *Registry) {
		r.syncWrites = enabled
	}
}

// NewRegistry returns an empty registry persisted at path.
func NewRegistry(path string, opts ...Option) *Registry {
	r := &Registry{
		path:    path,
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// Load replaces the in-memory state with the registry file's contents.
// A missing file means no registry yet and is not an error; a malformed one
// is, and leaves the in-memory state untouched.
func (r *Registry) Load() error {
	info, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		log.Debug().Str("path", r.path).Msg("no registry file, starting empty")
		return nil
	}
	if err != nil {
		return persistenceError("stat registry", r.path, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return persistenceError("read registry", r.path, err)
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return persistenceError("parse registry", r.path, err)
	}
	if entries == nil {
		entries = make(map[string]Entry)
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()

	log.Debug().Str("path", r.path).Int("entries", len(entries)).Msg("loaded registry")
	return nil
}

// All returns a snapshot of every entry in no particular order.
func (r *Registry) All() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// Find looks up the entry sharing query's key.
func (r *Registry) Find(query Entry) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[query.Key()]
	return e, ok
}

// Add inserts entry unless its key is already present, in which case the
// existing entry is kept unchanged. The registry is persisted either way.
func (r *Registry) Add(entry Entry) error {
	key := entry.Key()

	r.mu.Lock()
	if _, exists := r.entries[key]; exists {
		log.Debug().Str("key", key).Msg("key already registered, keeping existing entry")
	} else {
		r.entries[key] = entry
	}
	r.mu.Unlock()

	return r.flush()
}

// Remove deletes the entry sharing entry's key, if any, and persists.
func (r *Registry) Remove(entry Entry) error {
	r.mu.Lock()
	delete(r.entries, entry.Key())
	r.mu.Unlock()

	return r.flush()
}

// flush rewrites the whole registry file from a snapshot of the map.
// The file is created then written in place, so a crash mid-write can leave
// it truncated.
func (r *Registry) flush() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	snapshot := maps.Clone(r.entries)
	r.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return persistenceError("encode registry", r.path, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError("create directory", dir, err)
	}
	f, err := os.Create(r.path)
	if err != nil {
		return ioError("create registry", r.path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return ioError("write registry", r.path, err)
	}
	if r.syncWrites {
		if err := syncFile(f); err != nil {
			f.Close()
			return ioError("sync registry", r.path, err)
		}
	}
	if err := f.Close(); err != nil {
		return ioError("close registry", r.path, err)
	}

	log.Debug().Str("path", r.path).Int("entries", len(snapshot)).Msg("wrote registry")
	return nil
}
