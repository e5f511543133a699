package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"savedfile/cmd/savedfile/store"
)

// fallbackSaveName is used when the source path has no usable base name.
const fallbackSaveName = appName

// register validates source, stores a copy of it under name/version and adds
// the entry to reg.
func register(reg *store.Registry, filesDir, name, version, source string) (store.Entry, error) {
	if err := store.ValidateName(name); err != nil {
		return store.Entry{}, err
	}
	if err := store.ValidateVersion(version); err != nil {
		return store.Entry{}, err
	}

	info, err := os.Stat(source)
	if errors.Is(err, os.ErrNotExist) {
		err = errors.New("file does not exist")
	}
	if err != nil {
		return store.Entry{}, &store.Error{Kind: store.ErrValidation, Op: "register", Path: source, Err: err}
	}
	if !info.Mode().IsRegular() {
		return store.Entry{}, &store.Error{Kind: store.ErrValidation, Op: "register", Path: source,
			Err: errors.New("not a regular file")}
	}

	original, err := canonicalize(source)
	if err != nil {
		return store.Entry{}, &store.Error{Kind: store.ErrIO, Op: "canonicalize", Path: source, Err: err}
	}

	entry := store.NewEntry(name, version)
	entry.OriginalPath = original
	entry.DefaultSaveName = saveNameFor(source)

	if strings.Contains(name, "-") {
		log.Warn().Str("name", name).
			Msg("names containing '-' can share a key with another name's version (name-version)")
	}
	if reg.Has(entry.Key()) {
		log.Warn().Str("key", entry.Key()).
			Msg("already registered: the stored copy is refreshed, the existing record is kept")
	}

	if err := entry.Store(filesDir); err != nil {
		return store.Entry{}, err
	}
	if err := reg.Add(entry); err != nil {
		return store.Entry{}, err
	}
	return entry, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func saveNameFor(path string) string {
	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return fallbackSaveName
	}
	return base
}

// materialized describes the outcome of materialize.
type materialized struct {
	Entry  store.Entry
	Path   string
	Linked bool
	// LinkErr is the refused link that caused a fallback to copying.
	LinkErr error
}

// materialize reproduces a saved file at dest (the entry's default save name
// when empty): a hard link unless preferCopy, falling back to a copy when the
// link is refused.
func materialize(reg *store.Registry, name, version, dest string, preferCopy bool) (materialized, error) {
	entry, err := lookup(reg, name, version)
	if err != nil {
		return materialized{}, err
	}
	if dest == "" {
		dest = entry.DefaultSaveName
	}

	res := materialized{Entry: entry, Path: dest}
	if !preferCopy {
		err := entry.Link(dest)
		if err == nil {
			res.Linked = true
			return res, nil
		}
		res.LinkErr = err
		log.Warn().Err(err).Str("key", entry.Key()).Msg("link refused, copying instead")
	}

	if err := entry.CopyFile(dest); err != nil {
		return res, err
	}
	return res, nil
}

// lookup returns the entry for name/version, or a not-found error.
func lookup(reg *store.Registry, name, version string) (store.Entry, error) {
	query := store.NewEntry(name, version)
	entry, ok := reg.Find(query)
	if !ok {
		return store.Entry{}, store.NotFound(query.Key())
	}
	return entry, nil
}

// forget removes the entry for name/version from reg and returns it.
func forget(reg *store.Registry, name, version string) (store.Entry, error) {
	entry, err := lookup(reg, name, version)
	if err != nil {
		return store.Entry{}, err
	}
	if err := reg.Remove(entry); err != nil {
		return store.Entry{}, err
	}
	return entry, nil
}

// purgeStored deletes the entry's stored copy. A copy that is already gone
// is not an error.
func purgeStored(entry store.Entry) error {
	if !entry.IsStored() {
		return nil
	}
	if err := os.Remove(*entry.StoredPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &store.Error{Kind: store.ErrIO, Op: "remove stored copy", Path: *entry.StoredPath, Err: err}
	}
	return nil
}

// replaceWithLink swaps the original file for a hard link to the stored
// copy. The link is created beside the original and renamed over it, so the
// original survives a refused link.
func replaceWithLink(entry store.Entry) error {
	tmp := entry.OriginalPath + "." + appName + "-link"
	_ = os.Remove(tmp)
	if err := entry.Link(tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, entry.OriginalPath); err != nil {
		_ = os.Remove(tmp)
		return &store.Error{Kind: store.ErrIO, Op: "replace original", Path: entry.OriginalPath, Err: err}
	}
	return nil
}

// fileGroup summarizes every variant registered under one name.
type fileGroup struct {
	Name       string   `json:"name" yaml:"name"`
	HasDefault bool     `json:"has_default" yaml:"has_default"`
	Versions   []string `json:"versions" yaml:"versions"`
}

// listAll groups reg's entries by name, optionally keeping only nameFilter.
// Groups and their versions are sorted.
func listAll(reg *store.Registry, nameFilter string) []fileGroup {
	byName := make(map[string]*fileGroup)
	for _, e := range reg.All() {
		if nameFilter != "" && e.Name != nameFilter {
			continue
		}
		g, ok := byName[e.Name]
		if !ok {
			g = &fileGroup{Name: e.Name, Versions: []string{}}
			byName[e.Name] = g
		}
		if e.Version == nil {
			g.HasDefault = true
		} else {
			g.Versions = append(g.Versions, *e.Version)
		}
	}

	groups := make([]fileGroup, 0, len(byName))
	for _, g := range byName {
		sort.Strings(g.Versions)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// sortedEntries returns reg's entries ordered by key.
func sortedEntries(reg *store.Registry) []store.Entry {
	entries := reg.All()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key() < entries[j].Key() })
	return entries
}
