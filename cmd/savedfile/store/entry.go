package store

import "strings"

const (
	keySeparator = "-"
	reservedChar = "@"
)

// Entry is one registered file.
//
// Version and StoredPath are pointers so that an absent value is written as
// JSON null, which is how existing registry files encode them.
type Entry struct {
	Name            string  `json:"name"`
	Version         *string `json:"version"`
	DefaultSaveName string  `json:"default_save_name"`
	OriginalPath    string  `json:"original_path"`
	StoredPath      *string `json:"stored_path"`
}

// NewEntry returns an entry with only its identity set.
// An empty version selects the default (unversioned) variant.
func NewEntry(name, version string) Entry {
	e := Entry{Name: name}
	if version != "" {
		e.Version = &version
	}
	return e
}

// ValidateName rejects names that cannot identify an entry.
func ValidateName(name string) error {
	if name == "" {
		return validationError("validate name", `""`)
	}
	if strings.Contains(name, reservedChar) {
		return &Error{Kind: ErrValidation, Op: "validate name", Path: name,
			Err: errReservedChar}
	}
	if isPathLike(name) {
		return &Error{Kind: ErrValidation, Op: "validate name", Path: name, Err: errPathLike}
	}
	return nil
}

// ValidateVersion rejects versions that would move the stored copy out of
// the storage directory. An empty version is the default variant.
func ValidateVersion(version string) error {
	if version != "" && isPathLike(version) {
		return &Error{Kind: ErrValidation, Op: "validate version", Path: version, Err: errPathLike}
	}
	return nil
}

// isPathLike reports whether s is not a plain file name on every platform.
func isPathLike(s string) bool {
	return s == "." || s == ".." || strings.ContainsAny(s, `/\`)
}

// Key identifies the entry in the registry: the name alone, or
// name-version when a version is set.
func (e Entry) Key() string {
	if e.Version == nil {
		return e.Name
	}
	return e.Name + keySeparator + *e.Version
}

// VersionString returns the version, or "" for the default variant.
func (e Entry) VersionString() string {
	if e.Version == nil {
		return ""
	}
	return *e.Version
}

// IsStored reports whether a stored copy has been recorded.
func (e Entry) IsStored() bool {
	return e.StoredPath != nil
}

// source is the file materialization reads from: the stored copy when one
// exists, the original otherwise.
func (e Entry) source() string {
	if e.StoredPath != nil {
		return *e.StoredPath
	}
	return e.OriginalPath
}
