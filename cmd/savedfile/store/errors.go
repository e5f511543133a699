package store

import "errors"

var (
	ErrValidation  = errors.New("invalid argument")
	ErrNotFound    = errors.New("no entry found")
	ErrIO          = errors.New("file operation failed")
	ErrPersistence = errors.New("registry persistence failed")

	errReservedChar = errors.New("the name cannot contain an '" + reservedChar + "' symbol")
	errPathLike     = errors.New("must be a single file name: no '/', '\\', '.' or '..'")
)

// Error describes a failed core operation. It matches its Kind and its
// underlying cause with errors.Is.
type Error struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": " + e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(op, subject string) error {
	return &Error{Kind: ErrValidation, Op: op, Path: subject}
}

func ioError(op, path string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Path: path, Err: err}
}

func persistenceError(op, path string, err error) error {
	return &Error{Kind: ErrPersistence, Op: op, Path: path, Err: err}
}

// NotFound builds the error returned when no entry matches key.
func NotFound(key string) error {
	return &Error{Kind: ErrNotFound, Op: "find", Path: key}
}
