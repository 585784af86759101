package storage

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies storage failures
type Kind int

const (
	KindIO Kind = iota
	KindNotFound
	KindInvalidSourcePath
	KindNoDocumentsDirectory
)

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidSourcePath:
		return "invalid_source_path"
	case KindNoDocumentsDirectory:
		return "no_documents_directory"
	default:
		return "io"
	}
}

// Sentinel errors, matched with errors.Is against any *Error of the same kind
var (
	ErrIO                   = errors.New("i/o failure")
	ErrNotFound             = errors.New("file not found")
	ErrInvalidSourcePath    = errors.New("invalid source path")
	ErrNoDocumentsDirectory = errors.New("could not find documents directory")
)

// Error is returned by every storage operation. Err holds the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Path == "" {
			return e.Op
		}
		return fmt.Sprintf("%s: %q", e.Op, e.Path)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidSourcePath:
		return e.Kind == KindInvalidSourcePath
	case ErrNoDocumentsDirectory:
		return e.Kind == KindNoDocumentsDirectory
	}
	return false
}

// KindOf returns the kind of err, or KindIO for foreign errors
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindIO
}

func ioError(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// pathError maps a missing target to KindNotFound and anything else to KindIO
func pathError(op, path string, err error) *Error {
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: KindNotFound, Op: op, Path: path, Err: err}
	}
	return ioError(op, path, err)
}
