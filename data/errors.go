package data

import (
	"errors"
	"fmt"
)

var (
	// Backing store errors
	ErrConnection         = errors.New("explorer: unable to open backup database")
	ErrUnsupportedVersion = errors.New("explorer: unsupported database version")
	ErrServerDatabase     = errors.New("explorer: the server database cannot be analyzed, select a backup job database")

	// Model errors
	ErrSizeUnknown     = errors.New("explorer: backup size unknown")
	ErrNotMaterialized = errors.New("explorer: backup has no file tree")
	ErrInvalidPath     = errors.New("explorer: invalid path")
)

// ConnectionError reports an unreadable or schema-invalid database.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v '%s'", ErrConnection, e.Path)
	}
	return fmt.Sprintf("%v '%s': %v", ErrConnection, e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConnection}
	}
	return []error{ErrConnection, e.Err}
}

// UnsupportedVersionError reports a schema version outside [Min, Max].
type UnsupportedVersionError struct {
	Version int64
	Min     int64
	Max     int64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%v %d (supported %d to %d)", ErrUnsupportedVersion, e.Version, e.Min, e.Max)
}

func (e *UnsupportedVersionError) Unwrap() error {
	return ErrUnsupportedVersion
}

// NewConnectionError wraps err as a ConnectionError for path.
func NewConnectionError(path string, err error) error {
	return &ConnectionError{Path: path, Err: err}
}
