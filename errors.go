package annvis

import (
	"errors"
	"fmt"
)

// ErrEmptyAnnotations is reported for images that have no annotations. It is a warning rather than
// a failure: such images are skipped unless the caller asks to keep them.
var ErrEmptyAnnotations = errors.New("no annotations")

// PreconditionError reports an input path or argument that makes the whole run impossible, e.g. a
// missing directory or a source file with the wrong extension.
type PreconditionError struct {
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Path)
}

// FormatError reports a malformed or unexpected annotation structure in the file at Path.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid annotations in %q: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// formatErrorf returns a *FormatError for path with a formatted cause.
func formatErrorf(path, format string, args ...interface{}) error {
	return &FormatError{Path: path, Err: fmt.Errorf(format, args...)}
}
