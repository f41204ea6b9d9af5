package static

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path does not resolve to an existing
	// file or directory, including after index and extension search.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidPath is returned for path segments that would escape the
	// served tree. It wraps ErrNotFound so callers answer it with a 404.
	ErrInvalidPath = fmt.Errorf("%w: invalid request URL", ErrNotFound)

	// ErrForbidden is returned when the file exists but cannot be opened
	// because of permissions.
	ErrForbidden = errors.New("forbidden")

	// ErrMalformedRange is returned by ParseRange for Range headers that do
	// not match the single "bytes=<start>-<end>" form.
	ErrMalformedRange = errors.New("malformed range header")
)
