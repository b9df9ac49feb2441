package drifty

import (
	"errors"
	"fmt"
)

var (
	// ErrIO reports a file or directory that could not be read or written.
	ErrIO = errors.New("i/o error")

	// ErrParse reports front matter that is not valid for drifty.
	ErrParse = errors.New("invalid front matter")

	// ErrMalformedBlock reports an opening delimiter without a closing one.
	// It also matches ErrParse.
	ErrMalformedBlock = fmt.Errorf("%w: front matter not closed (missing closing %s)", ErrParse, BlockDelimiter)

	// ErrProjectRootNotFound reports that no ancestor holds the root marker.
	ErrProjectRootNotFound = errors.New("could not find project root (" + RootMarker + " directory)")

	// ErrNoMatch reports a pattern that resolves to no hashable files.
	ErrNoMatch = errors.New("pattern matches no files")

	// ErrBadPattern reports a glob pattern the glob engine rejects.
	ErrBadPattern = errors.New("invalid glob pattern")

	// ErrEntryNotFound reports an update target missing from the block.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrBlockNotFound reports a document without the block a mutation needs.
	ErrBlockNotFound = errors.New("front matter not found")

	// ErrDuplicateEntry reports an attempt to watch a pattern twice.
	ErrDuplicateEntry = errors.New("pattern already watched")

	// ErrNotInitialised reports a document without a tracked block.
	ErrNotInitialised = errors.New("document not initialised")

	// ErrNotDocument reports a file that does not have a document extension.
	ErrNotDocument = errors.New("not a markdown document")
)

// ioError wraps err so that it matches both ErrIO and err.
func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: failed to %s %s: %w", ErrIO, op, path, err)
}
