package filesystem

import (
	"errors"
	"fmt"
)

// Node errors
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrNotADirectory      = errors.New("not a directory")
	ErrNotAFile           = errors.New("not a file")
	ErrNotEmpty           = errors.New("directory not empty")
	ErrIsCurrentDirectory = errors.New("is the current directory")
	ErrIsRoot             = errors.New("is the root directory")
)

// Decode errors. ErrInvalidLineFormat only ever skips a line; the rest abort the load.
var (
	ErrInvalidIndentation     = errors.New("invalid indentation")
	ErrInvalidLineFormat      = errors.New("invalid line format")
	ErrStackOverflow          = errors.New("stack overflow")
	ErrFirstEntryNotDirectory = errors.New("first entry must be a directory")
)

// ErrIO wraps failures reading or writing a saved tree
var ErrIO = errors.New("i/o error")

// LineError ties a decode error to the offending input line
type LineError struct {
	Line int    // 1-based line number
	Text string // trimmed line content
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: '%s'", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
