package source

import "errors"

// Errors reported by the source command. Each one aborts the invocation.
var (
	ErrNoActiveFrame        = errors.New("no active stack frame")
	ErrInvalidLowerBound    = errors.New("invalid lower bound value")
	ErrInvalidUpperBound    = errors.New("invalid upper bound value")
	ErrNoSourceInfo         = errors.New("no source information available")
	ErrSourceFileNotFound   = errors.New("source file not found")
	ErrSourceFileUnreadable = errors.New("could not open source file")
)
