package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound     = errors.New("note not found")
	ErrUnauthorized = errors.New("location is outside the workspace root")
	ErrInvalidID    = errors.New("invalid note id")
	ErrReadOnly     = errors.New("store is in read-only mode")

	ErrInvalidMetadata = errors.New("invalid metadata")
)

// ParseError reports a note file whose front-matter could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
