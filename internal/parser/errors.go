package parser

import (
	"errors"
	"fmt"
)

var (
	ErrExpectedDiffHeader = errors.New("expected a diff header")
	ErrUnexpectedComment  = errors.New("comment not allowed here")
	ErrUnterminatedSpan   = errors.New("span was not terminated with a comment")
	ErrCrossHunkSpan      = errors.New("span crosses a hunk boundary")
	ErrCrossFileSpan      = errors.New("span crosses a file boundary")
	ErrUnknownDirective   = errors.New("unknown directive")
	ErrMalformedHeader    = errors.New("malformed header")
)

// ParseError is a fatal error at a specific line of the review file.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
