package review

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/danobi/prr/internal/parser"
)

// ErrLengthMismatch means the quoted text has lines missing from or added
// after the original diff.
var ErrLengthMismatch = errors.New("found trailing or truncated lines")

// CorruptionError reports quoted text in a review file that no longer matches
// the diff it was created from.
type CorruptionError struct {
	// Line is the 1-based line in the review file, or 0 when no single line
	// is to blame.
	Line     int
	Found    string
	Expected string
	Err      error
}

func (e *CorruptionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("detected corruption in quoted part of review file: line %d, found %q expected %q",
			e.Line, e.Found, e.Expected)
	}
	return fmt.Sprintf("detected corruption in quoted part of review file: %v", e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// Validate checks that the quoted lines of contents reproduce original, line
// for line. Trailing whitespace is ignored on both sides, since editors
// commonly strip it.
func Validate(contents, original string) error {
	want := parser.SplitLines(original)
	next := 0

	for i, line := range parser.SplitLines(contents) {
		text, ok := parser.Unquote(line)
		if !ok {
			continue
		}
		if next >= len(want) {
			return &CorruptionError{Err: ErrLengthMismatch}
		}
		found, expected := trimRight(text), trimRight(want[next])
		if found != expected {
			return &CorruptionError{Line: i + 1, Found: found, Expected: expected}
		}
		next++
	}

	if next != len(want) {
		return &CorruptionError{Err: ErrLengthMismatch}
	}
	return nil
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
