package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// Parser is a state machine over the lines of a review file. The zero value
// is not usable; call New.
type Parser struct {
	state state
	line  int
}

// New returns a parser positioned before the first diff.
func New() *Parser {
	return &Parser{state: startState{}}
}

// ParseLine consumes one line of the review file. The returned Comment is nil
// when the line does not complete anything.
func (p *Parser) ParseLine(line string) (Comment, error) {
	p.line++
	next, c, err := p.state.parse(line)
	if err != nil {
		return nil, &ParseError{Line: p.line, Err: err}
	}
	p.state = next
	return c, nil
}

// Finish flushes a comment still being collected at end of input. An open
// span with no closing comment is an error.
func (p *Parser) Finish() (Comment, error) {
	c, err := p.state.finish()
	if err != nil {
		return nil, &ParseError{Line: p.line, Err: err}
	}
	return c, nil
}

// state is one node of the machine. Each implementation owns exactly the data
// it needs and returns its successor rather than mutating shared fields.
type state interface {
	parse(line string) (state, Comment, error)
	finish() (Comment, error)
}

// startState precedes the first diff header. Unquoted text there is the
// review-level comment.
type startState struct {
	lines []string
}

func (s startState) parse(line string) (state, Comment, error) {
	if text, ok := Unquote(line); ok {
		file, err := diffHeaderFile(text)
		if err != nil {
			return nil, nil, err
		}
		next := preambleState{file: file, underHeader: true}
		if body := commentText(s.lines); body != "" {
			return next, ReviewComment{Text: body}, nil
		}
		return next, nil, nil
	}

	action, ok, err := parseDirective(line)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return s, action, nil
	}

	s.lines = append(s.lines, line)
	return s, nil, nil
}

func (s startState) finish() (Comment, error) {
	if body := commentText(s.lines); body != "" {
		return ReviewComment{Text: body}, nil
	}
	return nil, nil
}

// preambleState covers the "diff --git" line and everything up to the first
// hunk: index, mode and ---/+++ lines, or a binary-file notice.
type preambleState struct {
	file string
	// underHeader is set until a quoted line follows the diff header; only
	// then may a file comment start.
	underHeader bool
	comment     []string
}

func (s preambleState) parse(line string) (state, Comment, error) {
	text, quoted := Unquote(line)
	if !quoted {
		switch {
		case len(s.comment) > 0:
			s.comment = append(s.comment, line)
		case isBlank(line):
		case s.underHeader:
			s.comment = []string{line}
		default:
			return nil, nil, ErrUnexpectedComment
		}
		return s, nil, nil
	}

	var emitted Comment
	if body := commentText(s.comment); body != "" {
		emitted = FileComment{File: s.file, Comment: body}
	}

	switch {
	case isDiffHeader(text):
		file, err := diffHeaderFile(text)
		if err != nil {
			return nil, nil, err
		}
		return preambleState{file: file, underHeader: true}, emitted, nil
	case isHunkHeader(text):
		d := fileDiffState{file: s.file}
		if err := d.startHunk(text); err != nil {
			return nil, nil, err
		}
		return d, emitted, nil
	default:
		return preambleState{file: s.file}, emitted, nil
	}
}

func (s preambleState) finish() (Comment, error) {
	if body := commentText(s.comment); body != "" {
		return FileComment{File: s.file, Comment: body}, nil
	}
	return nil, nil
}

// fileDiffState tracks the position inside a hunk.
type fileDiffState struct {
	file  string
	left  int
	right int
	// line is the location of the most recent quoted line.
	line      LineLocation
	spanStart *LineLocation
}

func (s fileDiffState) parse(line string) (state, Comment, error) {
	if text, ok := Unquote(line); ok {
		next, err := s.quoted(text)
		return next, nil, err
	}
	if isBlank(line) {
		return spanStartOrCommentState{diff: s}, nil, nil
	}
	return commentState{diff: s, lines: []string{line}}, nil, nil
}

func (s fileDiffState) finish() (Comment, error) {
	if s.spanStart != nil {
		return nil, ErrUnterminatedSpan
	}
	return nil, nil
}

// quoted handles a quoted line seen inside a file diff.
func (s fileDiffState) quoted(text string) (state, error) {
	switch {
	case isDiffHeader(text):
		if s.spanStart != nil {
			return nil, fmt.Errorf("%w: started at %s", ErrCrossFileSpan, s.spanStart)
		}
		file, err := diffHeaderFile(text)
		if err != nil {
			return nil, err
		}
		return preambleState{file: file, underHeader: true}, nil
	case isHunkHeader(text):
		if s.spanStart != nil {
			return nil, fmt.Errorf("%w: started at %s", ErrCrossHunkSpan, s.spanStart)
		}
		if err := s.startHunk(text); err != nil {
			return nil, err
		}
		return s, nil
	default:
		s.advance(text)
		return s, nil
	}
}

// startHunk resets both counters to one before the declared starts, so the
// first content line lands on the declared value. A side declared as 0 (added
// or deleted file) saturates at 0 and is never addressed.
func (s *fileDiffState) startHunk(text string) error {
	left, right, err := parseHunkHeader(text)
	if err != nil {
		return err
	}
	s.left = max(left-1, 0)
	s.right = max(right-1, 0)
	if isLeftLine(text) {
		s.line = Left(s.left)
	} else {
		s.line = Right(s.right)
	}
	return nil
}

func (s *fileDiffState) advance(text string) {
	switch {
	case isLeftLine(text):
		s.left++
		s.line = Left(s.left)
	case strings.HasPrefix(text, "+"):
		s.right++
		s.line = Right(s.right)
	case strings.HasPrefix(text, `\`):
		// "\ No newline at end of file" is not a content line.
	default:
		s.left++
		s.right++
		s.line = Right(s.right)
	}
}

// spanStartOrCommentState follows an empty unquoted line: a quoted line next
// opens a span, text next starts a comment.
type spanStartOrCommentState struct {
	diff fileDiffState
}

func (s spanStartOrCommentState) parse(line string) (state, Comment, error) {
	text, quoted := Unquote(line)
	if !quoted {
		if isBlank(line) {
			return s, nil, nil
		}
		return commentState{diff: s.diff, lines: []string{line}}, nil, nil
	}

	if isDiffHeader(text) || isHunkHeader(text) {
		next, err := s.diff.quoted(text)
		return next, nil, err
	}
	if s.diff.spanStart != nil {
		return nil, nil, fmt.Errorf("%w: started at %s", ErrUnterminatedSpan, s.diff.spanStart)
	}

	d := s.diff
	d.advance(text)
	start := d.line
	d.spanStart = &start
	return d, nil, nil
}

func (s spanStartOrCommentState) finish() (Comment, error) {
	return s.diff.finish()
}

// commentState collects a user comment until the next quoted line.
type commentState struct {
	diff  fileDiffState
	lines []string
}

func (s commentState) parse(line string) (state, Comment, error) {
	text, quoted := Unquote(line)
	if !quoted {
		s.lines = append(s.lines, line)
		return s, nil, nil
	}

	c := s.inline()
	d := s.diff
	d.spanStart = nil
	next, err := d.quoted(text)
	if err != nil {
		return nil, nil, err
	}
	return next, c, nil
}

func (s commentState) finish() (Comment, error) {
	return s.inline(), nil
}

func (s commentState) inline() InlineComment {
	return InlineComment{
		File:      s.diff.file,
		Line:      s.diff.line,
		StartLine: s.diff.spanStart,
		Comment:   commentText(s.lines),
	}
}

func diffHeaderFile(text string) (string, error) {
	if !isDiffHeader(text) {
		return "", fmt.Errorf("%w, found %q", ErrExpectedDiffHeader, text)
	}
	file, ok := parseDiffHeader(text)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMalformedHeader, text)
	}
	return file, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// commentText joins comment lines, dropping surrounding blank lines and
// trailing whitespace.
func commentText(lines []string) string {
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}
