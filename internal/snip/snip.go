package snip

import (
	"errors"
	"strings"
	"unicode"

	"github.com/danobi/prr/internal/parser"
)

// ErrUnresolved means the quoted lines around a marker could not be aligned
// with the original diff.
var ErrUnresolved = errors.New("could not resolve snip")

type lineKind int

const (
	kindQuoted lineKind = iota
	kindSnip
	kindComment
)

type patternLine struct {
	kind lineKind
	// text is the unquoted content for kindQuoted lines.
	text string
	raw  string
}

// Resolve returns contents with every marker replaced by the quoted original
// lines it stands for. Contents without markers are returned unchanged.
//
// Markers behave like "*" in a glob: each one may stand for zero or more
// lines, and shorter expansions are preferred.
func Resolve(contents, original string) (string, error) {
	pattern, snips := classify(parser.SplitLines(contents))
	if snips == 0 {
		return contents, nil
	}

	r := &resolver{
		pattern:  pattern,
		original: parser.SplitLines(original),
		failed:   make(map[[2]int]bool),
		out:      make([]string, 0, len(pattern)),
	}
	if !r.match(0, 0) {
		return "", ErrUnresolved
	}
	return strings.Join(r.out, "\n") + "\n", nil
}

func classify(lines []string) ([]patternLine, int) {
	pattern := make([]patternLine, len(lines))
	snips := 0
	for i, l := range lines {
		switch text, ok := parser.Unquote(l); {
		case ok:
			pattern[i] = patternLine{kind: kindQuoted, text: text, raw: l}
		case parser.IsSnip(l):
			pattern[i] = patternLine{kind: kindSnip, raw: l}
			snips++
		default:
			pattern[i] = patternLine{kind: kindComment, raw: l}
		}
	}
	return pattern, snips
}

type resolver struct {
	pattern  []patternLine
	original []string
	// failed records (pattern, original) cursor pairs already known not to
	// align, which keeps runs of markers from going exponential.
	failed map[[2]int]bool
	out    []string
}

// match aligns pattern[pi:] with original[oi:], appending to out. On failure
// out is restored to its length on entry.
func (r *resolver) match(pi, oi int) bool {
	if pi == len(r.pattern) {
		return oi == len(r.original)
	}
	key := [2]int{pi, oi}
	if r.failed[key] {
		return false
	}

	mark := len(r.out)
	p := r.pattern[pi]
	switch p.kind {
	case kindComment:
		r.out = append(r.out, p.raw)
		if r.match(pi+1, oi) {
			return true
		}
	case kindQuoted:
		if oi < len(r.original) && sameLine(p.text, r.original[oi]) {
			r.out = append(r.out, p.raw)
			if r.match(pi+1, oi+1) {
				return true
			}
		}
	case kindSnip:
		for k := 0; oi+k <= len(r.original); k++ {
			r.out = r.out[:mark]
			for _, l := range r.original[oi : oi+k] {
				r.out = append(r.out, parser.Quote(l))
			}
			if r.match(pi+1, oi+k) {
				return true
			}
		}
	}

	r.out = r.out[:mark]
	r.failed[key] = true
	return false
}

func sameLine(a, b string) bool {
	return strings.TrimRightFunc(a, unicode.IsSpace) == strings.TrimRightFunc(b, unicode.IsSpace)
}
