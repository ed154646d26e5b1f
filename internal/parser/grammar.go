package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// QuoteMarker prefixes every diff line in a review file.
const QuoteMarker = ">"

var (
	diffHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(?:(\d+),)?(\d+) @@`)
	directiveRe  = regexp.MustCompile(`^@prr\s+(\S+)$`)
)

// snipMarkers are the accepted elision markers, compared after trimming.
var snipMarkers = []string{"[..]", "[...]"}

// Quote returns line as it appears in a review file.
func Quote(line string) string {
	if line == "" {
		return QuoteMarker
	}
	return QuoteMarker + " " + line
}

// Unquote strips the quote prefix from a review file line. ok is false for
// lines that are not quoted.
func Unquote(line string) (text string, ok bool) {
	if line == QuoteMarker {
		return "", true
	}
	if rest, found := strings.CutPrefix(line, QuoteMarker+" "); found {
		return rest, true
	}
	return "", false
}

// IsSnip reports whether line is an elision marker.
func IsSnip(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, m := range snipMarkers {
		if trimmed == m {
			return true
		}
	}
	return false
}

// SplitLines splits s into lines. A trailing newline does not produce an
// empty final line and "\r\n" endings are accepted.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// QuoteDiff renders a whole diff as review file contents.
func QuoteDiff(diff string) string {
	var b strings.Builder
	b.Grow(len(diff) + len(diff)/8)
	for _, line := range SplitLines(diff) {
		b.WriteString(Quote(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// parseDiffHeader returns the new-side path of a "diff --git" line.
func parseDiffHeader(text string) (string, bool) {
	m := diffHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[2], true
}

func isDiffHeader(text string) bool {
	return strings.HasPrefix(text, "diff --git ")
}

func isHunkHeader(text string) bool {
	return strings.HasPrefix(text, "@@ ")
}

// parseHunkHeader returns the declared left and right start lines. Lengths
// may be omitted on either side ("@@ -0,0 +1 @@", "@@ -7 +7 @@").
func parseHunkHeader(text string) (left, right int, err error) {
	m := hunkHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedHeader, text)
	}
	left, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: left start: %v", ErrMalformedHeader, err)
	}
	// "+start,len" binds both groups, "+N" only the second: a single line at N.
	rstart := m[2]
	if rstart == "" {
		rstart = m[3]
	}
	right, err = strconv.Atoi(rstart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: right start: %v", ErrMalformedHeader, err)
	}
	return left, right, nil
}

func parseDirective(text string) (ReviewAction, bool, error) {
	m := directiveRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ActionComment, false, nil
	}
	switch m[1] {
	case "approve":
		return ActionApprove, true, nil
	case "reject":
		return ActionRequestChanges, true, nil
	case "comment":
		return ActionComment, true, nil
	default:
		return ActionComment, true, fmt.Errorf("%w: %q", ErrUnknownDirective, m[1])
	}
}

// isLeftLine reports whether a diff line belongs only to the pre-change side.
func isLeftLine(text string) bool {
	return strings.HasPrefix(text, "-")
}
