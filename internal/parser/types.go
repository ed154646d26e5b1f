package parser

import "fmt"

// Side selects which version of a file a line number addresses.
type Side string

const (
	// SideLeft is the pre-change file.
	SideLeft Side = "LEFT"
	// SideRight is the post-change file.
	SideRight Side = "RIGHT"
)

// LineLocation is a line number on one side of a diff.
type LineLocation struct {
	Side Side `json:"side"`
	Line int  `json:"line"`
}

// Left returns a location in the pre-change file.
func Left(n int) LineLocation { return LineLocation{Side: SideLeft, Line: n} }

// Right returns a location in the post-change file.
func Right(n int) LineLocation { return LineLocation{Side: SideRight, Line: n} }

func (l LineLocation) String() string {
	return fmt.Sprintf("%s:%d", l.Side, l.Line)
}

// ReviewAction is the overall disposition of a review.
type ReviewAction int

const (
	ActionComment ReviewAction = iota
	ActionApprove
	ActionRequestChanges
)

// Event returns the GitHub review event name.
func (a ReviewAction) Event() string {
	switch a {
	case ActionApprove:
		return "APPROVE"
	case ActionRequestChanges:
		return "REQUEST_CHANGES"
	default:
		return "COMMENT"
	}
}

func (a ReviewAction) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionRequestChanges:
		return "reject"
	default:
		return "comment"
	}
}

// Comment is anything the parser can emit: ReviewComment, InlineComment,
// FileComment or ReviewAction.
type Comment interface {
	isComment()
}

// ReviewComment is the review-level text written above the first diff.
type ReviewComment struct {
	Text string
}

// InlineComment is anchored to a line, or to a span ending at Line when
// StartLine is set.
type InlineComment struct {
	File      string        `json:"file"`
	Line      LineLocation  `json:"line"`
	StartLine *LineLocation `json:"startLine,omitempty"`
	Comment   string        `json:"comment"`
}

// FileComment applies to a whole file rather than a line.
type FileComment struct {
	File    string `json:"file"`
	Comment string `json:"comment"`
}

func (ReviewComment) isComment() {}
func (InlineComment) isComment() {}
func (FileComment) isComment()   {}
func (ReviewAction) isComment()  {}
