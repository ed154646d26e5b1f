package backend

import (
	"context"
	"errors"

	"github.com/danobi/prr/internal/parser"
	"github.com/danobi/prr/internal/review"
)

var (
	// ErrMalformedResponse means the service accepted a request but answered
	// with JSON that could not be decoded. GitHub is known to emit unescaped
	// control characters; the request itself went through.
	ErrMalformedResponse = errors.New("response had invalid JSON")
	// ErrUnauthorized means the token was rejected.
	ErrUnauthorized = errors.New("authentication failed")
	// ErrStalePR means the PR changed since the review file was created.
	ErrStalePR = errors.New("PR was updated since the review was downloaded")
)

// PRInfo is what is needed to start a review.
type PRInfo struct {
	Diff   string
	Commit string
}

// DraftComment is one inline comment of a review request.
type DraftComment struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Side      string `json:"side"`
	StartLine int    `json:"start_line,omitempty"`
	StartSide string `json:"start_side,omitempty"`
	Body      string `json:"body"`
}

// ReviewRequest is a complete review, ready to post.
type ReviewRequest struct {
	CommitID string         `json:"commit_id,omitempty"`
	Event    string         `json:"event"`
	Body     string         `json:"body"`
	Comments []DraftComment `json:"comments"`
}

// Backend talks to the code-hosting service.
type Backend interface {
	GetPRInfo(ctx context.Context, owner, repo string, prNum int) (PRInfo, error)
	SubmitReview(ctx context.Context, owner, repo string, prNum int, req ReviewRequest) error
	SubmitFileComment(ctx context.Context, owner, repo string, prNum int, commitID string, fc parser.FileComment) error
}

// BuildReviewRequest maps parsed comments to a review request. commitID may be
// empty for reviews created before commit ids were recorded.
func BuildReviewRequest(c review.Comments, commitID string) ReviewRequest {
	req := ReviewRequest{
		CommitID: commitID,
		Event:    c.Action.Event(),
		Body:     c.Review,
		Comments: make([]DraftComment, 0, len(c.Inline)),
	}
	for _, ic := range c.Inline {
		dc := DraftComment{
			Path: ic.File,
			Line: ic.Line.Line,
			Side: string(ic.Line.Side),
			Body: ic.Comment,
		}
		if ic.StartLine != nil {
			dc.StartLine = ic.StartLine.Line
			dc.StartSide = string(ic.StartLine.Side)
		}
		req.Comments = append(req.Comments, dc)
	}
	return req
}
