package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/danobi/prr/internal/backend"
	"github.com/danobi/prr/internal/output"
	"github.com/danobi/prr/internal/parser"
)

var (
	// ErrNothingToSubmit means the review has no comments and no verdict.
	ErrNothingToSubmit = errors.New("no review comments")
	// ErrAlreadySubmitted guards against posting the same review twice.
	ErrAlreadySubmitted = errors.New("review was already submitted")
)

// Submit posts the review for ref. With debug set, the request is printed
// instead of sent and nothing is recorded.
func (a *App) Submit(ctx context.Context, ref PRRef, debug bool) error {
	r, err := a.existing(ref)
	if err != nil {
		return err
	}
	meta, err := r.Metadata()
	if err != nil {
		return err
	}
	if meta.IsSubmitted() && !debug {
		return fmt.Errorf("%s: %w; run prr get %s to start a new review", ref, ErrAlreadySubmitted, ref)
	}

	comments, err := r.Comments()
	if err != nil {
		return err
	}
	if comments.Empty() && comments.Action == parser.ActionComment {
		return fmt.Errorf("%s: %w", ref, ErrNothingToSubmit)
	}

	req := backend.BuildReviewRequest(comments, meta.Commit())
	if debug {
		return output.WritePreview(a.stdout, output.Preview{
			Handle:       ref.String(),
			Review:       req,
			FileComments: comments.File,
		})
	}
	if a.backend == nil {
		return ErrNoBackend
	}

	if len(comments.File) > 0 && meta.Commit() == "" {
		return fmt.Errorf("%s: file comments need the PR's commit id, which this review predates; run prr get --force %s", ref, ref)
	}
	for _, fc := range comments.File {
		if err := a.backend.SubmitFileComment(ctx, ref.Owner, ref.Repo, ref.Num, meta.Commit(), fc); err != nil {
			return err
		}
		a.log.Debug("file comment posted", "pr", ref.String(), "file", fc.File)
	}

	// A review with no body, no inline comments and no verdict is rejected
	// by GitHub; file comments alone were already posted above.
	if req.Body != "" || len(req.Comments) > 0 || comments.Action != parser.ActionComment {
		err := a.backend.SubmitReview(ctx, ref.Owner, ref.Repo, ref.Num, req)
		switch {
		case errors.Is(err, backend.ErrMalformedResponse):
			a.log.Warn("github response had invalid JSON; assuming the review was posted", "pr", ref.String(), "err", err)
		case err != nil:
			return err
		}
	}

	if err := r.MarkSubmitted(); err != nil {
		return fmt.Errorf("updating review metadata: %w", err)
	}
	a.log.Info("review submitted", "pr", ref.String(), "event", req.Event,
		"inline", len(req.Comments), "file", len(comments.File))
	return nil
}
