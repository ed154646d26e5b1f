package review

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/danobi/prr/internal/metadata"
	"github.com/danobi/prr/internal/parser"
	"github.com/danobi/prr/internal/snip"
)

// Extension is the file extension of review files.
const Extension = ".prr"

var (
	// ErrUnsubmittedChanges guards reviews with comments that were never
	// submitted. Callers may override it with force.
	ErrUnsubmittedChanges = errors.New("review has unsubmitted changes")
	// ErrDuplicateReviewComment is reported when a second review-level
	// comment shows up.
	ErrDuplicateReviewComment = errors.New("more than one review comment")
)

// now is replaced in tests.
var now = time.Now

// Review identifies one review on disk. It holds no file contents; every
// method reads what it needs.
type Review struct {
	fs      afero.Fs
	store   *metadata.Store
	workdir string
	owner   string
	repo    string
	prNum   int
}

// Comments is everything a reviewer wrote in a review file.
type Comments struct {
	Action parser.ReviewAction
	Review string
	Inline []parser.InlineComment
	File   []parser.FileComment
}

// Empty reports whether there is no comment of any kind. The action alone
// does not count.
func (c Comments) Empty() bool {
	return c.Review == "" && len(c.Inline) == 0 && len(c.File) == 0
}

// Open returns the review for an existing PR. It does not touch the
// filesystem; missing files surface when they are read.
func Open(fsys afero.Fs, workdir, owner, repo string, prNum int) *Review {
	return &Review{
		fs:      fsys,
		store:   metadata.NewStore(fsys),
		workdir: workdir,
		owner:   owner,
		repo:    repo,
		prNum:   prNum,
	}
}

// Create writes a fresh review file for diff and its sidecar. An existing
// review with unsubmitted comments is kept unless force is set.
func Create(fsys afero.Fs, workdir, diff, owner, repo string, prNum int, commitID string, force bool) (*Review, error) {
	r := Open(fsys, workdir, owner, repo, prNum)

	if err := fsys.MkdirAll(filepath.Dir(r.Path()), 0o755); err != nil {
		return nil, fmt.Errorf("creating workdir directories: %w", err)
	}

	if !force {
		exists, err := r.store.Exists(r.MetadataPath())
		if err != nil {
			return nil, err
		}
		if exists {
			unsubmitted, err := r.unsubmitted()
			if err != nil {
				return nil, fmt.Errorf("checking for unsubmitted review: %w", err)
			}
			if unsubmitted {
				return nil, fmt.Errorf("%s: %w; submit it, delete the review file, or use --force", r.Handle(), ErrUnsubmittedChanges)
			}
		}
	}

	if err := afero.WriteFile(fsys, r.Path(), []byte(parser.QuoteDiff(diff)), 0o644); err != nil {
		return nil, fmt.Errorf("writing review file: %w", err)
	}
	if err := r.store.Save(r.MetadataPath(), metadata.New(diff, commitID)); err != nil {
		return nil, err
	}
	return r, nil
}

// Owner returns the repository owner.
func (r *Review) Owner() string { return r.owner }

// Repo returns the repository name.
func (r *Review) Repo() string { return r.repo }

// PRNum returns the pull request number.
func (r *Review) PRNum() int { return r.prNum }

// Handle returns "owner/repo/pr".
func (r *Review) Handle() string {
	return fmt.Sprintf("%s/%s/%d", r.owner, r.repo, r.prNum)
}

// Path returns the path of the user-facing review file.
func (r *Review) Path() string {
	return filepath.Join(r.workdir, r.owner, r.repo, strconv.Itoa(r.prNum)+Extension)
}

// MetadataPath returns the path of the sidecar, a dotfile next to Path.
func (r *Review) MetadataPath() string {
	return filepath.Join(r.workdir, r.owner, r.repo, "."+strconv.Itoa(r.prNum))
}

// Metadata loads the sidecar.
func (r *Review) Metadata() (metadata.Metadata, error) {
	return r.store.Load(r.MetadataPath())
}

// Contents returns the review file as the reviewer left it.
func (r *Review) Contents() (string, error) {
	data, err := afero.ReadFile(r.fs, r.Path())
	if err != nil {
		return "", fmt.Errorf("reading review file: %w", err)
	}
	return string(data), nil
}

// Comments recovers the reviewer's comments. Markers are resolved and the
// quoted text is checked against the stored diff before anything is parsed.
func (r *Review) Comments() (Comments, error) {
	contents, err := r.Contents()
	if err != nil {
		return Comments{}, err
	}
	meta, err := r.Metadata()
	if err != nil {
		return Comments{}, err
	}

	resolved, err := snip.Resolve(contents, meta.Original)
	if err != nil {
		return Comments{}, &CorruptionError{Err: err}
	}
	if err := Validate(resolved, meta.Original); err != nil {
		return Comments{}, err
	}

	c, err := parse(resolved)
	if err != nil {
		return Comments{}, fmt.Errorf("parsing %s: %w", r.Path(), err)
	}
	return c, nil
}

func parse(contents string) (Comments, error) {
	var c Comments
	p := parser.New()
	lines := parser.SplitLines(contents)

	add := func(line int, emitted parser.Comment) error {
		switch v := emitted.(type) {
		case parser.ReviewAction:
			c.Action = v
		case parser.ReviewComment:
			if c.Review != "" {
				return &parser.ParseError{Line: line, Err: ErrDuplicateReviewComment}
			}
			c.Review = v.Text
		case parser.InlineComment:
			c.Inline = append(c.Inline, v)
		case parser.FileComment:
			c.File = append(c.File, v)
		}
		return nil
	}

	for i, line := range lines {
		emitted, err := p.ParseLine(line)
		if err != nil {
			return Comments{}, err
		}
		if err := add(i+1, emitted); err != nil {
			return Comments{}, err
		}
	}
	emitted, err := p.Finish()
	if err != nil {
		return Comments{}, err
	}
	if err := add(len(lines), emitted); err != nil {
		return Comments{}, err
	}
	return c, nil
}

// MarkSubmitted records the current time as the submission time.
func (r *Review) MarkSubmitted() error {
	meta, err := r.Metadata()
	if err != nil {
		return err
	}
	return r.store.Save(r.MetadataPath(), meta.WithSubmitted(now()))
}

// Remove deletes the review file and its sidecar. A review with unsubmitted
// comments is kept unless force is set.
func (r *Review) Remove(force bool) error {
	if !force {
		unsubmitted, err := r.unsubmitted()
		if err != nil {
			return fmt.Errorf("checking for unsubmitted review: %w", err)
		}
		if unsubmitted {
			return fmt.Errorf("%s: %w; use --force to remove it anyway", r.Handle(), ErrUnsubmittedChanges)
		}
	}

	if err := r.fs.Remove(r.Path()); err != nil {
		return fmt.Errorf("removing review file: %w", err)
	}
	return r.store.Remove(r.MetadataPath())
}

// unsubmitted reports whether the review has comments that were never
// submitted. Edits made after a submission are ignored.
func (r *Review) unsubmitted() (bool, error) {
	meta, err := r.Metadata()
	if err != nil {
		return false, err
	}
	if meta.IsSubmitted() {
		return false, nil
	}
	return r.reviewed()
}

func (r *Review) reviewed() (bool, error) {
	c, err := r.Comments()
	if err != nil {
		return false, err
	}
	return !c.Empty(), nil
}
