package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/danobi/prr/internal/backend"
	"github.com/danobi/prr/internal/config"
	"github.com/danobi/prr/internal/gitctx"
	"github.com/danobi/prr/internal/review"
)

var (
	// ErrNoBackend is returned by commands that need GitHub when none was
	// configured.
	ErrNoBackend = errors.New("no GitHub backend configured")
	// ErrNoReview means the PR was never downloaded.
	ErrNoReview = errors.New("no review found")
)

// Options configures New.
type Options struct {
	Config config.Config
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Backend may be nil for commands that stay offline.
	Backend backend.Backend
	Logger  *slog.Logger
	// Stdout receives previews. Defaults to os.Stdout.
	Stdout io.Writer
	// Dir is where git runs for apply and repository detection. Empty uses
	// the working directory.
	Dir string
}

// App runs prr's commands against one configuration.
type App struct {
	cfg     config.Config
	fs      afero.Fs
	backend backend.Backend
	log     *slog.Logger
	stdout  io.Writer
	dir     string

	runEditor func(ctx context.Context, editor, path string) error
}

// New creates an App.
func New(opts Options) *App {
	a := &App{
		cfg:       opts.Config,
		fs:        opts.Fs,
		backend:   opts.Backend,
		log:       opts.Logger,
		stdout:    opts.Stdout,
		dir:       opts.Dir,
		runEditor: runEditor,
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.dir == "" {
		a.dir = "."
	}
	return a
}

// Review returns the review for ref. It may not exist yet.
func (a *App) Review(ref PRRef) *review.Review {
	return review.Open(a.fs, a.cfg.Workdir, ref.Owner, ref.Repo, ref.Num)
}

// existing returns the review for ref or ErrNoReview.
func (a *App) existing(ref PRRef) (*review.Review, error) {
	r := a.Review(ref)
	ok, err := afero.Exists(a.fs, r.Path())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w for %s; run prr get %s first", ErrNoReview, ref, ref)
	}
	return r, nil
}

// Get downloads the PR and writes a fresh review file.
func (a *App) Get(ctx context.Context, ref PRRef, force bool) (*review.Review, error) {
	if a.backend == nil {
		return nil, ErrNoBackend
	}
	info, err := a.backend.GetPRInfo(ctx, ref.Owner, ref.Repo, ref.Num)
	if err != nil {
		return nil, err
	}
	r, err := review.Create(a.fs, a.cfg.Workdir, info.Diff, ref.Owner, ref.Repo, ref.Num, info.Commit, force)
	if err != nil {
		return nil, err
	}
	a.log.Info("review created", "pr", ref.String(), "path", r.Path(), "commit", info.Commit)
	return r, nil
}

// Apply applies the PR's stored diff to the work tree around Options.Dir.
func (a *App) Apply(ctx context.Context, ref PRRef) error {
	r, err := a.existing(ref)
	if err != nil {
		return err
	}
	meta, err := r.Metadata()
	if err != nil {
		return err
	}
	if err := gitctx.Apply(ctx, a.dir, meta.Original); err != nil {
		return fmt.Errorf("applying %s: %w", ref, err)
	}
	a.log.Info("diff applied", "pr", ref.String())
	return nil
}

// Remove deletes the given reviews, plus every submitted review when
// submitted is set. Reviews with unsubmitted comments need force. Every
// review is attempted; failures are joined.
func (a *App) Remove(refs []PRRef, force, submitted bool) error {
	targets := make([]*review.Review, 0, len(refs))
	seen := make(map[string]bool)
	for _, ref := range refs {
		r, err := a.existing(ref)
		if err != nil {
			return err
		}
		targets = append(targets, r)
		seen[r.Handle()] = true
	}

	if submitted {
		all, err := review.ListAll(a.fs, a.cfg.Workdir)
		if err != nil {
			return err
		}
		for _, r := range all {
			if seen[r.Handle()] {
				continue
			}
			st, err := r.Status()
			if err != nil {
				a.log.Warn("skipping unreadable review", "pr", r.Handle(), "err", err)
				continue
			}
			if st == review.StatusSubmitted {
				targets = append(targets, r)
			}
		}
	}

	var errs []error
	for _, r := range targets {
		if err := r.Remove(force); err != nil {
			errs = append(errs, err)
			continue
		}
		a.log.Info("review removed", "pr", r.Handle())
	}
	return errors.Join(errs...)
}
