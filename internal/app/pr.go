package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/danobi/prr/internal/gitctx"
)

// ErrNoRepository means a bare PR number could not be tied to a repository.
var ErrNoRepository = errors.New("no repository for a bare PR number (set [local] repository in .prr.toml or run inside a clone)")

var (
	handleRe = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)/(\d+)$`)
	prURLRe  = regexp.MustCompile(`^https?://[^/]+/([\w.-]+)/([\w.-]+)/pull/(\d+)(?:[/?#].*)?$`)
	bareRe   = regexp.MustCompile(`^\d+$`)
	repoRe   = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)$`)
)

// PRRef names one pull request.
type PRRef struct {
	Owner string
	Repo  string
	Num   int
}

func (p PRRef) String() string {
	return fmt.Sprintf("%s/%s/%d", p.Owner, p.Repo, p.Num)
}

// ParsePR accepts owner/repo/123, a pull request URL, or a bare 123 that is
// resolved against defaultRepo ("owner/repo").
func ParsePR(s, defaultRepo string) (PRRef, error) {
	s = strings.TrimSpace(s)

	var owner, repo, num string
	if m := handleRe.FindStringSubmatch(s); m != nil {
		owner, repo, num = m[1], m[2], m[3]
	} else if m := prURLRe.FindStringSubmatch(s); m != nil {
		owner, repo, num = m[1], m[2], m[3]
	} else if bareRe.MatchString(s) {
		if defaultRepo == "" {
			return PRRef{}, ErrNoRepository
		}
		m := repoRe.FindStringSubmatch(defaultRepo)
		if m == nil {
			return PRRef{}, fmt.Errorf("invalid repository %q: expected owner/repo", defaultRepo)
		}
		owner, repo, num = m[1], m[2], s
	} else {
		return PRRef{}, fmt.Errorf("invalid PR %q: expected owner/repo/number, a pull request URL, or a number", s)
	}

	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return PRRef{}, fmt.Errorf("invalid PR number %q", num)
	}
	return PRRef{Owner: owner, Repo: repo, Num: n}, nil
}

// Resolve parses s, falling back to the origin remote of the working
// directory for bare numbers when no repository is configured.
func (a *App) Resolve(ctx context.Context, s string) (PRRef, error) {
	ref, err := ParsePR(s, a.cfg.Repository)
	if !errors.Is(err, ErrNoRepository) {
		return ref, err
	}
	owner, repo, derr := gitctx.DetectRepo(ctx, a.dir)
	if derr != nil {
		return PRRef{}, fmt.Errorf("%w: %v", ErrNoRepository, derr)
	}
	a.log.Debug("resolved repository from origin", "owner", owner, "repo", repo)
	return ParsePR(s, owner+"/"+repo)
}
