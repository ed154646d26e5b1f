package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// ErrNotRepository is returned when dir is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

var (
	urlRemoteRe = regexp.MustCompile(`^(?:https?|ssh|git)://(?:[^@/]+@)?[^/]+/([^/]+)/([^/\s]+?)/?$`)
	scpRemoteRe = regexp.MustCompile(`^[^@\s]+@[^:\s]+:([^/]+)/([^/\s]+?)/?$`)
)

// Root returns the top level of the work tree containing dir.
func Root(ctx context.Context, dir string) (string, error) {
	out, err := gitOutput(ctx, dir, "", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotRepository, dir, err)
	}
	return strings.TrimSpace(out), nil
}

// Apply applies diff to the work tree containing dir. Paths in the diff are
// relative to the top level, so git runs there. Nothing is changed if any
// hunk fails.
func Apply(ctx context.Context, dir, diff string) error {
	root, err := Root(ctx, dir)
	if err != nil {
		return err
	}
	if _, err := gitOutput(ctx, root, diff, "apply", "--whitespace=nowarn", "-"); err != nil {
		return fmt.Errorf("git apply: %w", err)
	}
	return nil
}

// DetectRepo parses owner/repo from the origin remote of the repository
// containing dir.
func DetectRepo(ctx context.Context, dir string) (owner, repo string, err error) {
	out, err := gitOutput(ctx, dir, "", "remote", "get-url", "origin")
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	return ParseRemoteURL(strings.TrimSpace(out))
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")

	if m := urlRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := scpRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}

func gitOutput(ctx context.Context, dir, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
