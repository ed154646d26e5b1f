package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/danobi/prr/internal/backend"
	"github.com/danobi/prr/internal/parser"
)

// DefaultAPIURL is the public GitHub API.
const DefaultAPIURL = "https://api.github.com"

var _ backend.Backend = (*Client)(nil)

// Options configures NewClient.
type Options struct {
	Token string
	// BaseURL defaults to DefaultAPIURL.
	BaseURL string
	// Cache stores responses for conditional requests. Nil keeps them in
	// memory for the life of the process.
	Cache  httpcache.Cache
	Logger *slog.Logger
}

// Client talks to GitHub.
type Client struct {
	gh  *gh.Client
	log *slog.Logger

	maxRetries int
	backoff    time.Duration
}

// NewClient creates a client with the following transport stack:
//  1. httpcache (ETag-based conditional requests)
//  2. go-github-ratelimit (sleeps on secondary rate limits)
//  3. go-github (REST API with token auth)
func NewClient(opts Options) (*Client, error) {
	cache := opts.Cache
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}
	rateLimitClient := github_ratelimit.NewClient(httpcache.NewTransport(cache))
	rateLimitClient.Timeout = 60 * time.Second

	client := gh.NewClient(rateLimitClient).WithAuthToken(opts.Token)
	if err := setBaseURL(client, opts.BaseURL); err != nil {
		return nil, err
	}
	return newClient(client, opts.Logger), nil
}

// NewClientWithHTTPClient creates a Client on a plain http.Client, for tests
// against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient).WithAuthToken(token)
	if err := setBaseURL(client, baseURL); err != nil {
		return nil, err
	}
	return newClient(client, nil), nil
}

func newClient(client *gh.Client, logger *slog.Logger) *Client {
	return &Client{
		gh:         client,
		log:        loggerOr(logger),
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
}

func setBaseURL(client *gh.Client, baseURL string) error {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parsing GitHub base URL: %w", err)
	}
	client.BaseURL = u
	return nil
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// GetPRInfo fetches the PR diff and its head commit.
func (c *Client) GetPRInfo(ctx context.Context, owner, repo string, prNum int) (backend.PRInfo, error) {
	diff, err := c.diff(ctx, owner, repo, prNum)
	if err != nil {
		return backend.PRInfo{}, err
	}

	var pr *gh.PullRequest
	var resp *gh.Response
	err = c.retry(ctx, func() error {
		var err error
		pr, resp, err = c.gh.PullRequests.Get(ctx, owner, repo, prNum)
		return err
	})
	if err != nil {
		return backend.PRInfo{}, c.wrap(err, fmt.Sprintf("fetching commit ID of %s/%s#%d", owner, repo, prNum))
	}
	c.logRateLimit(resp, "pulls/get")

	return backend.PRInfo{Diff: diff, Commit: pr.GetHead().GetSHA()}, nil
}

func (c *Client) diff(ctx context.Context, owner, repo string, prNum int) (string, error) {
	var diff string
	var resp *gh.Response
	err := c.retry(ctx, func() error {
		var err error
		diff, resp, err = c.gh.PullRequests.GetRaw(ctx, owner, repo, prNum, gh.RawOptions{Type: gh.Diff})
		return err
	})
	if err != nil {
		return "", c.wrap(err, fmt.Sprintf("fetching diff of %s/%s#%d", owner, repo, prNum))
	}
	c.logRateLimit(resp, "pulls/diff")
	return diff, nil
}

// SubmitReview posts a review with its inline comments.
func (c *Client) SubmitReview(ctx context.Context, owner, repo string, prNum int, req backend.ReviewRequest) error {
	drafts := make([]*gh.DraftReviewComment, 0, len(req.Comments))
	for _, dc := range req.Comments {
		d := &gh.DraftReviewComment{
			Path: gh.Ptr(dc.Path),
			Body: gh.Ptr(dc.Body),
			Line: gh.Ptr(dc.Line),
			Side: gh.Ptr(dc.Side),
		}
		if dc.StartLine > 0 {
			d.StartLine = gh.Ptr(dc.StartLine)
			d.StartSide = gh.Ptr(dc.StartSide)
		}
		drafts = append(drafts, d)
	}

	reviewReq := &gh.PullRequestReviewRequest{
		Event:    gh.Ptr(req.Event),
		Comments: drafts,
	}
	if req.CommitID != "" {
		reviewReq.CommitID = gh.Ptr(req.CommitID)
	}
	// GitHub rejects an empty body on anything but an approval.
	if req.Body != "" || req.Event != parser.ActionApprove.Event() {
		reviewReq.Body = gh.Ptr(req.Body)
	}

	c.log.Debug("dispatching review", "owner", owner, "repo", repo, "pr", prNum,
		"event", req.Event, "comments", len(drafts))
	_, resp, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, prNum, reviewReq)
	if err != nil {
		return c.wrapSubmit(err, fmt.Sprintf("submitting review for %s/%s#%d", owner, repo, prNum))
	}
	c.logRateLimit(resp, "pulls/reviews")
	return nil
}

// SubmitFileComment posts a comment on a whole file rather than a line.
func (c *Client) SubmitFileComment(ctx context.Context, owner, repo string, prNum int, commitID string, fc parser.FileComment) error {
	comment := &gh.PullRequestComment{
		Body:        gh.Ptr(fc.Comment),
		CommitID:    gh.Ptr(commitID),
		Path:        gh.Ptr(fc.File),
		SubjectType: gh.Ptr("file"),
	}
	_, resp, err := c.gh.PullRequests.CreateComment(ctx, owner, repo, prNum, comment)
	if err != nil {
		return c.wrapSubmit(err, fmt.Sprintf("submitting file comment on %s for %s/%s#%d", fc.File, owner, repo, prNum))
	}
	c.logRateLimit(resp, "pulls/comments")
	return nil
}

func (c *Client) wrap(err error, what string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %s", what, backend.ErrUnauthorized, ghErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%s: not found (check the PR number and token scopes)", what)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (c *Client) wrapSubmit(err error, what string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("%s: %w; run get --force to refresh: %v", what, backend.ErrStalePR, err)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%s: %w: %v", what, backend.ErrMalformedResponse, err)
	}
	return c.wrap(err, what)
}

func (c *Client) logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}
	c.log.Debug("github api call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		c.log.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
