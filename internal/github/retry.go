package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	gh "github.com/google/go-github/v82/github"
)

const (
	defaultMaxRetries = 2
	defaultBackoff    = time.Second
)

// retry runs fn until it succeeds, fails permanently, or runs out of
// attempts. Only reads go through here; a POST that timed out may still have
// landed.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}

		if attempt < c.maxRetries {
			backoff := c.backoff << uint(attempt)
			c.log.Debug("retrying github request", "attempt", attempt+1, "backoff", backoff, "err", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

// retryable reports server-side failures. Client errors, including 401 and
// 404, are final.
func retryable(err error) bool {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode >= http.StatusInternalServerError
	}
	return false
}
