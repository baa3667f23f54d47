package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"
)

var (
	// ErrNotFound is returned when the repository or user does not exist
	// or is not visible to the token.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited is returned when GitHub rejects requests for rate reasons.
	ErrRateLimited = errors.New("github API rate limited; set a token or lower the request rate")
	// ErrUnauthorized is returned when the token is missing or invalid.
	ErrUnauthorized = errors.New("github API rejected the token")
)

// classify maps go-github errors onto the package sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}
	return err
}

// fatal reports whether a probe error must abort collection instead of
// degrading the probe to its empty fallback.
func fatal(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
