// Package github collects repository health signals from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// ClientConfig configures the underlying API client.
type ClientConfig struct {
	Token             string        // optional; unauthenticated requests are heavily rate limited
	BaseURL           string        // API root, e.g. https://ghe.example.com/api/v3/ (default: api.github.com)
	RequestsPerSecond float64       // client-side pacing; 0 disables it
	Timeout           time.Duration // per request (default 30s)
}

// NewClient creates an authenticated go-github client.
func NewClient(cfg ClientConfig) (*github.Client, error) {
	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}

	hc.Timeout = cfg.Timeout
	if hc.Timeout == 0 {
		hc.Timeout = 30 * time.Second
	}

	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		hc.Transport = &pacedTransport{
			base:    hc.Transport,
			limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		}
	}

	client := github.NewClient(hc)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = u
	}
	return client, nil
}

// pacedTransport waits on a token bucket before every request.
type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// ParseRepo splits "owner/name" (or a github.com URL) into its parts.
func ParseRepo(s string) (owner, name string, err error) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: want owner/name", s)
	}
	return parts[0], parts[1], nil
}
