// Package batch scores many repositories concurrently.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/github"
	"github.com/build-flow-labs/repohealth/internal/health/score"
)

// Collector fetches the signals of one repository.
type Collector interface {
	Collect(ctx context.Context, owner, name string) (*schema.SignalBundle, error)
}

// Result is the outcome for one repository. Exactly one of Report and Err
// is set.
type Result struct {
	Repository string               `json:"repository"`
	Report     *schema.HealthReport `json:"report,omitempty"`
	Err        error                `json:"-"`
}

// Runner scores repositories with bounded concurrency.
type Runner struct {
	collector Collector
	workers   int
	logger    *slog.Logger
	onResult  func(Result)
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of repositories in flight (default 4).
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// OnResult registers a hook called as each repository finishes. It is
// called from worker goroutines and must be safe for concurrent use.
func OnResult(fn func(Result)) Option {
	return func(r *Runner) { r.onResult = fn }
}

// New creates a Runner.
func New(c Collector, opts ...Option) *Runner {
	r := &Runner{
		collector: c,
		workers:   4,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scores every repository ("owner/name"). Results keep input order.
// Per-repository failures are recorded in Result.Err; the returned error
// is non-nil only when ctx ends before the batch completes.
func (r *Runner) Run(ctx context.Context, repos []string) ([]Result, error) {
	results := make([]Result, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, repo := range repos {
		g.Go(func() error {
			res := r.one(gctx, repo)
			results[i] = res
			if r.onResult != nil {
				r.onResult(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}

func (r *Runner) one(ctx context.Context, repo string) Result {
	res := Result{Repository: repo}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	owner, name, err := github.ParseRepo(repo)
	if err != nil {
		res.Err = err
		return res
	}

	bundle, err := r.collector.Collect(ctx, owner, name)
	if err != nil {
		r.logger.Warn("collection failed", "repo", repo, "error", err)
		res.Err = err
		return res
	}

	report, err := score.Evaluate(bundle)
	if err != nil {
		r.logger.Warn("scoring failed", "repo", repo, "error", err)
		res.Err = err
		return res
	}
	if report.Repository != "" {
		res.Repository = report.Repository
	}
	res.Report = report

	r.logger.Info("scored", "repo", repo, "score", report.TotalScore, "grade", report.Grade)
	return res
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, res := range results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
