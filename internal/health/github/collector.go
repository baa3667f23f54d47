package github

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"
	"unicode/utf8"

	"github.com/google/go-github/v60/github"
	"golang.org/x/sync/errgroup"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// Collector gathers a SignalBundle for a repository. Probes other than the
// metadata lookup degrade to their empty signal on failure; only rate
// limiting, authentication failures and cancellation abort a collection.
type Collector struct {
	gh     *github.Client
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for degraded probes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// WithClock overrides the time source stamped into CollectedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// NewCollector wraps an API client.
func NewCollector(client *github.Client, opts ...Option) *Collector {
	c := &Collector{
		gh:     client,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches every signal for owner/name.
func (c *Collector) Collect(ctx context.Context, owner, name string) (*schema.SignalBundle, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", owner, name, classify(err))
	}

	full := repo.GetFullName()
	if full == "" {
		full = owner + "/" + name
	}
	b := &schema.SignalBundle{
		Repository:  full,
		CollectedAt: c.now().UTC(),
		Meta:        metaFrom(repo),
	}

	var (
		open, closed int
		listings     = make([][]string, len(listedDirs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Readme, err = c.readme(gctx, owner, name)
		return err
	})
	g.Go(func() (err error) {
		b.Releases, err = c.releases(gctx, owner, name)
		return err
	})
	g.Go(func() (err error) {
		b.Tags, err = c.tags(gctx, owner, name)
		return err
	})
	g.Go(func() (err error) {
		b.Workflows, err = c.workflows(gctx, owner, name)
		return err
	})
	g.Go(func() (err error) {
		open, err = c.issueCount(gctx, full, "open")
		return err
	})
	g.Go(func() (err error) {
		closed, err = c.issueCount(gctx, full, "closed")
		return err
	})
	for i, dir := range listedDirs {
		g.Go(func() (err error) {
			listings[i], err = c.list(gctx, owner, name, dir)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collecting %s: %w", full, err)
	}

	b.Issues = schema.NewIssueStats(open, closed)
	b.Files = resolveFiles(newPathIndex(listings...), b.Meta.Language)

	c.logger.Debug("signals collected",
		"repo", full,
		"releases", b.Releases.Count,
		"workflows", b.Workflows.Count,
		"open_issues", open,
		"closed_issues", closed,
	)
	return b, nil
}

func metaFrom(r *github.Repository) schema.RepoMeta {
	license := r.GetLicense().GetSPDXID()
	if license == "" {
		license = r.GetLicense().GetKey()
	}
	return schema.RepoMeta{
		Description:   r.GetDescription(),
		License:       schema.LicenseID(license),
		PushedAt:      r.GetPushedAt().Time,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Subscribers:   r.GetSubscribersCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		HasWiki:       r.GetHasWiki(),
		Language:      r.GetLanguage(),
		DefaultBranch: r.GetDefaultBranch(),
	}
}

// degrade swallows a non-fatal probe error after logging it.
func (c *Collector) degrade(probe string, err error) error {
	err = classify(err)
	if fatal(err) {
		return fmt.Errorf("%s: %w", probe, err)
	}
	c.logger.Debug("probe degraded", "probe", probe, "error", err)
	return nil
}

func (c *Collector) readme(ctx context.Context, owner, name string) (schema.ReadmeSignal, error) {
	rc, _, err := c.gh.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return schema.ReadmeSignal{}, c.degrade("readme", err)
	}
	content, err := rc.GetContent()
	if err != nil {
		return schema.ReadmeSignal{}, c.degrade("readme", err)
	}
	return schema.ReadmeSignal{
		Exists:  true,
		Content: content,
		Length:  utf8.RuneCountInString(content),
	}, nil
}

// count returns the total number of items behind a paginated endpoint
// queried with PerPage 1.
func count(resp *github.Response, page int) int {
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage
	}
	return page
}

func (c *Collector) releases(ctx context.Context, owner, name string) (schema.ReleaseSignal, error) {
	rels, resp, err := c.gh.Repositories.ListReleases(ctx, owner, name, &github.ListOptions{PerPage: 1})
	if err != nil {
		return schema.ReleaseSignal{}, c.degrade("releases", err)
	}
	if len(rels) == 0 {
		return schema.ReleaseSignal{}, nil
	}
	return schema.ReleaseSignal{
		Exists:    true,
		Count:     count(resp, len(rels)),
		LatestTag: rels[0].GetTagName(),
	}, nil
}

func (c *Collector) tags(ctx context.Context, owner, name string) (schema.CountSignal, error) {
	tags, resp, err := c.gh.Repositories.ListTags(ctx, owner, name, &github.ListOptions{PerPage: 1})
	if err != nil {
		return schema.CountSignal{}, c.degrade("tags", err)
	}
	n := count(resp, len(tags))
	return schema.CountSignal{Exists: n > 0, Count: n}, nil
}

func (c *Collector) workflows(ctx context.Context, owner, name string) (schema.CountSignal, error) {
	wf, _, err := c.gh.Actions.ListWorkflows(ctx, owner, name, &github.ListOptions{PerPage: 1})
	if err != nil {
		return schema.CountSignal{}, c.degrade("workflows", err)
	}
	n := wf.GetTotalCount()
	return schema.CountSignal{Exists: n > 0, Count: n}, nil
}

// issueCount counts issues (not pull requests) in the given state.
func (c *Collector) issueCount(ctx context.Context, full, state string) (int, error) {
	q := fmt.Sprintf("repo:%s is:issue is:%s", full, state)
	res, _, err := c.gh.Search.Issues(ctx, q, &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}})
	if err != nil {
		return 0, c.degrade(state+"_issues", err)
	}
	return res.GetTotal(), nil
}

// list returns the entries of dir as repository-relative paths, with a
// trailing slash on directories. A missing directory yields no entries.
func (c *Collector) list(ctx context.Context, owner, name, dir string) ([]string, error) {
	_, entries, _, err := c.gh.Repositories.GetContents(ctx, owner, name, dir, nil)
	if err != nil {
		probe := "list_" + dir
		if dir == "" {
			probe = "list_root"
		}
		return nil, c.degrade(probe, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		p := e.GetName()
		if dir != "" {
			p = path.Join(dir, p)
		}
		if e.GetType() == "dir" {
			p += "/"
		}
		paths = append(paths, p)
	}
	return paths, nil
}
