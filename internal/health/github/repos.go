package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
)

// RepoRef identifies a repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Stars int    `json:"stars"`
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// ListUserRepos returns up to limit non-fork, non-archived repositories
// owned by login, most starred first. A limit of 0 means no limit.
func (c *Collector) ListUserRepos(ctx context.Context, login string, limit int) ([]RepoRef, error) {
	q := fmt.Sprintf("user:%s fork:false archived:false", login)
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []RepoRef
	for {
		res, resp, err := c.gh.Search.Repositories(ctx, q, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s: %w", login, classify(err))
		}
		for _, r := range res.Repositories {
			all = append(all, RepoRef{
				Owner: r.GetOwner().GetLogin(),
				Name:  r.GetName(),
				Stars: r.GetStargazersCount(),
			})
			if limit > 0 && len(all) >= limit {
				return all, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("listing repositories for %s: %w", login, ErrNotFound)
	}
	return all, nil
}

// Whoami returns the login the client's token belongs to.
func (c *Collector) Whoami(ctx context.Context) (string, error) {
	u, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("checking token: %w", classify(err))
	}
	return u.GetLogin(), nil
}
