package local

import (
	"cmp"
	"context"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/raphi011/gitprov/internal/provider"
)

type contributors struct{ p *Provider }

// GetContributors groups the history reachable from opts.Ref by author
// email, most commits first. Identities without an email are grouped by
// name.
func (c contributors) GetContributors(ctx context.Context, repoPath string, opts provider.ContributorOptions) ([]provider.Contributor, error) {
	var out []provider.Contributor
	err := c.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		rev := opts.Ref
		if rev == "" {
			rev = "HEAD"
		}
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			if isNotFound(err) && opts.Ref == "" {
				return nil
			}
			return err
		}

		iter, err := repo.Log(&gogit.LogOptions{From: *hash})
		if err != nil {
			return err
		}
		defer iter.Close()

		byID := make(map[string]*provider.Contributor)
		var order []string
		scanned := 0

		err = iter.ForEach(func(commit *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if opts.Limit > 0 && scanned == opts.Limit {
				return storer.ErrStop
			}
			scanned++

			id := strings.ToLower(commit.Author.Email)
			if id == "" {
				id = commit.Author.Name
			}
			entry, ok := byID[id]
			if !ok {
				entry = &provider.Contributor{Name: commit.Author.Name, Email: commit.Author.Email}
				byID[id] = entry
				order = append(order, id)
			}
			entry.Commits++
			if commit.Author.When.After(entry.LatestCommit) {
				entry.LatestCommit = commit.Author.When
			}
			return nil
		})
		if err != nil {
			return err
		}

		out = make([]provider.Contributor, 0, len(order))
		for _, id := range order {
			out = append(out, *byID[id])
		}
		slices.SortStableFunc(out, func(a, b provider.Contributor) int {
			if a.Commits != b.Commits {
				return cmp.Compare(b.Commits, a.Commits)
			}
			return cmp.Compare(a.Name, b.Name)
		})
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get contributors")
	}
	return out, nil
}
