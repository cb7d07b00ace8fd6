package local

import (
	"cmp"
	"context"
	"slices"

	gogit "github.com/go-git/go-git/v5"

	"github.com/raphi011/gitprov/internal/provider"
)

type remotes struct{ p *Provider }

func (r remotes) GetRemote(ctx context.Context, repoPath string, name string) (*provider.Remote, error) {
	var out *provider.Remote
	err := r.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		rem, err := repo.Remote(name)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		remote := convertRemote(rem)
		out = &remote
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get remote")
	}
	return out, nil
}

// GetRemotes returns the configured remotes sorted by name.
func (r remotes) GetRemotes(ctx context.Context, repoPath string) ([]provider.Remote, error) {
	var out []provider.Remote
	err := r.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		list, err := repo.Remotes()
		if err != nil {
			return err
		}
		out = make([]provider.Remote, 0, len(list))
		for _, rem := range list {
			out = append(out, convertRemote(rem))
		}
		slices.SortFunc(out, func(a, b provider.Remote) int { return cmp.Compare(a.Name, b.Name) })
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get remotes")
	}
	return out, nil
}

func convertRemote(rem *gogit.Remote) provider.Remote {
	cfg := rem.Config()
	return provider.Remote{Name: cfg.Name, URLs: slices.Clone(cfg.URLs)}
}
