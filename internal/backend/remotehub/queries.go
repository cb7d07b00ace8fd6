package remotehub

import (
	"context"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

func (p *Provider) GetCommit(ctx context.Context, repoPath string, rev string) (*provider.Commit, error) {
	repo, err := p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get commit")
	}
	c, err := p.client.GetCommit(ctx, repo.slug.Owner, repo.slug.Name, repo.ref(rev))
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get commit")
	}
	return c, nil
}

func (p *Provider) GetLog(ctx context.Context, repoPath string, opts provider.LogOptions) (*provider.Log, error) {
	repo, err := p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get log")
	}
	opts.Ref = repo.ref(opts.Ref)
	log, err := p.client.ListCommits(ctx, repo.slug.Owner, repo.slug.Name, opts)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get log")
	}
	return log, nil
}

// GetDiffStatus compares through the hosting API. Without ref2, ref1 is
// compared against its first parent. Root commits cannot be compared.
func (p *Provider) GetDiffStatus(ctx context.Context, repoPath string, ref1, ref2 string) ([]provider.FileChange, error) {
	if ref1 == "" {
		return nil, provider.InvalidInput("ref1", "revision must not be empty")
	}
	repo, err := p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get diff status")
	}

	base, head := ref1, ref2
	if ref2 == "" {
		c, err := p.client.GetCommit(ctx, repo.slug.Owner, repo.slug.Name, ref1)
		if err != nil {
			return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get diff status")
		}
		if c == nil {
			return nil, provider.Failure(errors.Newf(errors.CodeNotFound, "revision not found: %s", ref1),
				provider.IDGitHub, repoPath, "get diff status")
		}
		if len(c.ParentSHAs) == 0 {
			return nil, provider.Failure(errors.New(errors.CodeNotImplemented, "cannot diff a root commit remotely"),
				provider.IDGitHub, repoPath, "get diff status")
		}
		base, head = c.ParentSHAs[0], c.SHA
	}

	cmp, err := p.client.Compare(ctx, repo.slug.Owner, repo.slug.Name, base, head)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get diff status")
	}
	if cmp == nil {
		return nil, provider.Failure(errors.Newf(errors.CodeNotFound, "cannot compare %s with %s", base, head),
			provider.IDGitHub, repoPath, "get diff status")
	}
	return cmp.Files, nil
}

// GetBlame always returns nil; the hosting REST API has no blame.
func (p *Provider) GetBlame(ctx context.Context, repoPath string, path string, rev string) (*provider.Blame, error) {
	return nil, ctx.Err()
}

func (p *Provider) ValidateReference(ctx context.Context, repoPath string, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	c, err := p.GetCommit(ctx, repoPath, ref)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// GetGitDir returns nil: hosted repositories have no git directory.
func (p *Provider) GetGitDir(ctx context.Context, repoPath string) (*provider.GitDir, error) {
	return nil, ctx.Err()
}
