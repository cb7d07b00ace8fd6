package vsls

import (
	"context"

	"github.com/raphi011/gitprov/internal/provider"
)

// SubProviders implements provider.Provider. The required groups forward
// to the host; optional groups are never offered to guests.
func (p *Provider) SubProviders() provider.SubProviders {
	return provider.SubProviders{
		Branches:     branches{p},
		Contributors: contributors{p},
		Remotes:      remotes{p},
		Status:       status{p},
		Tags:         tags{p},
	}
}

// hostSubs resolves repoPath and returns the host's sub-providers.
func (p *Provider) hostSubs(repoPath string) (string, provider.SubProviders, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return "", provider.SubProviders{}, err
	}
	return host, hp.SubProviders(), nil
}

type branches struct{ p *Provider }

func (b branches) GetBranch(ctx context.Context, repoPath string, name string) (*provider.Branch, error) {
	host, subs, err := b.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	br, err := subs.Branches.GetBranch(ctx, host, name)
	return br, provider.Failure(err, provider.IDVsls, repoPath, "get branch")
}

func (b branches) GetBranches(ctx context.Context, repoPath string, opts provider.BranchOptions) ([]provider.Branch, error) {
	host, subs, err := b.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	list, err := subs.Branches.GetBranches(ctx, host, opts)
	return list, provider.Failure(err, provider.IDVsls, repoPath, "get branches")
}

func (b branches) GetDefaultBranchName(ctx context.Context, repoPath string, remote string) (string, error) {
	host, subs, err := b.p.hostSubs(repoPath)
	if err != nil {
		return "", err
	}
	name, err := subs.Branches.GetDefaultBranchName(ctx, host, remote)
	return name, provider.Failure(err, provider.IDVsls, repoPath, "get default branch")
}

func (b branches) GetMergeBase(ctx context.Context, repoPath string, ref1, ref2 string) (string, error) {
	host, subs, err := b.p.hostSubs(repoPath)
	if err != nil {
		return "", err
	}
	base, err := subs.Branches.GetMergeBase(ctx, host, ref1, ref2)
	return base, provider.Failure(err, provider.IDVsls, repoPath, "get merge base")
}

type contributors struct{ p *Provider }

func (c contributors) GetContributors(ctx context.Context, repoPath string, opts provider.ContributorOptions) ([]provider.Contributor, error) {
	host, subs, err := c.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	list, err := subs.Contributors.GetContributors(ctx, host, opts)
	return list, provider.Failure(err, provider.IDVsls, repoPath, "get contributors")
}

type remotes struct{ p *Provider }

func (r remotes) GetRemote(ctx context.Context, repoPath string, name string) (*provider.Remote, error) {
	host, subs, err := r.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	remote, err := subs.Remotes.GetRemote(ctx, host, name)
	return remote, provider.Failure(err, provider.IDVsls, repoPath, "get remote")
}

func (r remotes) GetRemotes(ctx context.Context, repoPath string) ([]provider.Remote, error) {
	host, subs, err := r.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	list, err := subs.Remotes.GetRemotes(ctx, host)
	return list, provider.Failure(err, provider.IDVsls, repoPath, "get remotes")
}

// status reports the host's working tree. File paths in the result are
// repository-relative and need no translation.
type status struct{ p *Provider }

func (s status) GetStatus(ctx context.Context, repoPath string) (*provider.Status, error) {
	host, subs, err := s.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	st, err := subs.Status.GetStatus(ctx, host)
	return st, provider.Failure(err, provider.IDVsls, repoPath, "get status")
}

func (s status) GetStatusForFile(ctx context.Context, repoPath string, path string) (*provider.FileStatus, error) {
	host, subs, err := s.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	file, err := s.p.argPath(path)
	if err != nil {
		return nil, err
	}
	st, err := subs.Status.GetStatusForFile(ctx, host, file)
	return st, provider.Failure(err, provider.IDVsls, repoPath, "get file status")
}

type tags struct{ p *Provider }

func (t tags) GetTag(ctx context.Context, repoPath string, name string) (*provider.Tag, error) {
	host, subs, err := t.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	tag, err := subs.Tags.GetTag(ctx, host, name)
	return tag, provider.Failure(err, provider.IDVsls, repoPath, "get tag")
}

func (t tags) GetTags(ctx context.Context, repoPath string) ([]provider.Tag, error) {
	host, subs, err := t.p.hostSubs(repoPath)
	if err != nil {
		return nil, err
	}
	list, err := subs.Tags.GetTags(ctx, host)
	return list, provider.Failure(err, provider.IDVsls, repoPath, "get tags")
}
