package remotehub

import (
	"context"
	"strings"

	"github.com/raphi011/gitprov/internal/provider"
)

type branches struct{ p *Provider }

// GetBranch returns the default branch when name is empty. Names prefixed
// with the synthetic remote resolve to remote-tracking branches.
func (b branches) GetBranch(ctx context.Context, repoPath string, name string) (*provider.Branch, error) {
	repo, err := b.p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get branch")
	}

	remote := false
	if rest, ok := strings.CutPrefix(name, RemoteName+"/"); ok {
		name, remote = rest, true
	}
	if name == "" {
		name = repo.info.DefaultBranch
	}

	br, err := b.p.client.GetBranch(ctx, repo.slug.Owner, repo.slug.Name, name)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get branch")
	}
	if br == nil {
		return nil, nil
	}
	if remote {
		br.Name, br.Remote = RemoteName+"/"+br.Name, true
	} else {
		br.Current = br.Name == repo.info.DefaultBranch
		br.Upstream = RemoteName + "/" + br.Name
	}
	return br, nil
}

// GetBranches lists the hosted branches. The default branch is current.
// With IncludeRemote each branch is also reported under the synthetic
// remote.
func (b branches) GetBranches(ctx context.Context, repoPath string, opts provider.BranchOptions) ([]provider.Branch, error) {
	repo, err := b.p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get branches")
	}
	list, err := b.p.client.ListBranches(ctx, repo.slug.Owner, repo.slug.Name)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get branches")
	}

	out := make([]provider.Branch, 0, len(list))
	for _, br := range list {
		br.Current = br.Name == repo.info.DefaultBranch
		br.Upstream = RemoteName + "/" + br.Name
		out = append(out, br)
	}
	if opts.IncludeRemote {
		for _, br := range list {
			out = append(out, provider.Branch{Name: RemoteName + "/" + br.Name, Remote: true, SHA: br.SHA, Date: br.Date})
		}
	}
	return out, nil
}

// GetDefaultBranchName knows only the synthetic remote.
func (b branches) GetDefaultBranchName(ctx context.Context, repoPath string, remote string) (string, error) {
	if remote != "" && remote != RemoteName {
		return "", nil
	}
	repo, err := b.p.mustLookup(ctx, repoPath)
	if err != nil {
		return "", provider.Failure(err, provider.IDGitHub, repoPath, "get default branch")
	}
	return repo.info.DefaultBranch, nil
}

func (b branches) GetMergeBase(ctx context.Context, repoPath string, ref1, ref2 string) (string, error) {
	repo, err := b.p.mustLookup(ctx, repoPath)
	if err != nil {
		return "", provider.Failure(err, provider.IDGitHub, repoPath, "get merge base")
	}
	cmp, err := b.p.client.Compare(ctx, repo.slug.Owner, repo.slug.Name, ref1, ref2)
	if err != nil {
		return "", provider.Failure(err, provider.IDGitHub, repoPath, "get merge base")
	}
	if cmp == nil {
		return "", nil
	}
	return cmp.MergeBase, nil
}

type contributors struct{ p *Provider }

// GetContributors reports the host's contributor statistics, which always
// cover the default branch. opts.Limit caps the number of contributors.
func (c contributors) GetContributors(ctx context.Context, repoPath string, opts provider.ContributorOptions) ([]provider.Contributor, error) {
	repo, err := c.p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get contributors")
	}
	list, err := c.p.client.ListContributors(ctx, repo.slug.Owner, repo.slug.Name, opts.Limit)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get contributors")
	}
	return list, nil
}

type remotes struct{ p *Provider }

func (r remotes) GetRemote(ctx context.Context, repoPath string, name string) (*provider.Remote, error) {
	if name != RemoteName {
		return nil, nil
	}
	repo, err := r.p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get remote")
	}
	remote := origin(repo)
	return &remote, nil
}

// GetRemotes returns the single synthetic origin remote.
func (r remotes) GetRemotes(ctx context.Context, repoPath string) ([]provider.Remote, error) {
	repo, err := r.p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get remotes")
	}
	return []provider.Remote{origin(repo)}, nil
}

func origin(repo *remoteRepo) provider.Remote {
	url := repo.info.CloneURL
	if url == "" {
		url = "https://" + repo.slug.Host + "/" + repo.slug.FullName() + ".git"
	}
	return provider.Remote{Name: RemoteName, URLs: []string{url}}
}

// status is empty: there is no working tree.
type status struct{}

func (status) GetStatus(ctx context.Context, _ string) (*provider.Status, error) {
	return nil, ctx.Err()
}

func (status) GetStatusForFile(ctx context.Context, _ string, _ string) (*provider.FileStatus, error) {
	return nil, ctx.Err()
}

type tags struct{ p *Provider }

func (t tags) GetTag(ctx context.Context, repoPath string, name string) (*provider.Tag, error) {
	list, err := t.GetTags(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	for _, tag := range list {
		if tag.Name == name {
			return &tag, nil
		}
	}
	return nil, nil
}

func (t tags) GetTags(ctx context.Context, repoPath string) ([]provider.Tag, error) {
	repo, err := t.p.mustLookup(ctx, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get tags")
	}
	list, err := t.p.client.ListTags(ctx, repo.slug.Owner, repo.slug.Name)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, repoPath, "get tags")
	}
	return list, nil
}
