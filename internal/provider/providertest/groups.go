package providertest

import (
	"context"
	"slices"
	"strconv"

	"github.com/raphi011/gitprov/internal/provider"
)

type branches struct{ f *Fake }

func (b branches) GetBranch(ctx context.Context, repoPath string, name string) (*provider.Branch, error) {
	repo, err := b.f.enter(ctx, "GetBranch", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	for _, br := range repo.Branches {
		if br.Name == name || (name == "" && br.Current) {
			return &br, nil
		}
	}
	return nil, nil
}

func (b branches) GetBranches(ctx context.Context, repoPath string, opts provider.BranchOptions) ([]provider.Branch, error) {
	repo, err := b.f.enter(ctx, "GetBranches", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	var out []provider.Branch
	for _, br := range repo.Branches {
		if !br.Remote || opts.IncludeRemote {
			out = append(out, br)
		}
	}
	return out, nil
}

func (b branches) GetDefaultBranchName(ctx context.Context, repoPath string, remote string) (string, error) {
	repo, err := b.f.enter(ctx, "GetDefaultBranchName", repoPath)
	if err != nil || repo == nil || len(repo.Branches) == 0 {
		return "", err
	}
	return repo.Branches[0].Name, nil
}

func (b branches) GetMergeBase(ctx context.Context, repoPath string, ref1, ref2 string) (string, error) {
	_, err := b.f.enter(ctx, "GetMergeBase", repoPath)
	return "", err
}

type contributors struct{ f *Fake }

func (c contributors) GetContributors(ctx context.Context, repoPath string, _ provider.ContributorOptions) ([]provider.Contributor, error) {
	repo, err := c.f.enter(ctx, "GetContributors", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	return slices.Clone(repo.Contributors), nil
}

type remotes struct{ f *Fake }

func (r remotes) GetRemote(ctx context.Context, repoPath string, name string) (*provider.Remote, error) {
	repo, err := r.f.enter(ctx, "GetRemote", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	for _, rem := range repo.Remotes {
		if rem.Name == name {
			return &rem, nil
		}
	}
	return nil, nil
}

func (r remotes) GetRemotes(ctx context.Context, repoPath string) ([]provider.Remote, error) {
	repo, err := r.f.enter(ctx, "GetRemotes", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	return slices.Clone(repo.Remotes), nil
}

type status struct{ f *Fake }

func (s status) GetStatus(ctx context.Context, repoPath string) (*provider.Status, error) {
	repo, err := s.f.enter(ctx, "GetStatus", repoPath)
	if err != nil || repo == nil || repo.Status == nil {
		return nil, err
	}
	st := *repo.Status
	st.Files = slices.Clone(st.Files)
	return &st, nil
}

func (s status) GetStatusForFile(ctx context.Context, repoPath string, path string) (*provider.FileStatus, error) {
	repo, err := s.f.enter(ctx, "GetStatusForFile", repoPath)
	if err != nil || repo == nil || repo.Status == nil {
		return nil, err
	}
	for _, fs := range repo.Status.Files {
		if fs.Path == path {
			return &fs, nil
		}
	}
	return nil, nil
}

type tags struct{ f *Fake }

func (t tags) GetTag(ctx context.Context, repoPath string, name string) (*provider.Tag, error) {
	repo, err := t.f.enter(ctx, "GetTag", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	for _, tag := range repo.Tags {
		if tag.Name == name {
			return &tag, nil
		}
	}
	return nil, nil
}

func (t tags) GetTags(ctx context.Context, repoPath string) ([]provider.Tag, error) {
	repo, err := t.f.enter(ctx, "GetTags", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	return slices.Clone(repo.Tags), nil
}

// stash keeps entries newest first, like git.
type stash struct{ f *Fake }

func (s stash) GetStash(ctx context.Context, repoPath string) (*provider.Stash, error) {
	repo, err := s.f.enter(ctx, "GetStash", repoPath)
	if err != nil || repo == nil || len(repo.Stash) == 0 {
		return nil, err
	}
	return &provider.Stash{Entries: slices.Clone(repo.Stash)}, nil
}

func (s stash) SaveStash(ctx context.Context, repoPath string, message string, _ provider.StashSaveOptions) error {
	repo, err := s.f.enter(ctx, "SaveStash", repoPath)
	if err != nil || repo == nil {
		return err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	repo.Stash = slices.Insert(repo.Stash, 0, provider.StashEntry{Message: message})
	renumber(repo.Stash)
	return nil
}

func (s stash) ApplyStash(ctx context.Context, repoPath string, ref string, deleteAfter bool) error {
	if !deleteAfter {
		_, err := s.f.enter(ctx, "ApplyStash", repoPath)
		return err
	}
	return s.drop(ctx, "ApplyStash", repoPath, ref)
}

func (s stash) DeleteStash(ctx context.Context, repoPath string, ref string) error {
	return s.drop(ctx, "DeleteStash", repoPath, ref)
}

func (s stash) drop(ctx context.Context, method, repoPath, ref string) error {
	repo, err := s.f.enter(ctx, method, repoPath)
	if err != nil || repo == nil {
		return err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i, e := range repo.Stash {
		if e.Ref == ref || (ref == "" && i == 0) {
			repo.Stash = slices.Delete(repo.Stash, i, i+1)
			renumber(repo.Stash)
			return nil
		}
	}
	return nil
}

func renumber(entries []provider.StashEntry) {
	for i := range entries {
		entries[i].Ref = "stash@{" + strconv.Itoa(i) + "}"
	}
}

type worktrees struct{ f *Fake }

func (w worktrees) GetWorktrees(ctx context.Context, repoPath string) ([]provider.Worktree, error) {
	repo, err := w.f.enter(ctx, "GetWorktrees", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	return slices.Clone(repo.Worktrees), nil
}

func (w worktrees) CreateWorktree(ctx context.Context, repoPath string, path string, opts provider.WorktreeCreateOptions) error {
	repo, err := w.f.enter(ctx, "CreateWorktree", repoPath)
	if err != nil || repo == nil {
		return err
	}
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	repo.Worktrees = append(repo.Worktrees, provider.Worktree{Path: path, Branch: opts.NewBranch, Detached: opts.Detach})
	return nil
}

func (w worktrees) DeleteWorktree(ctx context.Context, repoPath string, path string, _ bool) error {
	repo, err := w.f.enter(ctx, "DeleteWorktree", repoPath)
	if err != nil || repo == nil {
		return err
	}
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	repo.Worktrees = slices.DeleteFunc(repo.Worktrees, func(wt provider.Worktree) bool { return wt.Path == path })
	return nil
}

// staging moves paths between untracked and added in the fake status.
type staging struct{ f *Fake }

func (s staging) StageFiles(ctx context.Context, repoPath string, paths []string) error {
	return s.set(ctx, "StageFiles", repoPath, paths, provider.StatusAdded)
}

func (s staging) UnstageFiles(ctx context.Context, repoPath string, paths []string) error {
	return s.set(ctx, "UnstageFiles", repoPath, paths, provider.StatusUntracked)
}

func (s staging) set(ctx context.Context, method, repoPath string, paths []string, code provider.StatusCode) error {
	repo, err := s.f.enter(ctx, method, repoPath)
	if err != nil || repo == nil || repo.Status == nil {
		return err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range repo.Status.Files {
		if slices.Contains(paths, repo.Status.Files[i].Path) {
			repo.Status.Files[i].Index = code
		}
	}
	return nil
}
