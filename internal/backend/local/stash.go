package local

import (
	"context"

	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/provider"
)

var stashChanges = []provider.Change{provider.ChangeStash, provider.ChangeStatus, provider.ChangeIndex}

type stash struct{ p *Provider }

func (s stash) GetStash(ctx context.Context, repoPath string) (*provider.Stash, error) {
	out, err := s.p.run(ctx, repoPath, git.StashListArgs...)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get stash")
	}
	st, err := git.ParseStashList(out)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get stash")
	}
	if len(st.Entries) == 0 {
		return nil, nil
	}
	return st, nil
}

func (s stash) SaveStash(ctx context.Context, repoPath string, message string, opts provider.StashSaveOptions) error {
	return s.p.mutate(ctx, repoPath, "save stash", stashChanges, git.StashPushArgs(message, opts)...)
}

// ApplyStash applies ref, or the newest entry when ref is empty. With
// deleteAfter the entry is popped.
func (s stash) ApplyStash(ctx context.Context, repoPath string, ref string, deleteAfter bool) error {
	if err := checkRef("ref", ref); err != nil {
		return err
	}
	args := []string{"stash", "apply"}
	if deleteAfter {
		args[1] = "pop"
	}
	if ref != "" {
		args = append(args, ref)
	}
	return s.p.mutate(ctx, repoPath, "apply stash", stashChanges, args...)
}

func (s stash) DeleteStash(ctx context.Context, repoPath string, ref string) error {
	if err := checkRef("ref", ref); err != nil {
		return err
	}
	args := []string{"stash", "drop"}
	if ref != "" {
		args = append(args, ref)
	}
	return s.p.mutate(ctx, repoPath, "delete stash", []provider.Change{provider.ChangeStash}, args...)
}
