package local

import (
	"context"

	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/provider"
)

type worktrees struct{ p *Provider }

func (w worktrees) GetWorktrees(ctx context.Context, repoPath string) ([]provider.Worktree, error) {
	out, err := w.p.run(ctx, repoPath, git.WorktreeListArgs...)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get worktrees")
	}
	return git.ParseWorktrees(out), nil
}

// CreateWorktree adds a linked worktree at path.
func (w worktrees) CreateWorktree(ctx context.Context, repoPath string, path string, opts provider.WorktreeCreateOptions) error {
	if path == "" {
		return provider.InvalidInput("path", "worktree path must not be empty")
	}
	if err := checkRef("ref", opts.Ref); err != nil {
		return err
	}
	if err := checkRef("newBranch", opts.NewBranch); err != nil {
		return err
	}

	args := []string{"worktree", "add"}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.Detach {
		args = append(args, "--detach")
	}
	changes := []provider.Change{provider.ChangeWorktrees}
	if opts.NewBranch != "" {
		args = append(args, "-b", opts.NewBranch)
		changes = append(changes, provider.ChangeHeads)
	}
	args = append(args, "--", path)
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	return w.p.mutate(ctx, repoPath, "create worktree", changes, args...)
}

func (w worktrees) DeleteWorktree(ctx context.Context, repoPath string, path string, force bool) error {
	if path == "" {
		return provider.InvalidInput("path", "worktree path must not be empty")
	}
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "--", path)
	return w.p.mutate(ctx, repoPath, "delete worktree", []provider.Change{provider.ChangeWorktrees}, args...)
}
