package local

import (
	"context"

	"github.com/raphi011/gitprov/internal/provider"
)

type operations struct{ p *Provider }

func (o operations) Checkout(ctx context.Context, repoPath string, ref string, opts provider.CheckoutOptions) error {
	if ref == "" {
		return provider.InvalidInput("ref", "ref must not be empty")
	}
	if err := checkRef("ref", ref); err != nil {
		return err
	}
	if err := checkRef("newBranch", opts.NewBranch); err != nil {
		return err
	}

	args := []string{"checkout"}
	changes := []provider.Change{provider.ChangeHead, provider.ChangeIndex, provider.ChangeStatus}
	if opts.NewBranch != "" {
		args = append(args, "-b", opts.NewBranch)
		changes = append(changes, provider.ChangeHeads)
	}
	args = append(args, ref, "--")
	return o.p.mutate(ctx, repoPath, "checkout", changes, args...)
}

// Fetch fetches opts.Remote, or the default remote when empty.
func (o operations) Fetch(ctx context.Context, repoPath string, opts provider.FetchOptions) error {
	if err := checkRef("remote", opts.Remote); err != nil {
		return err
	}

	args := []string{"fetch"}
	if opts.Prune {
		args = append(args, "--prune")
	}
	switch {
	case opts.All:
		args = append(args, "--all")
	case opts.Remote != "":
		args = append(args, opts.Remote)
	}
	return o.p.mutate(ctx, repoPath, "fetch", []provider.Change{provider.ChangeHeads, provider.ChangeTags}, args...)
}

func (o operations) Pull(ctx context.Context, repoPath string, opts provider.PullOptions) error {
	args := []string{"pull"}
	if opts.Rebase {
		args = append(args, "--rebase")
	}
	return o.p.mutate(ctx, repoPath, "pull", []provider.Change{
		provider.ChangeHead, provider.ChangeHeads, provider.ChangeIndex, provider.ChangeStatus, provider.ChangeTags,
	}, args...)
}

// Push pushes opts.Branch to opts.Remote. Force uses --force-with-lease.
func (o operations) Push(ctx context.Context, repoPath string, opts provider.PushOptions) error {
	if err := checkRef("remote", opts.Remote); err != nil {
		return err
	}
	if err := checkRef("branch", opts.Branch); err != nil {
		return err
	}
	if opts.Branch != "" && opts.Remote == "" {
		return provider.InvalidInput("remote", "remote is required when a branch is given")
	}

	args := []string{"push"}
	if opts.Force {
		args = append(args, "--force-with-lease")
	}
	if opts.SetUpstream {
		args = append(args, "--set-upstream")
	}
	if opts.Remote != "" {
		args = append(args, opts.Remote)
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}
	return o.p.mutate(ctx, repoPath, "push", []provider.Change{provider.ChangeHeads, provider.ChangeConfig}, args...)
}

func (o operations) Reset(ctx context.Context, repoPath string, ref string, mode provider.ResetMode) error {
	switch mode {
	case "":
		mode = provider.ResetMixed
	case provider.ResetSoft, provider.ResetMixed, provider.ResetHard:
	default:
		return provider.InvalidInput("mode", "unknown reset mode: "+string(mode))
	}
	if err := checkRef("ref", ref); err != nil {
		return err
	}

	args := []string{"reset", "--" + string(mode)}
	if ref != "" {
		args = append(args, ref)
	}
	return o.p.mutate(ctx, repoPath, "reset", []provider.Change{
		provider.ChangeHead, provider.ChangeIndex, provider.ChangeStatus,
	}, args...)
}
