package local

import (
	"cmp"
	"context"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/raphi011/gitprov/internal/provider"
)

type branches struct{ p *Provider }

// GetBranch implements provider.BranchesSubProvider. Local branches win
// over remote-tracking branches of the same name.
func (b branches) GetBranch(ctx context.Context, repoPath string, name string) (*provider.Branch, error) {
	var out *provider.Branch
	err := b.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		current := currentBranch(repo)
		if name == "" {
			if current == "" {
				return nil
			}
			name = current
		}

		for _, refName := range []plumbing.ReferenceName{
			plumbing.NewBranchReferenceName(name),
			plumbing.ReferenceName("refs/remotes/" + name),
		} {
			ref, err := repo.Reference(refName, true)
			if err != nil {
				if isNotFound(err) {
					continue
				}
				return err
			}
			br := branchFromRef(repo, ref, current)
			out = &br
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get branch")
	}
	return out, nil
}

// GetBranches implements provider.BranchesSubProvider. Local branches come
// first, each group sorted by name. Symbolic remote refs such as origin/HEAD
// are skipped.
func (b branches) GetBranches(ctx context.Context, repoPath string, opts provider.BranchOptions) ([]provider.Branch, error) {
	var out []provider.Branch
	err := b.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		current := currentBranch(repo)

		refs, err := repo.References()
		if err != nil {
			return err
		}
		defer refs.Close()

		err = refs.ForEach(func(ref *plumbing.Reference) error {
			if ref.Type() != plumbing.HashReference {
				return nil
			}
			switch {
			case ref.Name().IsBranch():
			case ref.Name().IsRemote() && opts.IncludeRemote:
				if strings.HasSuffix(ref.Name().String(), "/HEAD") {
					return nil
				}
			default:
				return nil
			}
			out = append(out, branchFromRef(repo, ref, current))
			return nil
		})
		if err != nil {
			return err
		}

		slices.SortFunc(out, func(a, b provider.Branch) int {
			if a.Remote != b.Remote {
				if a.Remote {
					return 1
				}
				return -1
			}
			return cmp.Compare(a.Name, b.Name)
		})
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get branches")
	}
	return out, nil
}

// GetDefaultBranchName reads refs/remotes/<remote>/HEAD. Without it, main
// and master are tried on the remote and then locally.
func (b branches) GetDefaultBranchName(ctx context.Context, repoPath string, remote string) (string, error) {
	if remote == "" {
		remote = "origin"
	}
	if err := checkRef("remote", remote); err != nil {
		return "", err
	}

	var name string
	err := b.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		prefix := "refs/remotes/" + remote + "/"

		ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName(remote), false)
		if err == nil && ref.Type() == plumbing.SymbolicReference {
			if target := ref.Target().String(); strings.HasPrefix(target, prefix) {
				name = strings.TrimPrefix(target, prefix)
				return nil
			}
		} else if err != nil && !isNotFound(err) {
			return err
		}

		for _, candidate := range []plumbing.ReferenceName{
			plumbing.NewRemoteReferenceName(remote, "main"),
			plumbing.NewRemoteReferenceName(remote, "master"),
			plumbing.NewBranchReferenceName("main"),
			plumbing.NewBranchReferenceName("master"),
		} {
			if _, err := repo.Reference(candidate, false); err == nil {
				name = candidate.Short()
				name = strings.TrimPrefix(name, remote+"/")
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return "", provider.Failure(err, provider.IDGit, repoPath, "get default branch")
	}
	return name, nil
}

// GetMergeBase implements provider.BranchesSubProvider. It returns empty when
// either ref does not resolve or the histories are unrelated.
func (b branches) GetMergeBase(ctx context.Context, repoPath string, ref1, ref2 string) (string, error) {
	var base string
	err := b.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		c1, err := resolveCommit(repo, ref1)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		c2, err := resolveCommit(repo, ref2)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}

		bases, err := c1.MergeBase(c2)
		if err != nil {
			return err
		}
		if len(bases) > 0 {
			base = bases[0].Hash.String()
		}
		return nil
	})
	if err != nil {
		return "", provider.Failure(err, provider.IDGit, repoPath, "get merge base")
	}
	return base, nil
}

// currentBranch returns the branch HEAD points at, or empty when HEAD is
// detached. An unborn branch still counts as current.
func currentBranch(repo *gogit.Repository) string {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return ""
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short()
	}
	return ""
}

func branchFromRef(repo *gogit.Repository, ref *plumbing.Reference, current string) provider.Branch {
	br := provider.Branch{
		Name:   ref.Name().Short(),
		Remote: ref.Name().IsRemote(),
		SHA:    ref.Hash().String(),
	}
	if !br.Remote {
		br.Current = br.Name == current
		br.Upstream = upstream(repo, br.Name)
	}
	if c, err := repo.CommitObject(ref.Hash()); err == nil {
		br.Date = c.Committer.When
	}
	return br
}

func upstream(repo *gogit.Repository, branch string) string {
	cfg, err := repo.Config()
	if err != nil {
		return ""
	}
	bc, ok := cfg.Branches[branch]
	if !ok || bc.Remote == "" || bc.Merge == "" {
		return ""
	}
	if bc.Remote == "." {
		return bc.Merge.Short()
	}
	return bc.Remote + "/" + bc.Merge.Short()
}
