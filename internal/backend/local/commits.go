package local

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/provider"
)

// GetCommit returns the commit rev resolves to, or nil if it does not
// resolve.
func (p *Provider) GetCommit(ctx context.Context, repoPath string, rev string) (*provider.Commit, error) {
	if rev == "" {
		rev = "HEAD"
	}

	var out *provider.Commit
	err := p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		c, err := resolveCommit(repo, rev)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		commit := convertCommit(c)
		out = &commit
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get commit")
	}
	return out, nil
}

// GetLog walks history from opts.Ref, newest first. A repository without
// commits has an empty log.
func (p *Provider) GetLog(ctx context.Context, repoPath string, opts provider.LogOptions) (*provider.Log, error) {
	limit := opts.EffectiveLimit()
	out := &provider.Log{Commits: []provider.Commit{}}

	err := p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
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

		logOpts := &gogit.LogOptions{From: *hash}
		if opts.Path != "" {
			logOpts.PathFilter = underPath(strings.Trim(opts.Path, "/"))
		}
		iter, err := repo.Log(logOpts)
		if err != nil {
			return err
		}
		defer iter.Close()

		return iter.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(out.Commits) == limit {
				out.HasMore = true
				return storer.ErrStop
			}
			out.Commits = append(out.Commits, convertCommit(c))
			return nil
		})
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get log")
	}
	return out, nil
}

func underPath(dir string) func(string) bool {
	return func(name string) bool {
		return name == dir || strings.HasPrefix(name, dir+"/")
	}
}

// GetDiffStatus lists the files changed between two revisions, with rename
// detection.
func (p *Provider) GetDiffStatus(ctx context.Context, repoPath string, ref1, ref2 string) ([]provider.FileChange, error) {
	if ref1 == "" {
		return nil, provider.InvalidInput("ref1", "revision must not be empty")
	}

	var out []provider.FileChange
	err := p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		from, to, err := diffTrees(repo, ref1, ref2)
		if err != nil {
			return err
		}

		changes, err := object.DiffTreeWithOptions(ctx, from, to, object.DefaultDiffTreeOptions)
		if err != nil {
			return err
		}

		out = make([]provider.FileChange, 0, len(changes))
		for _, ch := range changes {
			fc, err := convertChange(ch)
			if err != nil {
				return err
			}
			out = append(out, fc)
		}
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get diff status")
	}
	return out, nil
}

// diffTrees returns the trees to compare. Without ref2, ref1 is compared
// against its first parent; a root commit is compared against nothing.
func diffTrees(repo *gogit.Repository, ref1, ref2 string) (from, to *object.Tree, err error) {
	c1, err := resolveCommit(repo, ref1)
	if err != nil {
		return nil, nil, err
	}

	if ref2 == "" {
		to, err = c1.Tree()
		if err != nil {
			return nil, nil, err
		}
		if c1.NumParents() == 0 {
			return nil, to, nil
		}
		parent, err := c1.Parent(0)
		if err != nil {
			return nil, nil, err
		}
		from, err = parent.Tree()
		return from, to, err
	}

	c2, err := resolveCommit(repo, ref2)
	if err != nil {
		return nil, nil, err
	}
	if from, err = c1.Tree(); err != nil {
		return nil, nil, err
	}
	to, err = c2.Tree()
	return from, to, err
}

func convertChange(ch *object.Change) (provider.FileChange, error) {
	action, err := ch.Action()
	if err != nil {
		return provider.FileChange{}, err
	}

	switch action {
	case merkletrie.Insert:
		return provider.FileChange{Path: ch.To.Name, Status: provider.StatusAdded}, nil
	case merkletrie.Delete:
		return provider.FileChange{Path: ch.From.Name, Status: provider.StatusDeleted}, nil
	default:
		if ch.From.Name != ch.To.Name {
			return provider.FileChange{
				Path:         ch.To.Name,
				OriginalPath: ch.From.Name,
				Status:       provider.StatusRenamed,
			}, nil
		}
		return provider.FileChange{Path: ch.To.Name, Status: provider.StatusModified}, nil
	}
}

// GetBlame runs git blame, since go-git's blame does not track original
// line numbers.
func (p *Provider) GetBlame(ctx context.Context, repoPath string, path string, rev string) (*provider.Blame, error) {
	if path == "" {
		return nil, provider.InvalidInput("path", "file path must not be empty")
	}

	out, err := p.run(ctx, repoPath, git.BlameArgs(path, rev)...)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get blame")
	}
	blame, err := git.ParseBlame(path, out)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get blame")
	}
	return blame, nil
}

// ValidateReference reports whether ref resolves to an object.
func (p *Provider) ValidateReference(ctx context.Context, repoPath string, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}

	var ok bool
	err := p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		_, err := repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, provider.Failure(err, provider.IDGit, repoPath, "validate reference")
	}
	return ok, nil
}

// GetGitDir locates the git directory of repoPath, following .git files of
// linked worktrees.
func (p *Provider) GetGitDir(ctx context.Context, repoPath string) (*provider.GitDir, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := git.ResolveGitDir(p.fs, repoPath)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get git dir")
	}
	return dir, nil
}

func resolveCommit(repo *gogit.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, err
	}
	return repo.CommitObject(*hash)
}

func convertCommit(c *object.Commit) provider.Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, h := range c.ParentHashes {
		parents = append(parents, h.String())
	}
	return provider.Commit{
		SHA:        c.Hash.String(),
		ParentSHAs: parents,
		Author:     convertSignature(c.Author),
		Committer:  convertSignature(c.Committer),
		Message:    c.Message,
	}
}

func convertSignature(s object.Signature) provider.Signature {
	return provider.Signature{Name: s.Name, Email: s.Email, When: s.When}
}
