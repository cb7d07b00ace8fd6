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

type tags struct{ p *Provider }

func (t tags) GetTag(ctx context.Context, repoPath string, name string) (*provider.Tag, error) {
	var out *provider.Tag
	err := t.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		ref, err := repo.Tag(name)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		tag := convertTag(repo, ref)
		out = &tag
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get tag")
	}
	return out, nil
}

// GetTags returns all tags sorted by name.
func (t tags) GetTags(ctx context.Context, repoPath string) ([]provider.Tag, error) {
	var out []provider.Tag
	err := t.p.withRepo(ctx, repoPath, func(repo *gogit.Repository) error {
		iter, err := repo.Tags()
		if err != nil {
			return err
		}
		defer iter.Close()

		if err := iter.ForEach(func(ref *plumbing.Reference) error {
			out = append(out, convertTag(repo, ref))
			return nil
		}); err != nil {
			return err
		}
		slices.SortFunc(out, func(a, b provider.Tag) int { return cmp.Compare(a.Name, b.Name) })
		return nil
	})
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get tags")
	}
	return out, nil
}

// convertTag reports annotated tags with the object they point at, and
// lightweight tags with their commit date.
func convertTag(repo *gogit.Repository, ref *plumbing.Reference) provider.Tag {
	tag := provider.Tag{Name: ref.Name().Short(), SHA: ref.Hash().String()}

	if obj, err := repo.TagObject(ref.Hash()); err == nil {
		tag.Annotated = true
		tag.SHA = obj.Target.String()
		tag.Message = strings.TrimSpace(obj.Message)
		tag.Date = obj.Tagger.When
		return tag
	}
	if c, err := repo.CommitObject(ref.Hash()); err == nil {
		tag.Date = c.Committer.When
	}
	return tag
}
