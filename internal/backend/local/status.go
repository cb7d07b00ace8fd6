package local

import (
	"context"
	"slices"
	"strings"

	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/provider"
)

type status struct{ p *Provider }

func (s status) GetStatus(ctx context.Context, repoPath string) (*provider.Status, error) {
	out, err := s.p.run(ctx, repoPath, git.StatusArgs...)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get status")
	}
	st, err := git.ParseStatus(out)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get status")
	}
	return st, nil
}

func (s status) GetStatusForFile(ctx context.Context, repoPath string, path string) (*provider.FileStatus, error) {
	if path == "" {
		return nil, provider.InvalidInput("path", "file path must not be empty")
	}
	path = strings.TrimPrefix(path, "./")

	args := append(slices.Clone(git.StatusArgs), "--", path)
	out, err := s.p.run(ctx, repoPath, args...)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get file status")
	}
	st, err := git.ParseStatus(out)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGit, repoPath, "get file status")
	}

	for _, f := range st.Files {
		if f.Path == path {
			return &f, nil
		}
	}
	return nil, nil
}
