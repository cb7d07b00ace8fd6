package local

import (
	"context"

	"github.com/raphi011/gitprov/internal/provider"
)

var indexChanges = []provider.Change{provider.ChangeIndex, provider.ChangeStatus}

type staging struct{ p *Provider }

func (s staging) StageFiles(ctx context.Context, repoPath string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	return s.p.mutate(ctx, repoPath, "stage files", indexChanges, args...)
}

func (s staging) UnstageFiles(ctx context.Context, repoPath string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"restore", "--staged", "--"}, paths...)
	return s.p.mutate(ctx, repoPath, "unstage files", indexChanges, args...)
}
