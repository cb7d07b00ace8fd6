package local

import (
	"context"
	"path/filepath"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

type terminal struct{ p *Provider }

// RunGitCommandViaTerminal runs git command args... attached to the
// terminal. The command may change anything, so the did-change event
// carries no change kinds.
func (t terminal) RunGitCommandViaTerminal(ctx context.Context, repoPath string, command string, args []string) error {
	if command == "" {
		return provider.InvalidInput("command", "git command must not be empty")
	}

	root := paths.BestPath(repoPath)
	t.p.events.Emit(provider.Event{Kind: provider.EventWillChange, Root: root, Provider: provider.IDGit})

	argv := append([]string{command}, args...)
	if err := t.p.terminal(ctx, filepath.FromSlash(root), argv...); err != nil {
		return provider.Failure(err, provider.IDGit, repoPath, "run git "+command)
	}

	t.p.events.Emit(provider.Event{Kind: provider.EventDidChange, Root: root, Provider: provider.IDGit})
	return nil
}
