package git

import (
	"strings"

	"github.com/raphi011/gitprov/internal/provider"
)

// WorktreeListArgs produces the output ParseWorktrees understands.
var WorktreeListArgs = []string{"worktree", "list", "--porcelain"}

// ParseWorktrees parses `git worktree list --porcelain`. The first entry is
// the main worktree.
func ParseWorktrees(out []byte) []provider.Worktree {
	var worktrees []provider.Worktree
	var current provider.Worktree

	flush := func() {
		if current.Path != "" {
			worktrees = append(worktrees, current)
		}
		current = provider.Worktree{}
	}

	for _, line := range strings.Split(string(out), "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
			current.Main = len(worktrees) == 0
		case strings.HasPrefix(line, "HEAD "):
			current.SHA = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "bare":
			current.Bare = true
		case line == "detached":
			current.Detached = true
		case line == "locked" || strings.HasPrefix(line, "locked "):
			current.Locked = true
		case line == "prunable" || strings.HasPrefix(line, "prunable "):
			current.Prunable = true
		}
	}
	flush()

	return worktrees
}
