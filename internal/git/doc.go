// Package git runs the git CLI and parses its machine-readable output.
//
// Everything that needs the user's git configuration (credential helpers,
// hooks, SSH setup) or has no library equivalent goes through a [Runner]:
// status, stash, worktrees, blame, diffs and the mutating operations.
// [CLI] is the production runner; tests substitute a [RunnerFunc].
//
// # Parsers
//
//   - [ParseStatus]: git status --porcelain=v2 --branch -z
//   - [ParseWorktrees]: git worktree list --porcelain
//   - [ParseStashList]: git stash list with [StashListArgs]
//   - [ParseBlame]: git blame --porcelain
//   - [ParseNameStatus]: git diff --name-status -z
//
// # Git Directories
//
// [ResolveGitDir] reads .git files of linked worktrees through a go-billy
// filesystem, following "commondir" to the shared repository.
package git
