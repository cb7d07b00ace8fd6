// Package cmd provides helpers for executing external commands with proper error handling.
//
// The helpers wrap [os/exec.Cmd] so that stderr ends up in the returned error,
// commands are traced through the context logger in verbose mode, and a
// cancelled context is reported as the context error rather than as a killed
// process.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoDir, "git", "fetch", "--prune"); err != nil {
//	    // err carries git's stderr, or context.Canceled
//	}
//
//	out, err := cmd.OutputContext(ctx, repoDir, "git", "status", "--porcelain=v1")
//
// gitprov shells out to the git CLI for working-tree state (status, stash,
// worktrees, blame) so that user configuration like hooks, credential helpers
// and sparse checkouts keeps applying.
package cmd
