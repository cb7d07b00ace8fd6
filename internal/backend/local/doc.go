// Package local is the backend for git repositories on disk.
//
// Reads that go-git answers well (commits, refs, tags, remotes, history
// aggregation) go through go-git directly. Working-tree state and every
// mutation run the git binary through a [git.Runner], so hooks, filters and
// credential helpers of the user's installation apply. Mutations are
// bracketed by will-change and did-change events naming what changed.
package local
