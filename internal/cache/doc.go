// Package cache keeps per-repository query results coherent.
//
// The [Registry] is the closed set of cacheable results:
//
//	branches, contributors, providers, remotes, stashes, status, tags, worktrees
//
// Each key has a [Scope]. Branches and remotes are repository-scoped: every
// change event of their repository drops them. Provider-scoped keys
// (contributors, stashes, status, tags, worktrees) are dropped by narrower
// signals, such as a stash change or a stash operation run through the
// repository handle, so that an unrelated working-tree change does not force
// remote data to be fetched again. The global "providers" key only goes away
// on an explicit reset.
//
// A [Store] belongs to exactly one repository handle. [Load] populates a key
// at most once at a time; readers arriving while a fetch is running wait for
// it instead of starting their own.
package cache
