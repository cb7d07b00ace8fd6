// Package provider defines the contract between gitprov and its repository
// backends.
//
// A backend implements [Provider]. Besides the required operations (commit
// lookup, log, diff status, blame, reference validation, git directory) it
// exposes its feature areas through [SubProviders]. Branches, contributors,
// remotes, status and tags are always there; patch, staging, stash,
// worktrees, mutating operations and terminal execution are optional and
// simply nil when a backend lacks them. Callers check the field, never the
// concrete type:
//
//	if stash := p.SubProviders().Stash; stash != nil {
//	    entries, err := stash.GetStash(ctx, repoPath)
//	}
//
// # Bound views
//
// Every sub-provider method takes the repository path right after the
// context. [Bind] and the Bind* functions wrap a sub-provider so that the
// path is fixed; the generated Bound* types in bound.go forward every call
// with the original path and keep no state of their own.
//
// # Absence and failure
//
// Lookups return nil with a nil error when nothing was found. [Failure]
// decorates backend errors with the backend ID and repository path, leaves
// context cancellation untouched, and [InvalidInput] reports malformed
// arguments. Errors use github.com/jmgilman/go/errors codes.
package provider

//go:generate go run ../../tools/bindgen -dir . -out bound.go
