// Package repository holds the per-repository state the router keeps for
// every opened repository: the backend it belongs to, bound sub-providers
// and the cached query results.
//
// Reads through a [Handle] are cached in its [cache.Store]. Mutating calls
// made through the handle drop the keys they affect; every other change
// reaches the handle as a change event via [Handle.Invalidate].
package repository

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/cache"
	"github.com/raphi011/gitprov/internal/provider"
)

var (
	// ErrClosed is returned by calls on a closed handle.
	ErrClosed = errors.New(errors.CodeUnavailable, "repository is closed")
	// ErrUnsupported is returned when a mutating call needs a feature group
	// the backend does not offer.
	ErrUnsupported = errors.New(errors.CodeNotImplemented, "operation not supported by this provider")
)

// Handle is an opened repository.
type Handle struct {
	root     string
	provider provider.Provider
	desc     provider.Descriptor
	gitDir   *provider.GitDir

	subs     *provider.BoundSubProviders
	store    *cache.Store
	registry *cache.Registry

	closed atomic.Bool
}

// New wraps the repository p reported in info. A nil registry means
// cache.DefaultRegistry.
func New(p provider.Provider, info provider.RepositoryInfo, registry *cache.Registry) *Handle {
	if registry == nil {
		registry = cache.DefaultRegistry
	}
	return &Handle{
		root:     info.Root,
		provider: p,
		desc:     p.Descriptor(),
		gitDir:   info.GitDir,
		subs:     provider.Bind(p.SubProviders(), info.Root),
		store:    cache.NewStore(registry),
		registry: registry,
	}
}

// Root returns the repository path as the backend reported it.
func (h *Handle) Root() string { return h.root }

// Provider returns the backend serving the repository.
func (h *Handle) Provider() provider.Provider { return h.provider }

func (h *Handle) ProviderID() provider.ID { return h.desc.ID }

func (h *Handle) Virtual() bool { return h.desc.Virtual }

// GitDir returns the git directory reported on open, or nil.
func (h *Handle) GitDir() *provider.GitDir { return h.gitDir }

// SubProviders returns the bound sub-providers. Calls through them bypass
// the cache.
func (h *Handle) SubProviders() *provider.BoundSubProviders { return h.subs }

// Capabilities lists the optional feature groups of the backend.
func (h *Handle) Capabilities() []provider.Capability {
	return h.provider.SubProviders().Capabilities()
}

// Store exposes the handle's cache, mostly for inspection.
func (h *Handle) Store() *cache.Store { return h.store }

// Closed reports whether Close was called.
func (h *Handle) Closed() bool { return h.closed.Load() }

// Close drops every cached value. Later calls return ErrClosed.
func (h *Handle) Close() {
	if h.closed.Swap(true) {
		return
	}
	h.store.Close()
}

// Invalidate drops what a change event carrying changes invalidates: the
// repository-scoped keys plus the keys mapped from the change kinds.
func (h *Handle) Invalidate(changes []provider.Change) {
	h.store.Invalidate(h.registry.KeysForChanges(changes)...)
}

// Reset drops keys; without keys it drops everything.
func (h *Handle) Reset(keys ...cache.Key) {
	if len(keys) == 0 {
		h.store.Clear()
		return
	}
	h.store.Invalidate(keys...)
}

func (h *Handle) check() error {
	if h.closed.Load() {
		return ErrClosed
	}
	return nil
}

// load reads key through the cache.
func load[T any](ctx context.Context, h *Handle, key cache.Key, fetch func(context.Context) (T, error)) (T, error) {
	if err := h.check(); err != nil {
		var zero T
		return zero, err
	}
	return cache.Load(ctx, h.store, key, fetch)
}

// Branches returns local branches, plus remote-tracking ones when
// includeRemote is set. Both views share one cached listing.
func (h *Handle) Branches(ctx context.Context, includeRemote bool) ([]provider.Branch, error) {
	all, err := load(ctx, h, cache.KeyBranches, func(ctx context.Context) ([]provider.Branch, error) {
		return h.subs.Branches.GetBranches(ctx, provider.BranchOptions{IncludeRemote: true})
	})
	if err != nil {
		return nil, err
	}
	if includeRemote {
		return slices.Clone(all), nil
	}
	var local []provider.Branch
	for _, b := range all {
		if !b.Remote {
			local = append(local, b)
		}
	}
	return local, nil
}

func (h *Handle) Remotes(ctx context.Context) ([]provider.Remote, error) {
	list, err := load(ctx, h, cache.KeyRemotes, h.subs.Remotes.GetRemotes)
	return slices.Clone(list), err
}

func (h *Handle) Tags(ctx context.Context) ([]provider.Tag, error) {
	list, err := load(ctx, h, cache.KeyTags, h.subs.Tags.GetTags)
	return slices.Clone(list), err
}

// Contributors returns contributors of the default history.
func (h *Handle) Contributors(ctx context.Context) ([]provider.Contributor, error) {
	list, err := load(ctx, h, cache.KeyContributors, func(ctx context.Context) ([]provider.Contributor, error) {
		return h.subs.Contributors.GetContributors(ctx, provider.ContributorOptions{})
	})
	return slices.Clone(list), err
}

// Status returns nil when the backend has no working tree.
func (h *Handle) Status(ctx context.Context) (*provider.Status, error) {
	return load(ctx, h, cache.KeyStatus, h.subs.Status.GetStatus)
}

// Stash returns nil when the stash is empty or unsupported.
func (h *Handle) Stash(ctx context.Context) (*provider.Stash, error) {
	if h.subs.Stash == nil {
		return nil, h.check()
	}
	return load(ctx, h, cache.KeyStashes, h.subs.Stash.GetStash)
}

// Worktrees returns nil when the backend has no worktrees.
func (h *Handle) Worktrees(ctx context.Context) ([]provider.Worktree, error) {
	if h.subs.Worktrees == nil {
		return nil, h.check()
	}
	list, err := load(ctx, h, cache.KeyWorktrees, h.subs.Worktrees.GetWorktrees)
	return slices.Clone(list), err
}

// mutate runs fn and then drops keys, whether fn succeeded or not.
func (h *Handle) mutate(supported bool, keys []cache.Key, fn func() error) error {
	if err := h.check(); err != nil {
		return err
	}
	if !supported {
		return ErrUnsupported
	}
	defer h.store.Invalidate(keys...)
	return fn()
}

var stashKeys = []cache.Key{cache.KeyStashes, cache.KeyStatus}

func (h *Handle) SaveStash(ctx context.Context, message string, opts provider.StashSaveOptions) error {
	return h.mutate(h.subs.Stash != nil, stashKeys, func() error {
		return h.subs.Stash.SaveStash(ctx, message, opts)
	})
}

func (h *Handle) ApplyStash(ctx context.Context, ref string, deleteAfter bool) error {
	return h.mutate(h.subs.Stash != nil, stashKeys, func() error {
		return h.subs.Stash.ApplyStash(ctx, ref, deleteAfter)
	})
}

func (h *Handle) DeleteStash(ctx context.Context, ref string) error {
	return h.mutate(h.subs.Stash != nil, stashKeys, func() error {
		return h.subs.Stash.DeleteStash(ctx, ref)
	})
}

// CreateWorktree also drops the branch listing when it creates a branch.
func (h *Handle) CreateWorktree(ctx context.Context, path string, opts provider.WorktreeCreateOptions) error {
	keys := []cache.Key{cache.KeyWorktrees}
	if opts.NewBranch != "" {
		keys = append(keys, cache.KeyBranches)
	}
	return h.mutate(h.subs.Worktrees != nil, keys, func() error {
		return h.subs.Worktrees.CreateWorktree(ctx, path, opts)
	})
}

func (h *Handle) DeleteWorktree(ctx context.Context, path string, force bool) error {
	return h.mutate(h.subs.Worktrees != nil, []cache.Key{cache.KeyWorktrees}, func() error {
		return h.subs.Worktrees.DeleteWorktree(ctx, path, force)
	})
}

func (h *Handle) StageFiles(ctx context.Context, paths []string) error {
	return h.mutate(h.subs.Staging != nil, []cache.Key{cache.KeyStatus}, func() error {
		return h.subs.Staging.StageFiles(ctx, paths)
	})
}

func (h *Handle) UnstageFiles(ctx context.Context, paths []string) error {
	return h.mutate(h.subs.Staging != nil, []cache.Key{cache.KeyStatus}, func() error {
		return h.subs.Staging.UnstageFiles(ctx, paths)
	})
}
