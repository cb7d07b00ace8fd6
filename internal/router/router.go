// Package router aggregates repository backends behind one entry point.
//
// Backends are registered once per [provider.ID]. For any path or URI the
// router asks the backends in registration order which one owns it, opens
// repositories through that backend and keeps one [repository.Handle] per
// repository root. Backend change events are turned into cache
// invalidation on the matching handle and re-published to subscribers.
package router

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/cache"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

// Router routes repository requests to registered backends.
type Router struct {
	registry *cache.Registry
	debounce time.Duration

	mu        sync.Mutex
	providers []provider.Provider
	unsubs    []func()
	repos     map[string]*repository.Handle
	pending   map[string]*pendingChange

	willChange provider.Emitter
	didChange  provider.Emitter
	didOpen    provider.Emitter
	didClose   provider.Emitter
}

// Option configures a Router.
type Option func(*Router)

// WithRegistry sets the cache key registry handed to every handle.
func WithRegistry(r *cache.Registry) Option {
	return func(rt *Router) { rt.registry = r }
}

// WithDebounce coalesces did-change notifications of one repository that
// arrive within d. Caches are still invalidated right away.
func WithDebounce(d time.Duration) Option {
	return func(rt *Router) { rt.debounce = d }
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		registry: cache.DefaultRegistry,
		repos:    make(map[string]*repository.Handle),
		pending:  make(map[string]*pendingChange),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds p. Each backend ID may only be registered once.
func (r *Router) Register(p provider.Provider) error {
	id := p.Descriptor().ID
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.providers {
		if existing.Descriptor().ID == id {
			return errors.WithContext(
				errors.Newf(errors.CodeAlreadyExists, "provider already registered: %s", id),
				"provider", string(id))
		}
	}
	r.providers = append(r.providers, p)
	r.unsubs = append(r.unsubs, p.Subscribe(func(ev provider.Event) { r.handleEvent(p, ev) }))
	return nil
}

// Providers returns the registered backends in registration order.
func (r *Router) Providers() []provider.Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.providers)
}

// Provider returns the backend registered as id.
func (r *Router) Provider(id provider.ID) (provider.Provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.Descriptor().ID == id {
			return p, true
		}
	}
	return nil, false
}

// resolve finds the first backend that claims pathOrURI.
func (r *Router) resolve(scheme, pathOrURI string) (provider.Provider, string, bool) {
	if pathOrURI == "" {
		return nil, "", false
	}
	if scheme == "" {
		scheme = paths.Scheme(pathOrURI)
	}
	for _, p := range r.Providers() {
		if form, ok := p.CanHandlePathOrURI(scheme, pathOrURI); ok {
			return p, form, true
		}
	}
	return nil, "", false
}

// CanHandlePathOrURI returns the ID of the backend that owns pathOrURI.
// An empty scheme is derived from pathOrURI. It performs no I/O.
func (r *Router) CanHandlePathOrURI(scheme, pathOrURI string) (provider.ID, bool) {
	p, _, ok := r.resolve(scheme, pathOrURI)
	if !ok {
		return "", false
	}
	return p.Descriptor().ID, true
}

// OpenRepository opens the repository at root through the backend that
// owns it. Opening an open repository returns its existing handle. It
// returns nil when no backend claims root or root is not a repository.
func (r *Router) OpenRepository(ctx context.Context, root string) (*repository.Handle, error) {
	if root == "" {
		return nil, provider.InvalidInput("root", "repository root must not be empty")
	}
	p, form, ok := r.resolve("", root)
	if !ok {
		return nil, nil
	}
	return r.open(ctx, p, form)
}

func (r *Router) open(ctx context.Context, p provider.Provider, root string) (*repository.Handle, error) {
	if h, ok := r.lookup(root); ok {
		return h, nil
	}

	desc := p.Descriptor()
	info, err := p.OpenRepository(ctx, root)
	if err != nil {
		return nil, provider.Failure(err, desc.ID, root, "open repository")
	}
	if info == nil {
		return nil, nil
	}

	key := paths.Key(info.Root)
	r.mu.Lock()
	if h, ok := r.repos[key]; ok {
		r.mu.Unlock()
		return h, nil
	}
	h := repository.New(p, *info, r.registry)
	r.repos[key] = h
	r.mu.Unlock()

	r.didOpen.Emit(provider.Event{Kind: provider.EventDidOpen, Root: h.Root(), Provider: desc.ID})
	return h, nil
}

func (r *Router) lookup(root string) (*repository.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.repos[paths.Key(root)]
	return h, ok
}

// CloseRepository closes the handle of the repository at root, if open.
func (r *Router) CloseRepository(root string) {
	h, ok := r.lookup(root)
	if !ok {
		if _, form, claimed := r.resolve("", root); claimed {
			h, ok = r.lookup(form)
		}
	}
	if !ok {
		return
	}
	r.close(h)
}

func (r *Router) close(h *repository.Handle) {
	key := paths.Key(h.Root())
	r.mu.Lock()
	if r.repos[key] != h {
		r.mu.Unlock()
		return
	}
	delete(r.repos, key)
	if pc := r.pending[key]; pc != nil {
		pc.timer.Stop()
		delete(r.pending, key)
	}
	r.mu.Unlock()

	h.Close()
	h.Provider().CloseRepository(h.Root())
	r.didClose.Emit(provider.Event{Kind: provider.EventDidClose, Root: h.Root(), Provider: h.ProviderID()})
}

// Repository returns the open repository containing pathOrURI. With nested
// repositories the innermost one wins.
func (r *Router) Repository(pathOrURI string) (*repository.Handle, bool) {
	target := pathOrURI
	if _, form, ok := r.resolve("", pathOrURI); ok {
		target = form
	}
	if h, ok := r.lookup(target); ok {
		return h, true
	}

	scheme := paths.Scheme(target)
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *repository.Handle
	for _, h := range r.repos {
		root := h.Root()
		if paths.Scheme(root) != scheme || !paths.IsDescendant(target, root) {
			continue
		}
		if best == nil || len(paths.BestPath(root)) > len(paths.BestPath(best.Root())) {
			best = h
		}
	}
	return best, best != nil
}

// Repositories returns every open repository, sorted by root.
func (r *Router) Repositories() []*repository.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*repository.Handle, 0, len(r.repos))
	for _, h := range r.repos {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b *repository.Handle) int {
		return cmp.Compare(a.Root(), b.Root())
	})
	return out
}

// ForRepository returns the bound sub-providers of the open repository
// containing pathOrURI.
func (r *Router) ForRepository(pathOrURI string) (*provider.BoundSubProviders, bool) {
	h, ok := r.Repository(pathOrURI)
	if !ok {
		return nil, false
	}
	return h.SubProviders(), true
}

// ResetCaches drops cached values of the repositories served by id. Keys
// with global scope are dropped in every repository. Without keys every
// provider-scoped key is dropped. An empty id matches all backends.
func (r *Router) ResetCaches(id provider.ID, keys ...cache.Key) {
	if len(keys) == 0 {
		for _, k := range r.registry.Keys() {
			if sc, _ := r.registry.Scope(k); sc == cache.ScopeProvider {
				keys = append(keys, k)
			}
		}
	}

	for _, h := range r.Repositories() {
		matches := id == "" || h.ProviderID() == id
		var drop []cache.Key
		for _, k := range keys {
			sc, ok := r.registry.Scope(k)
			if !ok {
				continue
			}
			if matches || sc == cache.ScopeGlobal {
				drop = append(drop, k)
			}
		}
		if len(drop) > 0 {
			h.Reset(drop...)
		}
	}
}

// Close closes every open repository and stops listening to backends.
func (r *Router) Close() {
	r.mu.Lock()
	unsubs := r.unsubs
	r.unsubs = nil
	r.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	for _, h := range r.Repositories() {
		r.close(h)
	}
}
