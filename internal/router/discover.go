package router

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

// maxParallelDiscovery bounds concurrent backend discovery.
const maxParallelDiscovery = 8

// DiscoverFailure is a non-fatal discovery error of one backend.
type DiscoverFailure struct {
	Provider provider.ID
	Root     string
	Err      error
}

// DiscoverResult is the outcome of DiscoverRepositories.
type DiscoverResult struct {
	// Repositories holds the opened repositories, deduplicated by root.
	Repositories []*repository.Handle
	Failures     []DiscoverFailure
	// Cancelled is set when ctx ended before every backend finished.
	// Repositories found until then are still reported.
	Cancelled bool
}

// DiscoverRepositories asks every backend claiming rootURI to discover
// repositories at or below it and opens what they find.
// Failing backends are reported in Failures; the others still contribute.
func (r *Router) DiscoverRepositories(ctx context.Context, rootURI string, opts provider.DiscoverOptions) *DiscoverResult {
	result := &DiscoverResult{}
	if rootURI == "" {
		result.Failures = append(result.Failures, DiscoverFailure{
			Root: rootURI,
			Err:  provider.InvalidInput("root", "discovery root must not be empty"),
		})
		return result
	}

	candidates := r.discoveryCandidates(rootURI)
	results := make([]discovered, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDiscovery)

	for i, c := range candidates {
		g.Go(func() error {
			results[i] = r.discoverWith(gctx, c.provider, c.root, opts)
			return nil
		})
	}
	_ = g.Wait() // failures are collected per backend

	seen := make(map[string]bool)
	for _, res := range results {
		for _, h := range res.handles {
			key := paths.Key(h.Root())
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Repositories = append(result.Repositories, h)
		}
		result.Failures = append(result.Failures, res.failures...)
	}
	result.Cancelled = ctx.Err() != nil
	return result
}

// candidate is a backend taking part in a discovery run and the root in
// the form that backend uses.
type candidate struct {
	provider provider.Provider
	root     string
}

// discoveryCandidates returns the backends that claim rootURI, with their
// canonical form of it. Roots nobody claims, such as a session root or a
// hosting authority, go to every backend serving the scheme.
func (r *Router) discoveryCandidates(rootURI string) []candidate {
	scheme := paths.Scheme(rootURI)
	providers := r.Providers()

	var claimed []candidate
	for _, p := range providers {
		if form, ok := p.CanHandlePathOrURI(scheme, rootURI); ok {
			claimed = append(claimed, candidate{provider: p, root: form})
		}
	}
	if len(claimed) > 0 {
		return claimed
	}

	var serving []candidate
	for _, p := range providers {
		if slices.Contains(p.Schemes(), scheme) {
			serving = append(serving, candidate{provider: p, root: rootURI})
		}
	}
	return serving
}

// discovered is what one backend contributed to a discovery run.
type discovered struct {
	handles  []*repository.Handle
	failures []DiscoverFailure
}

func (r *Router) discoverWith(ctx context.Context, p provider.Provider, rootURI string, opts provider.DiscoverOptions) (res discovered) {
	id := p.Descriptor().ID
	l := log.FromContext(ctx)

	roots, err := p.DiscoverRepositories(ctx, rootURI, opts)
	if err != nil && !provider.IsCancelled(err) {
		l.Debug("discovery failed", "provider", id, "root", rootURI, "error", err)
		res.failures = append(res.failures, DiscoverFailure{
			Provider: id,
			Root:     rootURI,
			Err:      provider.Failure(err, id, rootURI, "discover repositories"),
		})
	}

	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		h, err := r.open(ctx, p, root)
		switch {
		case err != nil && provider.IsCancelled(err):
		case err != nil:
			l.Debug("open failed", "provider", id, "root", root, "error", err)
			res.failures = append(res.failures, DiscoverFailure{Provider: id, Root: root, Err: err})
		case h != nil:
			res.handles = append(res.handles, h)
		}
	}
	return res
}
