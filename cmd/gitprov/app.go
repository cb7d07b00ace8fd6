package main

import (
	"context"
	"path/filepath"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/backend/local"
	"github.com/raphi011/gitprov/internal/backend/remotehub"
	"github.com/raphi011/gitprov/internal/backend/vsls"
	"github.com/raphi011/gitprov/internal/config"
	"github.com/raphi011/gitprov/internal/github"
	"github.com/raphi011/gitprov/internal/history"
	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/registry"
	"github.com/raphi011/gitprov/internal/repository"
	"github.com/raphi011/gitprov/internal/router"
)

// settings returns the config attached to ctx, falling back to defaults.
func settings(ctx context.Context) *config.Config {
	if c := config.FromContext(ctx); c != nil {
		return c
	}
	def := config.Default()
	return &def
}

// newRouter registers every backend enabled in c. The returned function
// releases the router and all backends.
func newRouter(c *config.Config) (*router.Router, func(), error) {
	rt := router.New(router.WithDebounce(c.Events.Debounce))
	closers := []func(){rt.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	host := local.New()
	backends := []provider.Provider{}
	if c.ProviderEnabled(string(provider.IDGit)) {
		backends = append(backends, host)
	}
	if c.ProviderEnabled(string(provider.IDGitHub)) {
		client, err := github.New(github.WithToken(c.GitHub.Token), github.WithBaseURL(c.GitHub.BaseURL))
		if err != nil {
			return nil, nil, err
		}
		backends = append(backends, remotehub.New(client))
	}
	if c.ProviderEnabled(string(provider.IDVsls)) && len(c.Session.SharedRoots) > 0 {
		shared := vsls.New(vsls.NewLocalSession(host, c.Session.SharedRoots...))
		closers = append(closers, shared.Close)
		backends = append(backends, shared)
	}

	for _, b := range backends {
		if err := rt.Register(b); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return rt, cleanup, nil
}

// resolveTarget turns a --repository value into a path or URI. Registered
// names win over paths; relative paths are resolved against the working
// directory.
func resolveTarget(ref string) string {
	if ref == "" {
		return workDir
	}
	if paths.HasScheme(ref) {
		return ref
	}
	if regPath, err := registry.DefaultPath(); err == nil {
		if reg, err := registry.Load(regPath); err == nil {
			if repo, err := reg.Find(ref); err == nil {
				return repo.Root
			}
		}
	}
	if paths.HasVslsPrefix(ref) {
		return ref
	}
	if abs, err := filepath.Abs(ref); err == nil {
		return abs
	}
	return ref
}

// openTarget opens the repository containing target. Filesystem paths are
// searched upwards until a backend recognizes a repository root.
func openTarget(ctx context.Context, rt *router.Router, target string) (*repository.Handle, error) {
	dir := target
	for {
		h, err := rt.OpenRepository(ctx, dir)
		if err != nil {
			return nil, err
		}
		if h != nil {
			return h, nil
		}
		if paths.HasScheme(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, errors.WithContext(
		errors.Newf(errors.CodeNotFound, "not a repository: %s", target), "target", target)
}

// withRepository opens the repository selected by --repository and runs fn
// with it.
func withRepository(ctx context.Context, fn func(ctx context.Context, h *repository.Handle) error) error {
	rt, cleanup, err := newRouter(settings(ctx))
	if err != nil {
		return err
	}
	defer cleanup()

	target := resolveTarget(repoRef)
	h, err := openTarget(ctx, rt, target)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)
	l.Debug("opened repository", "root", h.Root(), "provider", h.ProviderID())
	if histPath := history.DefaultPath(); histPath != "" {
		if err := history.RecordAccess(h.Root(), h.ProviderID(), histPath); err != nil {
			l.Debug("record history", "error", err)
		}
	}
	return fn(ctx, h)
}
