package router

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/backend/vsls"
	"github.com/raphi011/gitprov/internal/cache"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/provider/providertest"
	"github.com/raphi011/gitprov/internal/repository"
)

const hosted = "vscode-vfs://github/acme/widgets"

func repo() *providertest.Repo {
	return &providertest.Repo{
		Branches: []provider.Branch{{Name: "main", Current: true}},
		Remotes:  []provider.Remote{{Name: "origin"}},
		Tags:     []provider.Tag{{Name: "v1"}},
		Stash:    []provider.StashEntry{{Ref: "stash@{0}"}},
	}
}

func newRouter(t *testing.T, opts ...Option) (*Router, *providertest.Fake, *providertest.Fake) {
	t.Helper()
	local := providertest.New(provider.Descriptor{ID: provider.IDGit, Name: "Git"})
	local.Add("/ws/a", repo()).Add("/ws/a/nested", repo()).Add("/ws/b", repo())

	remote := providertest.New(provider.Descriptor{ID: provider.IDGitHub, Name: "GitHub", Virtual: true}, "vscode-vfs")
	remote.Add(hosted, repo())

	r := New(opts...)
	for _, p := range []provider.Provider{local, remote} {
		if err := r.Register(p); err != nil {
			t.Fatalf("Register(%s) error = %v", p.Descriptor().ID, err)
		}
	}
	t.Cleanup(r.Close)
	return r, local, remote
}

func roots(hs []*repository.Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Root()
	}
	return out
}

func mustOpen(t *testing.T, r *Router, root string) *repository.Handle {
	t.Helper()
	h, err := r.OpenRepository(t.Context(), root)
	if err != nil || h == nil {
		t.Fatalf("OpenRepository(%q) = (%v, %v)", root, h, err)
	}
	return h
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)
	err := r.Register(providertest.New(provider.Descriptor{ID: provider.IDGit}))
	if errors.GetCode(err) != errors.CodeAlreadyExists {
		t.Errorf("Register(duplicate) code = %v, want %v", errors.GetCode(err), errors.CodeAlreadyExists)
	}
	if got := len(r.Providers()); got != 2 {
		t.Errorf("Providers() has %d entries, want 2", got)
	}
	if p, ok := r.Provider(provider.IDGitHub); !ok || p.Descriptor().ID != provider.IDGitHub {
		t.Errorf("Provider(github) = (%v, %v)", p, ok)
	}
}

func TestCanHandlePathOrURI(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)
	tests := []struct {
		scheme string
		in     string
		want   provider.ID
		ok     bool
	}{
		{"", "/ws/a/src/main.go", provider.IDGit, true},
		{"file", "file:///ws/b", provider.IDGit, true},
		{"", hosted + "/README.md", provider.IDGitHub, true},
		{"vscode-vfs", hosted, provider.IDGitHub, true},
		{"", "s3://bucket/key", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		got, ok := r.CanHandlePathOrURI(tt.scheme, tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanHandlePathOrURI(%q, %q) = (%q, %v), want (%q, %v)", tt.scheme, tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOpenRepository(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	var opened []provider.Event
	r.OnDidOpenRepository(func(ev provider.Event) { opened = append(opened, ev) })

	h1 := mustOpen(t, r, "/ws/a")
	h2 := mustOpen(t, r, "/ws/a/")
	if h1 != h2 {
		t.Error("OpenRepository() twice should return the same handle")
	}
	if local.Calls("OpenRepository") != 1 {
		t.Errorf("backend OpenRepository calls = %d, want 1", local.Calls("OpenRepository"))
	}
	if len(opened) != 1 || opened[0].Root != "/ws/a" || opened[0].Provider != provider.IDGit {
		t.Errorf("did-open events = %+v, want one for /ws/a", opened)
	}

	if h, err := r.OpenRepository(t.Context(), "/ws/none"); h != nil || err != nil {
		t.Errorf("OpenRepository(not a repo) = (%v, %v), want (nil, nil)", h, err)
	}
	if h, err := r.OpenRepository(t.Context(), "s3://bucket"); h != nil || err != nil {
		t.Errorf("OpenRepository(unclaimed) = (%v, %v), want (nil, nil)", h, err)
	}
	if _, err := r.OpenRepository(t.Context(), ""); !provider.IsInvalidInput(err) {
		t.Errorf("OpenRepository(\"\") error = %v, want invalid input", err)
	}
}

func TestOpenRepository_Failure(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	local.Hook = func(_ context.Context, method, _ string) error {
		if method == "OpenRepository" {
			return errors.New(errors.CodeExecutionFailed, "git exploded")
		}
		return nil
	}

	_, err := r.OpenRepository(t.Context(), "/ws/a")
	var pe errors.PlatformError
	if !errors.As(err, &pe) {
		t.Fatalf("OpenRepository() error = %v, want a platform error", err)
	}
	if pe.Context()["provider"] != "git" || pe.Context()["repository"] != "/ws/a" {
		t.Errorf("error context = %v, want provider and repository", pe.Context())
	}
}

func TestOpenRepository_FailureDecoratedOnce(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	local.Hook = func(_ context.Context, method, root string) error {
		if method == "OpenRepository" {
			return provider.Failure(errors.New(errors.CodeExecutionFailed, "git exploded"), provider.IDGit, root, "open repository")
		}
		return nil
	}

	_, err := r.OpenRepository(t.Context(), "/ws/a")
	if err == nil {
		t.Fatal("OpenRepository() error = nil, want failure")
	}
	if n := strings.Count(err.Error(), "open repository failed"); n != 1 {
		t.Errorf("OpenRepository() error = %q, want the operation named once", err)
	}
}

func TestDiscoverRepositories(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)

	// A second file backend whose repositories overlap with the first.
	mirror := providertest.New(provider.Descriptor{ID: provider.IDVsls, Name: "Mirror"})
	mirror.Add("/ws/b", repo()).Add("/ws/c", repo())
	if err := r.Register(mirror); err != nil {
		t.Fatal(err)
	}

	res := r.DiscoverRepositories(t.Context(), "/ws", provider.DiscoverOptions{Depth: 2})
	want := []string{"/ws/a", "/ws/a/nested", "/ws/b", "/ws/c"}
	if got := roots(res.Repositories); !slices.Equal(got, want) {
		t.Errorf("DiscoverRepositories() = %v, want %v", got, want)
	}
	if len(res.Failures) != 0 || res.Cancelled {
		t.Errorf("DiscoverRepositories() failures = %v, cancelled = %v", res.Failures, res.Cancelled)
	}
	if got := roots(r.Repositories()); !slices.Equal(got, want) {
		t.Errorf("Repositories() = %v, want %v", got, want)
	}

	hostedRes := r.DiscoverRepositories(t.Context(), hosted, provider.DiscoverOptions{})
	if got := roots(hostedRes.Repositories); !slices.Equal(got, []string{hosted}) {
		t.Errorf("DiscoverRepositories(hosted) = %v, want [%s]", got, hosted)
	}
}

func TestDiscoverRepositories_SessionOverlayPath(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	session := vsls.New(vsls.NewLocalSession(local, "/ws/a"))
	t.Cleanup(session.Close)
	if err := r.Register(session); err != nil {
		t.Fatal(err)
	}

	want := []string{"vsls:/~0", "vsls:/~0/nested"}
	for _, root := range []string{"/~0", "vsls:/~0"} {
		res := r.DiscoverRepositories(t.Context(), root, provider.DiscoverOptions{Depth: 2})
		if got := roots(res.Repositories); !slices.Equal(got, want) {
			t.Errorf("DiscoverRepositories(%q) = %v, want %v", root, got, want)
		}
		if len(res.Failures) != 0 {
			t.Errorf("DiscoverRepositories(%q) failures = %+v", root, res.Failures)
		}
	}
	if calls := local.Calls("DiscoverRepositories"); calls != 2 {
		t.Errorf("host DiscoverRepositories calls = %d, want 2 (only through the session)", calls)
	}
}

func TestDiscoverRepositories_PartialFailure(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)
	broken := providertest.New(provider.Descriptor{ID: provider.IDVsls, Name: "Broken"})
	broken.Hook = func(context.Context, string, string) error {
		return errors.New(errors.CodeNetwork, "session lost")
	}
	if err := r.Register(broken); err != nil {
		t.Fatal(err)
	}

	res := r.DiscoverRepositories(t.Context(), "/ws/b", provider.DiscoverOptions{})
	if got := roots(res.Repositories); !slices.Equal(got, []string{"/ws/b"}) {
		t.Errorf("DiscoverRepositories() = %v, want [/ws/b]", got)
	}
	if len(res.Failures) != 1 || res.Failures[0].Provider != provider.IDVsls {
		t.Fatalf("Failures = %+v, want one from vsls", res.Failures)
	}
	if errors.GetCode(res.Failures[0].Err) != errors.CodeNetwork {
		t.Errorf("failure code = %v, want %v", errors.GetCode(res.Failures[0].Err), errors.CodeNetwork)
	}
}

func TestDiscoverRepositories_Cancelled(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	res := r.DiscoverRepositories(ctx, "/ws", provider.DiscoverOptions{})
	if !res.Cancelled {
		t.Error("Cancelled = false, want true")
	}
	if len(res.Failures) != 0 {
		t.Errorf("cancellation should not be reported as failure: %+v", res.Failures)
	}
}

func TestDiscoverRepositories_EmptyRoot(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	res := r.DiscoverRepositories(t.Context(), "", provider.DiscoverOptions{})
	if len(res.Failures) != 1 || !provider.IsInvalidInput(res.Failures[0].Err) {
		t.Errorf("Failures = %+v, want one invalid input", res.Failures)
	}
	if local.Calls("DiscoverRepositories") != 0 {
		t.Error("backend was called for an empty root")
	}
}

func TestRepository_LongestMatch(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)
	mustOpen(t, r, "/ws/a")
	mustOpen(t, r, "/ws/a/nested")
	mustOpen(t, r, hosted)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/ws/a", "/ws/a", true},
		{"/ws/a/src/main.go", "/ws/a", true},
		{"/ws/a/nested/lib/x.go", "/ws/a/nested", true},
		{"file:///ws/a/nested", "/ws/a/nested", true},
		{hosted + "/docs/index.md", hosted, true},
		{"/ws/ab/file", "", false},
		{"/acme/widgets/README.md", "", false},
	}
	for _, tt := range tests {
		h, ok := r.Repository(tt.in)
		got := ""
		if h != nil {
			got = h.Root()
		}
		if got != tt.want || ok != tt.ok {
			t.Errorf("Repository(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	bound, ok := r.ForRepository("/ws/a/nested/lib")
	if !ok || bound.RepoPath != "/ws/a/nested" {
		t.Errorf("ForRepository() = (%+v, %v), want bound to /ws/a/nested", bound, ok)
	}
	if _, ok := r.ForRepository("/elsewhere"); ok {
		t.Error("ForRepository(/elsewhere) = ok, want absent")
	}
}

func TestEvents_InvalidateAndForward(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	h := mustOpen(t, r, "/ws/a")
	ctx := t.Context()

	var will, did []provider.Event
	r.OnWillChangeRepository(func(ev provider.Event) { will = append(will, ev) })
	r.OnDidChangeRepository(func(ev provider.Event) {
		if h.Store().Cached(cache.KeyBranches) {
			t.Error("branches still cached when did-change is delivered")
		}
		did = append(did, ev)
	})

	_, _ = h.Branches(ctx, false)
	_, _ = h.Tags(ctx)
	_, _ = h.Stash(ctx)

	local.Changed("/ws/a", provider.ChangeStash)

	if len(will) != 1 || len(did) != 1 {
		t.Fatalf("got %d will-change and %d did-change events, want 1 each", len(will), len(did))
	}
	if did[0].Root != "/ws/a" || !slices.Equal(did[0].Changes, []provider.Change{provider.ChangeStash}) {
		t.Errorf("did-change = %+v", did[0])
	}
	if h.Store().Cached(cache.KeyStashes) {
		t.Error("stash change should drop stashes")
	}
	if !h.Store().Cached(cache.KeyTags) {
		t.Error("stash change should keep tags")
	}

	local.Changed("/ws/b")
	if len(did) != 1 {
		t.Errorf("events of repositories that are not open should be dropped, got %d", len(did))
	}

	_, _ = h.Branches(ctx, false)
	if got := local.Calls("GetBranches"); got != 2 {
		t.Errorf("GetBranches calls = %d, want a fresh fetch after the change", got)
	}
}

func TestEvents_Debounce(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t, WithDebounce(30*time.Millisecond))
	h := mustOpen(t, r, "/ws/a")
	other := mustOpen(t, r, "/ws/b")

	var mu sync.Mutex
	var did []provider.Event
	done := make(chan struct{}, 4)
	r.OnDidChangeRepository(func(ev provider.Event) {
		mu.Lock()
		did = append(did, ev)
		mu.Unlock()
		done <- struct{}{}
	})

	_, _ = h.Tags(t.Context())
	local.Changed("/ws/a", provider.ChangeTags)
	if h.Store().Cached(cache.KeyTags) {
		t.Error("tags should be dropped before the debounced notification")
	}
	local.Changed("/ws/a", provider.ChangeIndex)
	local.Changed("/ws/a", provider.ChangeTags)
	local.Changed(other.Root(), provider.ChangeHead)

	for range 2 {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for debounced notifications")
		}
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(did) != 2 {
		t.Fatalf("got %d did-change events, want one per repository", len(did))
	}
	byRoot := map[string][]provider.Change{}
	for _, ev := range did {
		byRoot[ev.Root] = ev.Changes
	}
	if got := byRoot["/ws/a"]; !slices.Equal(got, []provider.Change{provider.ChangeTags, provider.ChangeIndex}) {
		t.Errorf("coalesced changes of /ws/a = %v, want [tags index]", got)
	}
	if got := byRoot["/ws/b"]; !slices.Equal(got, []provider.Change{provider.ChangeHead}) {
		t.Errorf("changes of /ws/b = %v, want [head]", got)
	}
}

func TestCloseRepository(t *testing.T) {
	t.Parallel()

	r, local, _ := newRouter(t)
	h := mustOpen(t, r, "/ws/a")

	var closed []provider.Event
	r.OnDidCloseRepository(func(ev provider.Event) { closed = append(closed, ev) })

	r.CloseRepository("/ws/a/")
	r.CloseRepository("/ws/a")

	if len(closed) != 1 || closed[0].Root != "/ws/a" {
		t.Errorf("did-close events = %+v, want one for /ws/a", closed)
	}
	if !h.Closed() {
		t.Error("handle should be closed")
	}
	if got := local.Closed(); !slices.Equal(got, []string{"/ws/a"}) {
		t.Errorf("backend CloseRepository calls = %v, want [/ws/a]", got)
	}
	if _, ok := r.Repository("/ws/a/src"); ok {
		t.Error("closed repository is still returned")
	}
	if h2 := mustOpen(t, r, "/ws/a"); h2 == h {
		t.Error("reopening should create a new handle")
	}
}

func TestResetCaches(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t)
	ctx := t.Context()
	a := mustOpen(t, r, "/ws/a")
	gh := mustOpen(t, r, hosted)

	fill := func(h *repository.Handle) {
		_, _ = h.Tags(ctx)
		_, _ = h.Branches(ctx, false)
		_, _ = cache.Load(ctx, h.Store(), cache.KeyProviders, func(context.Context) (int, error) { return 1, nil })
	}
	fill(a)
	fill(gh)

	r.ResetCaches(provider.IDGitHub)
	if gh.Store().Cached(cache.KeyTags) {
		t.Error("ResetCaches(github) should drop provider-scoped keys of github repositories")
	}
	if !gh.Store().Cached(cache.KeyBranches) || !gh.Store().Cached(cache.KeyProviders) {
		t.Error("ResetCaches(github) without keys should keep repository and global keys")
	}
	if !a.Store().Cached(cache.KeyTags) {
		t.Error("ResetCaches(github) should not touch git repositories")
	}

	r.ResetCaches(provider.IDGitHub, cache.KeyProviders)
	if a.Store().Cached(cache.KeyProviders) || gh.Store().Cached(cache.KeyProviders) {
		t.Error("global keys should be dropped in every repository")
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	r, local, remote := newRouter(t)
	h := mustOpen(t, r, "/ws/a")

	r.Close()

	if local.Subscribers() != 0 || remote.Subscribers() != 0 {
		t.Error("Close() should unsubscribe from backends")
	}
	if !h.Closed() || len(r.Repositories()) != 0 {
		t.Error("Close() should close every repository")
	}
}
