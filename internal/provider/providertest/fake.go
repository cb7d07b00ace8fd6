// Package providertest provides an in-memory provider.Provider for tests of
// code built on top of backends.
package providertest

import (
	"context"
	"slices"
	"sync"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

// Repo is the data a Fake serves for one repository.
type Repo struct {
	Branches     []provider.Branch
	Tags         []provider.Tag
	Remotes      []provider.Remote
	Contributors []provider.Contributor
	Commits      []provider.Commit
	Status       *provider.Status
	Stash        []provider.StashEntry
	Worktrees    []provider.Worktree
	GitDir       *provider.GitDir
}

// Fake is an in-memory backend. Repositories are keyed by root; a root is
// served by the Fake when it was added with Add.
//
// Virtual fakes only offer the required sub-provider groups.
type Fake struct {
	desc    provider.Descriptor
	schemes []string

	// Hook, when set, runs at the start of every call with the method name
	// and repository path. A non-nil result is returned as the call's error.
	Hook func(ctx context.Context, method, repoPath string) error

	mu     sync.Mutex
	repos  map[string]*Repo
	roots  map[string]string
	calls  map[string]int
	closed []string

	events provider.Emitter
}

var _ provider.Provider = (*Fake)(nil)

// New creates a fake backend. Without schemes it claims "file".
func New(desc provider.Descriptor, schemes ...string) *Fake {
	if len(schemes) == 0 {
		schemes = []string{paths.FileScheme}
	}
	return &Fake{
		desc:    desc,
		schemes: schemes,
		repos:   make(map[string]*Repo),
		roots:   make(map[string]string),
		calls:   make(map[string]int),
	}
}

// Add serves repo at root.
func (f *Fake) Add(root string, repo *Repo) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := paths.Key(root)
	f.repos[key] = repo
	f.roots[key] = root
	return f
}

// Update changes the data of root under the fake's lock.
func (f *Fake) Update(root string, fn func(*Repo)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if repo, ok := f.repos[paths.Key(root)]; ok {
		fn(repo)
	}
}

// Calls returns how often method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Closed returns the roots passed to CloseRepository.
func (f *Fake) Closed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.closed)
}

// Emit publishes ev to subscribers, filling in the provider ID.
func (f *Fake) Emit(ev provider.Event) {
	ev.Provider = f.desc.ID
	f.events.Emit(ev)
}

// Changed publishes a will-change and a did-change event for root.
func (f *Fake) Changed(root string, changes ...provider.Change) {
	f.Emit(provider.Event{Kind: provider.EventWillChange, Root: root, Changes: changes})
	f.Emit(provider.Event{Kind: provider.EventDidChange, Root: root, Changes: changes})
}

// Subscribers returns the number of event subscribers.
func (f *Fake) Subscribers() int { return f.events.Len() }

// enter records the call and returns the repository, nil if unknown.
func (f *Fake) enter(ctx context.Context, method, repoPath string) (*Repo, error) {
	f.mu.Lock()
	f.calls[method]++
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, method, repoPath); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repos[paths.Key(repoPath)], nil
}

func (f *Fake) Descriptor() provider.Descriptor { return f.desc }

func (f *Fake) Schemes() []string { return slices.Clone(f.schemes) }

func (f *Fake) CanHandlePathOrURI(scheme, pathOrURI string) (string, bool) {
	if scheme == "" {
		scheme = paths.Scheme(pathOrURI)
	}
	if !slices.Contains(f.schemes, scheme) {
		return "", false
	}
	if scheme == paths.FileScheme {
		path := paths.BestPath(pathOrURI)
		if paths.HasVslsPrefix(path) {
			return "", false
		}
		return path, true
	}
	return pathOrURI, true
}

// DiscoverRepositories returns the added roots at or below uri, sorted.
func (f *Fake) DiscoverRepositories(ctx context.Context, uri string, _ provider.DiscoverOptions) ([]string, error) {
	if _, err := f.enter(ctx, "DiscoverRepositories", uri); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []string
	for key, root := range f.roots {
		if key == paths.Key(uri) || paths.IsDescendant(root, uri) {
			found = append(found, root)
		}
	}
	slices.Sort(found)
	return found, nil
}

func (f *Fake) OpenRepository(ctx context.Context, root string) (*provider.RepositoryInfo, error) {
	repo, err := f.enter(ctx, "OpenRepository", root)
	if err != nil || repo == nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &provider.RepositoryInfo{Root: f.roots[paths.Key(root)], GitDir: repo.GitDir}, nil
}

func (f *Fake) CloseRepository(root string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, root)
}

func (f *Fake) GetCommit(ctx context.Context, repoPath string, rev string) (*provider.Commit, error) {
	repo, err := f.enter(ctx, "GetCommit", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	for i, c := range repo.Commits {
		if c.SHA == rev || (rev == "" && i == 0) {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *Fake) GetLog(ctx context.Context, repoPath string, opts provider.LogOptions) (*provider.Log, error) {
	repo, err := f.enter(ctx, "GetLog", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	limit := opts.EffectiveLimit()
	commits := repo.Commits[:min(limit, len(repo.Commits))]
	return &provider.Log{Commits: slices.Clone(commits), HasMore: len(repo.Commits) > limit}, nil
}

func (f *Fake) GetDiffStatus(ctx context.Context, repoPath string, ref1, ref2 string) ([]provider.FileChange, error) {
	_, err := f.enter(ctx, "GetDiffStatus", repoPath)
	return nil, err
}

func (f *Fake) GetBlame(ctx context.Context, repoPath string, path string, rev string) (*provider.Blame, error) {
	_, err := f.enter(ctx, "GetBlame", repoPath)
	return nil, err
}

func (f *Fake) ValidateReference(ctx context.Context, repoPath string, ref string) (bool, error) {
	c, err := f.GetCommit(ctx, repoPath, ref)
	return c != nil && ref != "", err
}

func (f *Fake) GetGitDir(ctx context.Context, repoPath string) (*provider.GitDir, error) {
	repo, err := f.enter(ctx, "GetGitDir", repoPath)
	if err != nil || repo == nil {
		return nil, err
	}
	return repo.GitDir, nil
}

func (f *Fake) Subscribe(fn func(provider.Event)) func() {
	return f.events.Subscribe(fn)
}

func (f *Fake) SubProviders() provider.SubProviders {
	s := provider.SubProviders{
		Branches:     branches{f},
		Contributors: contributors{f},
		Remotes:      remotes{f},
		Status:       status{f},
		Tags:         tags{f},
	}
	if !f.desc.Virtual {
		s.Stash = stash{f}
		s.Worktrees = worktrees{f}
		s.Staging = staging{f}
	}
	return s
}
