package local

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/cmd"
	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

// Provider is the backend for repositories on the local filesystem.
type Provider struct {
	fs       billy.Filesystem
	runner   git.Runner
	terminal func(ctx context.Context, dir string, args ...string) error

	mu    sync.Mutex
	repos map[string]*openRepo

	events provider.Emitter
}

// openRepo serializes access to one go-git repository; its storage is not
// safe for concurrent use.
type openRepo struct {
	mu   sync.Mutex
	root string
	repo *gogit.Repository
}

// Option configures a Provider.
type Option func(*Provider)

// WithFilesystem sets the filesystem used for discovery and .git file
// parsing. Paths handed to the provider must be valid in it.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(p *Provider) { p.fs = fs }
}

// WithRunner sets the runner used for git CLI calls.
func WithRunner(r git.Runner) Option {
	return func(p *Provider) { p.runner = r }
}

// WithTerminal sets how RunGitCommandViaTerminal executes git.
func WithTerminal(fn func(ctx context.Context, dir string, args ...string) error) Option {
	return func(p *Provider) { p.terminal = fn }
}

// New creates a local provider backed by the OS filesystem and the git CLI.
func New(opts ...Option) *Provider {
	p := &Provider{
		fs:     osfs.New("/"),
		runner: git.CLI{},
		terminal: func(ctx context.Context, dir string, args ...string) error {
			return cmd.Interactive(ctx, dir, "git", args...)
		},
		repos: make(map[string]*openRepo),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ provider.Provider = (*Provider)(nil)

// Descriptor implements provider.Provider.
func (p *Provider) Descriptor() provider.Descriptor {
	return provider.Descriptor{ID: provider.IDGit, Name: "Git", Virtual: false}
}

// Schemes implements provider.Provider.
func (p *Provider) Schemes() []string {
	return []string{paths.FileScheme}
}

// CanHandlePathOrURI accepts absolute filesystem paths and file URIs.
// Session overlay paths belong to the vsls backend.
func (p *Provider) CanHandlePathOrURI(scheme, pathOrURI string) (string, bool) {
	if scheme != "" && scheme != paths.FileScheme {
		return "", false
	}
	repoPath := paths.BestPath(pathOrURI)
	if !paths.IsAbsolute(repoPath) || paths.HasVslsPrefix(repoPath) {
		return "", false
	}
	return repoPath, true
}

// OpenRepository opens the repository rooted at root. It returns nil when
// root is not a repository.
func (p *Provider) OpenRepository(ctx context.Context, root string) (*provider.RepositoryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root = paths.BestPath(root)

	if _, err := p.open(root); err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			return nil, nil
		}
		return nil, provider.Failure(err, provider.IDGit, root, "open repository")
	}

	info := &provider.RepositoryInfo{Root: root}
	if dir, err := git.ResolveGitDir(p.fs, root); err == nil {
		info.GitDir = dir
	} else {
		log.FromContext(ctx).Debug("resolve git dir", "root", root, "error", err)
	}
	return info, nil
}

// CloseRepository forgets the cached go-git handle of root.
func (p *Provider) CloseRepository(root string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.repos, paths.Key(root))
}

func (p *Provider) open(root string) (*openRepo, error) {
	key := paths.Key(root)

	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.repos[key]; ok {
		return r, nil
	}

	repo, err := gogit.PlainOpenWithOptions(filepath.FromSlash(root), &gogit.PlainOpenOptions{
		DetectDotGit:          false,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	r := &openRepo{root: root, repo: repo}
	p.repos[key] = r
	return r, nil
}

// withRepo runs fn with exclusive access to the go-git repository at
// repoPath. go-git does not observe contexts, so ctx is only checked before
// fn starts.
func (p *Provider) withRepo(ctx context.Context, repoPath string, fn func(*gogit.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := p.open(paths.BestPath(repoPath))
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return classifyError(fn(r.repo))
}

func (p *Provider) run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	return p.runner.Run(ctx, filepath.FromSlash(paths.BestPath(repoPath)), args...)
}

// mutate runs a changing git command between will-change and did-change
// notifications. did-change is only sent when the command succeeded.
func (p *Provider) mutate(ctx context.Context, repoPath, op string, changes []provider.Change, args ...string) error {
	root := paths.BestPath(repoPath)
	p.events.Emit(provider.Event{Kind: provider.EventWillChange, Root: root, Provider: provider.IDGit, Changes: changes})

	if _, err := p.run(ctx, repoPath, args...); err != nil {
		return provider.Failure(err, provider.IDGit, repoPath, op)
	}

	p.events.Emit(provider.Event{Kind: provider.EventDidChange, Root: root, Provider: provider.IDGit, Changes: changes})
	return nil
}

// NotifyChanged reports an externally detected change of the repository at
// root, such as one seen by a file watcher.
func (p *Provider) NotifyChanged(root string, changes ...provider.Change) {
	p.events.Emit(provider.Event{
		Kind:     provider.EventDidChange,
		Root:     paths.BestPath(root),
		Provider: provider.IDGit,
		Changes:  changes,
	})
}

// Subscribe implements provider.Provider.
func (p *Provider) Subscribe(fn func(provider.Event)) func() {
	return p.events.Subscribe(fn)
}

// SubProviders implements provider.Provider. The local backend supports
// every group.
func (p *Provider) SubProviders() provider.SubProviders {
	return provider.SubProviders{
		Branches:     branches{p},
		Contributors: contributors{p},
		Remotes:      remotes{p},
		Status:       status{p},
		Tags:         tags{p},
		Patch:        patch{p},
		Staging:      staging{p},
		Stash:        stash{p},
		Worktrees:    worktrees{p},
		Operations:   operations{p},
		Terminal:     terminal{p},
	}
}
