// Package remotehub is the virtual backend for repositories browsed on a
// hosting service without a local clone.
//
// Repository roots are URIs of the form vscode-vfs://github/<owner>/<repo>.
// The legacy github:/<owner>/<repo> form is accepted and canonicalized.
// There is no working tree, so status and blame are always absent and none
// of the optional sub-provider groups are offered.
package remotehub

import (
	"context"
	"strings"
	"sync"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/github"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

const (
	// Scheme is the URI scheme of hosted repository roots.
	Scheme = "vscode-vfs"
	// LegacyScheme is accepted as an alias of Scheme.
	LegacyScheme = "github"
	// Authority selects GitHub in vscode-vfs URIs.
	Authority = "github"
	// RemoteName is the name of the single synthetic remote.
	RemoteName = "origin"
)

// Client is the hosting API the backend reads from. *github.Client
// implements it. Lookups return nil when nothing exists.
type Client interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	ListBranches(ctx context.Context, owner, repo string) ([]provider.Branch, error)
	GetBranch(ctx context.Context, owner, repo, name string) (*provider.Branch, error)
	ListTags(ctx context.Context, owner, repo string) ([]provider.Tag, error)
	GetCommit(ctx context.Context, owner, repo, ref string) (*provider.Commit, error)
	ListCommits(ctx context.Context, owner, repo string, opts provider.LogOptions) (*provider.Log, error)
	Compare(ctx context.Context, owner, repo, base, head string) (*github.Comparison, error)
	ListContributors(ctx context.Context, owner, repo string, limit int) ([]provider.Contributor, error)
}

var _ Client = (*github.Client)(nil)

// Provider is the remote-hosted backend.
type Provider struct {
	client Client

	mu    sync.Mutex
	repos map[string]*remoteRepo

	events provider.Emitter
}

type remoteRepo struct {
	root string
	slug github.Repo
	info github.Repository
}

// New creates the backend on top of client.
func New(client Client) *Provider {
	return &Provider{client: client, repos: make(map[string]*remoteRepo)}
}

var _ provider.Provider = (*Provider)(nil)

// Descriptor implements provider.Provider.
func (p *Provider) Descriptor() provider.Descriptor {
	return provider.Descriptor{ID: provider.IDGitHub, Name: "GitHub", Virtual: true}
}

// Schemes implements provider.Provider.
func (p *Provider) Schemes() []string {
	return []string{Scheme, LegacyScheme}
}

// RootURI returns the canonical root URI of owner/name.
func RootURI(owner, name string) string {
	return Scheme + "://" + Authority + "/" + owner + "/" + name
}

// parseRoot extracts owner and repository from a root URI or any URI
// below it.
func parseRoot(pathOrURI string) (github.Repo, bool) {
	u, ok := paths.ParseURI(pathOrURI)
	if !ok {
		return github.Repo{}, false
	}

	var rest string
	switch u.Scheme() {
	case Scheme:
		if !strings.EqualFold(u.Authority(), Authority) {
			return github.Repo{}, false
		}
		rest = u.Path()
	case LegacyScheme:
		rest = u.Authority() + "/" + u.Path()
	default:
		return github.Repo{}, false
	}

	segments := strings.FieldsFunc(rest, func(r rune) bool { return r == '/' })
	if len(segments) < 2 {
		return github.Repo{}, false
	}
	return github.Repo{Host: "github.com", Owner: segments[0], Name: segments[1]}, true
}

// CanHandlePathOrURI accepts hosted repository URIs and returns the root
// URI of the repository they point into.
func (p *Provider) CanHandlePathOrURI(scheme, pathOrURI string) (string, bool) {
	if scheme != "" && scheme != Scheme && scheme != LegacyScheme {
		return "", false
	}
	slug, ok := parseRoot(pathOrURI)
	if !ok {
		return "", false
	}
	return RootURI(slug.Owner, slug.Name), true
}

// DiscoverRepositories reports the repository uri points into, if it
// exists. Hosted repositories do not nest.
func (p *Provider) DiscoverRepositories(ctx context.Context, uri string, _ provider.DiscoverOptions) ([]string, error) {
	root, ok := p.CanHandlePathOrURI(paths.Scheme(uri), uri)
	if !ok {
		return nil, nil
	}
	repo, err := p.lookup(ctx, root)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, root, "discover repositories")
	}
	if repo == nil {
		return nil, nil
	}
	return []string{repo.root}, nil
}

// OpenRepository returns nil when the repository does not exist on the
// host.
func (p *Provider) OpenRepository(ctx context.Context, root string) (*provider.RepositoryInfo, error) {
	repo, err := p.lookup(ctx, root)
	if err != nil {
		return nil, provider.Failure(err, provider.IDGitHub, root, "open repository")
	}
	if repo == nil {
		return nil, nil
	}
	return &provider.RepositoryInfo{Root: repo.root}, nil
}

// CloseRepository forgets the repository metadata of root.
func (p *Provider) CloseRepository(root string) {
	canonical, ok := p.CanHandlePathOrURI("", root)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.repos, paths.Key(canonical))
}

// lookup returns the metadata of the repository at root, fetching it on
// first use. It returns nil when the repository does not exist.
func (p *Provider) lookup(ctx context.Context, root string) (*remoteRepo, error) {
	slug, ok := parseRoot(root)
	if !ok {
		return nil, provider.InvalidInput("root", "not a hosted repository URI: "+root)
	}
	canonical := RootURI(slug.Owner, slug.Name)
	key := paths.Key(canonical)

	p.mu.Lock()
	repo, ok := p.repos[key]
	p.mu.Unlock()
	if ok {
		return repo, nil
	}

	info, err := p.client.GetRepository(ctx, slug.Owner, slug.Name)
	if err != nil || info == nil {
		return nil, err
	}

	repo = &remoteRepo{root: canonical, slug: slug, info: *info}
	p.mu.Lock()
	p.repos[key] = repo
	p.mu.Unlock()
	return repo, nil
}

// mustLookup is lookup for repository-scoped calls, where a missing
// repository is a failure.
func (p *Provider) mustLookup(ctx context.Context, repoPath string) (*remoteRepo, error) {
	repo, err := p.lookup(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, errors.WithContext(
			errors.New(errors.CodeNotFound, "repository not found"), "repository", repoPath)
	}
	return repo, nil
}

func (r *remoteRepo) ref(rev string) string {
	if rev == "" || rev == "HEAD" {
		return r.info.DefaultBranch
	}
	return rev
}

// Subscribe implements provider.Provider. Hosted repositories do not report
// changes.
func (p *Provider) Subscribe(fn func(provider.Event)) func() {
	return p.events.Subscribe(fn)
}

// SubProviders implements provider.Provider. Only the required groups are
// present.
func (p *Provider) SubProviders() provider.SubProviders {
	return provider.SubProviders{
		Branches:     branches{p},
		Contributors: contributors{p},
		Remotes:      remotes{p},
		Status:       status{},
		Tags:         tags{p},
	}
}
