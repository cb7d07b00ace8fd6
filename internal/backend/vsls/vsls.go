// Package vsls is the virtual backend for repositories shared through a
// collaborative session.
//
// A guest sees the host's shared folders under overlay prefixes: the first
// shared root is /~0, the second /~1, and files outside every shared root
// appear below /~external. Guest paths are carried as vsls: URIs
// (vsls:/~0/src/app.go). The backend translates them into host paths,
// forwards the call to the host's provider and maps any paths in the
// result back into the guest's view.
//
// Guests have no working tree of their own. Only the required sub-provider
// groups are offered.
package vsls

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

// Scheme is the URI scheme of guest paths.
const Scheme = paths.VslsScheme

const externalPrefix = "/~external"

// Session is the collaborative session as seen by a guest.
type Session interface {
	// SharedRoots lists the host folders shared with guests, in overlay
	// order. Entries are host filesystem paths.
	SharedRoots() []string
	// Host is the provider serving the host's repositories.
	Host() provider.Provider
}

// Provider is the collaborative-session backend.
type Provider struct {
	session Session

	events provider.Emitter

	once        sync.Once
	unsubscribe func()
}

var _ provider.Provider = (*Provider)(nil)

// New creates the backend for session.
func New(session Session) *Provider {
	return &Provider{session: session}
}

// Descriptor implements provider.Provider.
func (p *Provider) Descriptor() provider.Descriptor {
	return provider.Descriptor{ID: provider.IDVsls, Name: "Live Share", Virtual: true}
}

// Schemes implements provider.Provider.
func (p *Provider) Schemes() []string {
	return []string{Scheme}
}

// GuestURI turns an overlay path such as "/~0/src" into a guest URI.
func GuestURI(overlayPath string) string {
	return Scheme + ":" + overlayPath
}

// CanHandlePathOrURI accepts vsls: URIs and plain overlay paths. Whether the
// overlay index names an actual shared root is only checked when the path
// is used.
func (p *Provider) CanHandlePathOrURI(scheme, pathOrURI string) (string, bool) {
	if scheme != "" && scheme != Scheme && scheme != paths.FileScheme {
		return "", false
	}
	if u, ok := paths.ParseURI(pathOrURI); ok && u.Scheme() != Scheme {
		return "", false
	}
	path := paths.BestPath(pathOrURI)
	if !paths.HasVslsPrefix(path) {
		return "", false
	}
	prefix, rest, _ := paths.SplitVslsPrefix(path)
	return GuestURI(prefix + rest), true
}

// hostPath translates a guest path or URI into the host filesystem path.
func (p *Provider) hostPath(guest string) (string, error) {
	prefix, rest, ok := paths.SplitVslsPrefix(paths.BestPath(guest))
	if !ok {
		return "", provider.InvalidInput("path", "not a session path: "+guest)
	}
	if prefix == externalPrefix {
		if rest == "" {
			return "", provider.InvalidInput("path", "external session path has no host path: "+guest)
		}
		return rest, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(prefix, "/~"))
	roots := p.session.SharedRoots()
	if err != nil || n < 0 || n >= len(roots) {
		return "", provider.InvalidInput("path", fmt.Sprintf("no shared root %s in session", prefix))
	}
	root := paths.Normalize(roots[n])
	if rest == "" {
		return root, nil
	}
	return strings.TrimSuffix(root, "/") + rest, nil
}

// guestPath translates a host path or file URI into the guest URI. Paths
// outside every shared root are reported as external.
func (p *Provider) guestPath(host string) string {
	host = paths.BestPath(host)
	for i, root := range p.session.SharedRoots() {
		root = paths.Normalize(root)
		overlay := "/~" + strconv.Itoa(i)
		switch {
		case paths.Key(host) == paths.Key(root):
			return GuestURI(overlay)
		case paths.IsDescendant(host, root):
			if root == "/" {
				return GuestURI(overlay + host)
			}
			return GuestURI(overlay + host[len(root):])
		}
	}
	if !strings.HasPrefix(host, "/") {
		host = "/" + host
	}
	return GuestURI(externalPrefix + host)
}

// argPath translates a file argument. Relative paths are relative to the
// repository and pass unchanged.
func (p *Provider) argPath(path string) (string, error) {
	if paths.HasVslsPrefix(paths.BestPath(path)) {
		return p.hostPath(path)
	}
	return path, nil
}

// DiscoverRepositories searches the host below uri. The session root
// ("vsls:/") stands for every shared root.
func (p *Provider) DiscoverRepositories(ctx context.Context, uri string, opts provider.DiscoverOptions) ([]string, error) {
	if u, ok := paths.ParseURI(uri); ok && u.Scheme() != Scheme {
		return nil, nil
	}

	var hostRoots []string
	if path := paths.BestPath(uri); path == "" || path == "/" {
		hostRoots = p.session.SharedRoots()
	} else {
		root, err := p.hostPath(uri)
		if err != nil {
			return nil, err
		}
		hostRoots = []string{root}
	}

	var found []string
	for _, root := range hostRoots {
		repos, err := p.session.Host().DiscoverRepositories(ctx, root, opts)
		for _, r := range repos {
			found = append(found, p.guestPath(r))
		}
		if err != nil {
			return found, provider.Failure(err, provider.IDVsls, uri, "discover repositories")
		}
	}
	return found, nil
}

// OpenRepository opens the host repository and reports it under its guest
// path.
func (p *Provider) OpenRepository(ctx context.Context, root string) (*provider.RepositoryInfo, error) {
	host, err := p.hostPath(root)
	if err != nil {
		return nil, err
	}
	info, err := p.session.Host().OpenRepository(ctx, host)
	if err != nil {
		return nil, provider.Failure(err, provider.IDVsls, root, "open repository")
	}
	if info == nil {
		return nil, nil
	}
	p.once.Do(func() { p.unsubscribe = p.session.Host().Subscribe(p.forward) })
	return &provider.RepositoryInfo{Root: p.guestPath(info.Root), GitDir: p.guestGitDir(info.GitDir)}, nil
}

// CloseRepository closes the host repository behind root.
func (p *Provider) CloseRepository(root string) {
	host, err := p.hostPath(root)
	if err != nil {
		return
	}
	p.session.Host().CloseRepository(host)
}

// Close stops forwarding host events.
func (p *Provider) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *Provider) guestGitDir(d *provider.GitDir) *provider.GitDir {
	if d == nil {
		return nil
	}
	out := &provider.GitDir{URI: p.guestPath(d.URI)}
	if d.CommonURI != "" {
		out.CommonURI = p.guestPath(d.CommonURI)
	}
	return out
}

// forward re-emits host events for repositories inside shared roots.
func (p *Provider) forward(ev provider.Event) {
	root := p.guestPath(ev.Root)
	if strings.HasPrefix(paths.BestPath(root), externalPrefix) {
		return
	}
	ev.Root = root
	ev.Provider = provider.IDVsls
	p.events.Emit(ev)
}

// Subscribe implements provider.Provider.
func (p *Provider) Subscribe(fn func(provider.Event)) func() {
	return p.events.Subscribe(fn)
}

// hostCall resolves repoPath and returns the host path and provider.
func (p *Provider) hostCall(repoPath string) (string, provider.Provider, error) {
	host, err := p.hostPath(repoPath)
	if err != nil {
		return "", nil, err
	}
	return host, p.session.Host(), nil
}

func (p *Provider) GetCommit(ctx context.Context, repoPath string, rev string) (*provider.Commit, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return nil, err
	}
	c, err := hp.GetCommit(ctx, host, rev)
	return c, provider.Failure(err, provider.IDVsls, repoPath, "get commit")
}

func (p *Provider) GetLog(ctx context.Context, repoPath string, opts provider.LogOptions) (*provider.Log, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return nil, err
	}
	log, err := hp.GetLog(ctx, host, opts)
	return log, provider.Failure(err, provider.IDVsls, repoPath, "get log")
}

func (p *Provider) GetDiffStatus(ctx context.Context, repoPath string, ref1, ref2 string) ([]provider.FileChange, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return nil, err
	}
	changes, err := hp.GetDiffStatus(ctx, host, ref1, ref2)
	return changes, provider.Failure(err, provider.IDVsls, repoPath, "get diff status")
}

func (p *Provider) GetBlame(ctx context.Context, repoPath string, path string, rev string) (*provider.Blame, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return nil, err
	}
	file, err := p.argPath(path)
	if err != nil {
		return nil, err
	}
	blame, err := hp.GetBlame(ctx, host, file, rev)
	return blame, provider.Failure(err, provider.IDVsls, repoPath, "get blame")
}

func (p *Provider) ValidateReference(ctx context.Context, repoPath string, ref string) (bool, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return false, err
	}
	ok, err := hp.ValidateReference(ctx, host, ref)
	return ok, provider.Failure(err, provider.IDVsls, repoPath, "validate reference")
}

func (p *Provider) GetGitDir(ctx context.Context, repoPath string) (*provider.GitDir, error) {
	host, hp, err := p.hostCall(repoPath)
	if err != nil {
		return nil, err
	}
	d, err := hp.GetGitDir(ctx, host)
	if err != nil {
		return nil, provider.Failure(err, provider.IDVsls, repoPath, "get git dir")
	}
	return p.guestGitDir(d), nil
}
