package local

import (
	"context"
	"path"

	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

// DiscoverRepositories walks the directory at uri up to opts.Depth levels
// deep and returns every repository root it finds, including uri itself.
// Nested repositories are reported too; .git directories and directories
// matching an exclude pattern are never entered.
func (p *Provider) DiscoverRepositories(ctx context.Context, uri string, opts provider.DiscoverOptions) ([]string, error) {
	root, ok := p.CanHandlePathOrURI(paths.Scheme(uri), uri)
	if !ok {
		return nil, nil
	}

	if _, err := p.fs.Stat(root); err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, provider.Failure(err, provider.IDGit, root, "discover repositories")
	}

	var found []string
	err := p.walk(ctx, root, 0, opts, &found)
	return found, err
}

func (p *Provider) walk(ctx context.Context, dir string, depth int, opts provider.DiscoverOptions, found *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if git.IsRepository(p.fs, dir) {
		*found = append(*found, dir)
	}
	if depth >= opts.Depth {
		return nil
	}

	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		log.FromContext(ctx).Debug("skip unreadable directory", "dir", dir, "error", err)
		return nil
	}

	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".git" || excluded(e.Name(), opts.Exclude) {
			continue
		}
		if err := p.walk(ctx, path.Join(dir, e.Name()), depth+1, opts, found); err != nil {
			return err
		}
	}
	return nil
}

func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
