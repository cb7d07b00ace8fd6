// Package registry manages the list of known repositories at
// $XDG_DATA_HOME/gitprov/repos.json.
package registry

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/storage"
)

// FileName is the registry file inside the data directory.
const FileName = "repos.json"

// Repo is a remembered repository root.
type Repo struct {
	Root     string      `json:"root"` // filesystem path or URI
	Name     string      `json:"name"`
	Provider provider.ID `json:"provider,omitempty"`
	AddedAt  time.Time   `json:"added_at"`
}

// Key returns the identity key of the repository root.
func (r Repo) Key() string {
	return paths.Key(r.Root)
}

// Registry holds all remembered repositories.
type Registry struct {
	Repos []Repo `json:"repos"`

	path string
}

// DefaultPath returns $XDG_DATA_HOME/gitprov/repos.json.
func DefaultPath() (string, error) {
	return storage.DataFile(FileName)
}

// Load reads the registry at path. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	reg := &Registry{Repos: []Repo{}, path: path}
	if err := storage.LoadJSON(path, reg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return reg, nil
		}
		return nil, err
	}
	if reg.Repos == nil {
		reg.Repos = []Repo{}
	}
	return reg, nil
}

// Save writes the registry back to the path it was loaded from.
func (r *Registry) Save() error {
	if r.path == "" {
		return errors.New(errors.CodeInvalidInput, "registry has no path")
	}
	return storage.SaveJSON(r.path, r)
}

// Update loads the registry at path, applies fn and saves the result while
// holding an exclusive lock, so concurrent gitprov processes do not lose
// each other's writes. Nothing is saved when fn fails.
func Update(path string, fn func(*Registry) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create registry directory")
	}
	return storage.WithLock(path+".lock", func() error {
		reg, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return reg.Save()
	})
}

// Add remembers repo. File roots are made absolute; the name defaults to the
// last path segment of the root.
func (r *Registry) Add(repo Repo) error {
	if repo.Root == "" {
		return provider.InvalidInput("root", "repository root must not be empty")
	}
	if !paths.HasScheme(repo.Root) {
		abs, err := filepath.Abs(repo.Root)
		if err != nil {
			return errors.Wrap(err, errors.CodeInvalidInput, "resolve path")
		}
		repo.Root = paths.Normalize(abs)
	}
	if repo.Name == "" {
		repo.Name = defaultName(repo.Root)
	}
	if repo.AddedAt.IsZero() {
		repo.AddedAt = time.Now().UTC()
	}

	key := repo.Key()
	for _, existing := range r.Repos {
		if existing.Key() == key {
			return errors.WithContext(
				errors.Newf(errors.CodeAlreadyExists, "repository already registered: %s", repo.Root),
				"root", repo.Root)
		}
		if existing.Name == repo.Name {
			return errors.Newf(errors.CodeAlreadyExists,
				"repository name already exists: %s (use a different name)", repo.Name)
		}
	}

	r.Repos = append(r.Repos, repo)
	return nil
}

func defaultName(root string) string {
	p := strings.TrimRight(paths.BestPath(root), "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return root
	}
	return p
}

// Remove forgets a repository by name or root.
func (r *Registry) Remove(nameOrRoot string) error {
	i := r.index(nameOrRoot)
	if i < 0 {
		return errors.Newf(errors.CodeNotFound, "repository not found: %s", nameOrRoot)
	}
	r.Repos = slices.Delete(r.Repos, i, i+1)
	return nil
}

// Find looks up a repository by name or root.
func (r *Registry) Find(nameOrRoot string) (*Repo, error) {
	i := r.index(nameOrRoot)
	if i < 0 {
		return nil, errors.Newf(errors.CodeNotFound, "repository not found: %s", nameOrRoot)
	}
	return &r.Repos[i], nil
}

func (r *Registry) index(ref string) int {
	for i := range r.Repos {
		if r.Repos[i].Name == ref {
			return i
		}
	}
	key := paths.Key(ref)
	if !paths.HasScheme(ref) {
		if abs, err := filepath.Abs(ref); err == nil {
			key = paths.Key(abs)
		}
	}
	for i := range r.Repos {
		if r.Repos[i].Key() == key {
			return i
		}
	}
	return -1
}

// Names returns all repository names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.Repos))
	for i, repo := range r.Repos {
		names[i] = repo.Name
	}
	slices.Sort(names)
	return names
}

// Roots returns all repository roots in registration order.
func (r *Registry) Roots() []string {
	roots := make([]string, len(r.Repos))
	for i, repo := range r.Repos {
		roots[i] = repo.Root
	}
	return roots
}
