package cache

import (
	"slices"

	"github.com/raphi011/gitprov/internal/provider"
)

// Key names a cached query result.
type Key string

const (
	KeyBranches     Key = "branches"
	KeyContributors Key = "contributors"
	KeyProviders    Key = "providers"
	KeyRemotes      Key = "remotes"
	KeyStashes      Key = "stashes"
	KeyStatus       Key = "status"
	KeyTags         Key = "tags"
	KeyWorktrees    Key = "worktrees"
)

// Scope says which signal invalidates a key.
type Scope int

const (
	// ScopeRepository keys are dropped on every change event of their repository.
	ScopeRepository Scope = iota
	// ScopeProvider keys are dropped by narrower signals: a matching change
	// kind, a mutating call, or a backend-wide reset.
	ScopeProvider
	// ScopeGlobal keys are only dropped by an explicit reset.
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeRepository:
		return "repository"
	case ScopeProvider:
		return "provider"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Registry is the closed set of cache keys with their scopes and the change
// kinds that invalidate provider-scoped keys.
type Registry struct {
	keys    []Key
	scopes  map[Key]Scope
	changes map[provider.Change][]Key
}

// NewRegistry builds a registry. Keys are reported in the order given.
func NewRegistry(keys []Key, scopes map[Key]Scope, changes map[provider.Change][]Key) *Registry {
	return &Registry{
		keys:    slices.Clone(keys),
		scopes:  scopes,
		changes: changes,
	}
}

// DefaultRegistry is the registry gitprov wires into the router.
var DefaultRegistry = NewRegistry(
	[]Key{KeyBranches, KeyContributors, KeyProviders, KeyRemotes, KeyStashes, KeyStatus, KeyTags, KeyWorktrees},
	map[Key]Scope{
		KeyBranches:     ScopeRepository,
		KeyRemotes:      ScopeRepository,
		KeyContributors: ScopeProvider,
		KeyStashes:      ScopeProvider,
		KeyStatus:       ScopeProvider,
		KeyTags:         ScopeProvider,
		KeyWorktrees:    ScopeProvider,
		KeyProviders:    ScopeGlobal,
	},
	map[provider.Change][]Key{
		provider.ChangeStash:     {KeyStashes},
		provider.ChangeTags:      {KeyTags},
		provider.ChangeWorktrees: {KeyWorktrees},
		provider.ChangeIndex:     {KeyStatus},
		provider.ChangeStatus:    {KeyStatus},
		provider.ChangeHead:      {KeyStatus},
		provider.ChangeHeads:     {KeyContributors},
		provider.ChangeRemotes:   {KeyProviders},
	},
)

// Keys returns every key.
func (r *Registry) Keys() []Key {
	return slices.Clone(r.keys)
}

// Valid reports whether k is part of the registry.
func (r *Registry) Valid(k Key) bool {
	_, ok := r.scopes[k]
	return ok
}

// Scope returns the scope of k.
func (r *Registry) Scope(k Key) (Scope, bool) {
	s, ok := r.scopes[k]
	return s, ok
}

// RepositoryScoped returns the keys every repository change invalidates.
func (r *Registry) RepositoryScoped() []Key {
	var out []Key
	for _, k := range r.keys {
		if r.scopes[k] == ScopeRepository {
			out = append(out, k)
		}
	}
	return out
}

// KeysForChanges returns the keys to drop for a change event carrying
// changes: the repository-scoped keys plus whatever the explicit change
// kinds map to.
func (r *Registry) KeysForChanges(changes []provider.Change) []Key {
	out := r.RepositoryScoped()
	for _, c := range changes {
		for _, k := range r.changes[c] {
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	return out
}
