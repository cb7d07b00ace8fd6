package vsls

import (
	"slices"

	"github.com/raphi011/gitprov/internal/provider"
)

// LocalSession shares folders of this machine, with host serving them.
// gitprov uses it to expose configured folders through the overlay without
// a remote session.
type LocalSession struct {
	roots []string
	host  provider.Provider
}

// NewLocalSession shares roots, in order, through host.
func NewLocalSession(host provider.Provider, roots ...string) *LocalSession {
	return &LocalSession{roots: slices.Clone(roots), host: host}
}

// SharedRoots implements Session.
func (s *LocalSession) SharedRoots() []string { return slices.Clone(s.roots) }

// Host implements Session.
func (s *LocalSession) Host() provider.Provider { return s.host }
