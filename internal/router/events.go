package router

import (
	"slices"
	"time"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

// pendingChange collects did-change events of one repository while the
// debounce timer runs. A nil changes slice means "everything changed".
type pendingChange struct {
	timer   *time.Timer
	changes []provider.Change
	all     bool
}

func (pc *pendingChange) merge(changes []provider.Change) {
	if len(changes) == 0 {
		pc.all, pc.changes = true, nil
		return
	}
	if pc.all {
		return
	}
	for _, c := range changes {
		if !slices.Contains(pc.changes, c) {
			pc.changes = append(pc.changes, c)
		}
	}
}

// OnWillChangeRepository subscribes fn to notifications sent before a
// repository changes.
func (r *Router) OnWillChangeRepository(fn func(provider.Event)) func() {
	return r.willChange.Subscribe(fn)
}

// OnDidChangeRepository subscribes fn to change notifications. Cached
// values of the repository are already dropped when fn runs.
func (r *Router) OnDidChangeRepository(fn func(provider.Event)) func() {
	return r.didChange.Subscribe(fn)
}

func (r *Router) OnDidOpenRepository(fn func(provider.Event)) func() {
	return r.didOpen.Subscribe(fn)
}

func (r *Router) OnDidCloseRepository(fn func(provider.Event)) func() {
	return r.didClose.Subscribe(fn)
}

// handleEvent receives events of backend p. Events for repositories that
// are not open are dropped, as are the backend's own open and close
// notifications; the router sends those itself.
func (r *Router) handleEvent(p provider.Provider, ev provider.Event) {
	h := r.eventTarget(p, ev.Root)
	if h == nil {
		return
	}
	ev.Root = h.Root()
	ev.Provider = h.ProviderID()

	switch ev.Kind {
	case provider.EventWillChange:
		r.willChange.Emit(ev)
	case provider.EventDidChange:
		h.Invalidate(ev.Changes)
		if r.debounce <= 0 {
			r.didChange.Emit(ev)
			return
		}
		r.schedule(h, ev.Changes)
	}
}

// eventTarget returns the open handle of p that root belongs to.
func (r *Router) eventTarget(p provider.Provider, root string) *repository.Handle {
	id := p.Descriptor().ID
	if h, ok := r.lookup(root); ok && h.ProviderID() == id {
		return h
	}
	if h, ok := r.Repository(root); ok && h.ProviderID() == id {
		return h
	}
	return nil
}

func (r *Router) schedule(h *repository.Handle, changes []provider.Change) {
	key := paths.Key(h.Root())

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repos[key] != h {
		return
	}
	if pc, ok := r.pending[key]; ok {
		pc.merge(changes)
		return
	}
	pc := &pendingChange{}
	pc.merge(changes)
	pc.timer = time.AfterFunc(r.debounce, func() { r.flush(key, pc) })
	r.pending[key] = pc
}

func (r *Router) flush(key string, pc *pendingChange) {
	r.mu.Lock()
	if r.pending[key] != pc {
		r.mu.Unlock()
		return
	}
	delete(r.pending, key)
	h := r.repos[key]
	r.mu.Unlock()
	if h == nil {
		return
	}

	r.didChange.Emit(provider.Event{
		Kind:     provider.EventDidChange,
		Root:     h.Root(),
		Provider: h.ProviderID(),
		Changes:  pc.changes,
	})
}
