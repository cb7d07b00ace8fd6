package provider

import (
	"slices"
	"sync"
)

// EventKind distinguishes repository lifecycle notifications.
type EventKind int

const (
	EventWillChange EventKind = iota
	EventDidChange
	EventDidOpen
	EventDidClose
)

func (k EventKind) String() string {
	switch k {
	case EventWillChange:
		return "will-change"
	case EventDidChange:
		return "did-change"
	case EventDidOpen:
		return "did-open"
	case EventDidClose:
		return "did-close"
	default:
		return "unknown"
	}
}

// Change names what part of a repository changed.
type Change string

const (
	ChangeConfig    Change = "config"
	ChangeHead      Change = "head"
	ChangeHeads     Change = "heads"
	ChangeIndex     Change = "index"
	ChangeRemotes   Change = "remotes"
	ChangeStash     Change = "stash"
	ChangeStatus    Change = "status"
	ChangeTags      Change = "tags"
	ChangeWorktrees Change = "worktrees"
	ChangeUnknown   Change = "unknown"
)

// Event is a repository notification. Root is the repository path as the
// emitting backend knows it.
type Event struct {
	Kind     EventKind
	Root     string
	Provider ID
	Changes  []Change
}

// Changed reports whether any of cs is part of the event. Events without
// change kinds count as changing everything.
func (e Event) Changed(cs ...Change) bool {
	if len(e.Changes) == 0 {
		return true
	}
	for _, c := range cs {
		if slices.Contains(e.Changes, c) {
			return true
		}
	}
	return false
}

// Emitter fans events out to subscribers. The zero value is ready to use.
type Emitter struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(Event)
}

// Subscribe registers fn and returns a func that removes it again.
func (e *Emitter) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[int]func(Event))
	}
	id := e.next
	e.next++
	e.listeners[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// Emit delivers ev to every subscriber in subscription order. Subscribers
// run on the caller's goroutine and may subscribe or unsubscribe.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.listeners[id])
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of subscribers.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}
