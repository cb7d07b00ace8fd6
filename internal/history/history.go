// Package history remembers which repositories gitprov opened recently,
// so "gitprov repos recent" can offer them again.
package history

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/storage"
)

// FileName is the history file inside the data directory.
const FileName = "history.json"

// maxEntries caps the history; the least recently used entry is evicted.
const maxEntries = 100

// Entry is one remembered repository.
type Entry struct {
	Root        string      `json:"root"`
	Provider    provider.ID `json:"provider,omitempty"`
	AccessCount int         `json:"access_count"`
	LastAccess  time.Time   `json:"last_access"`
}

// History holds the remembered repositories.
type History struct {
	Entries []Entry `json:"entries"`
}

// DefaultPath returns $XDG_DATA_HOME/gitprov/history.json.
func DefaultPath() string {
	p, err := storage.DataFile(FileName)
	if err != nil {
		return ""
	}
	return p
}

// Load reads the history at path. A missing file yields an empty history.
func Load(path string) (*History, error) {
	h := &History{}
	if err := storage.LoadJSON(path, h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return h, nil
		}
		return nil, err
	}
	return h, nil
}

// Save writes the history to path.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// RecordAccess bumps root in the history at path, adding it if needed.
func RecordAccess(root string, id provider.ID, path string) error {
	if root == "" {
		return provider.InvalidInput("root", "repository root must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create history directory")
	}
	return storage.WithLock(path+".lock", func() error {
		h, err := Load(path)
		if err != nil {
			return err
		}
		h.record(root, id, time.Now().UTC())
		return h.Save(path)
	})
}

func (h *History) record(root string, id provider.ID, now time.Time) {
	if e := h.FindByRoot(root); e != nil {
		e.AccessCount++
		e.LastAccess = now
		e.Provider = id
		return
	}
	if len(h.Entries) >= maxEntries {
		oldest := 0
		for i, e := range h.Entries {
			if e.LastAccess.Before(h.Entries[oldest].LastAccess) {
				oldest = i
			}
		}
		h.Entries = slices.Delete(h.Entries, oldest, oldest+1)
	}
	h.Entries = append(h.Entries, Entry{Root: root, Provider: id, AccessCount: 1, LastAccess: now})
}

// FindByRoot returns the entry of root, or nil.
func (h *History) FindByRoot(root string) *Entry {
	key := paths.Key(root)
	for i := range h.Entries {
		if paths.Key(h.Entries[i].Root) == key {
			return &h.Entries[i]
		}
	}
	return nil
}

// RemoveByRoot forgets root. It reports whether an entry was removed.
func (h *History) RemoveByRoot(root string) bool {
	key := paths.Key(root)
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return paths.Key(e.Root) == key })
	return len(h.Entries) != n
}

// RemoveStale drops filesystem roots that no longer exist. URI roots are
// kept; checking them would need the network. Returns the number removed.
func (h *History) RemoveStale() int {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool {
		if paths.HasScheme(e.Root) || paths.HasVslsPrefix(e.Root) {
			return false
		}
		_, err := os.Stat(filepath.FromSlash(e.Root))
		return os.IsNotExist(err)
	})
	return n - len(h.Entries)
}

// Recent returns up to limit entries, most recently used first. A limit of
// zero returns all of them.
func (h *History) Recent(limit int) []Entry {
	out := slices.Clone(h.Entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.LastAccess.UnixNano(), a.LastAccess.UnixNano())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
