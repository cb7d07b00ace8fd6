package history

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/raphi011/gitprov/internal/provider"
)

func TestRecordAccess(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")

	if err := RecordAccess("/src/app", provider.IDGit, historyFile); err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Entries))
	}
	e := h.Entries[0]
	if e.Root != "/src/app" {
		t.Errorf("Root = %q, want %q", e.Root, "/src/app")
	}
	if e.Provider != provider.IDGit {
		t.Errorf("Provider = %q, want %q", e.Provider, provider.IDGit)
	}
	if e.AccessCount != 1 {
		t.Errorf("AccessCount = %d, want 1", e.AccessCount)
	}
	if e.LastAccess.IsZero() {
		t.Error("LastAccess should not be zero")
	}
}

func TestRecordAccess_IncrementExisting(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")

	for range 2 {
		if err := RecordAccess("/src/app", provider.IDGit, historyFile); err != nil {
			t.Fatalf("RecordAccess failed: %v", err)
		}
	}
	// identity follows path keys, so a trailing slash is the same root
	if err := RecordAccess("/src/app/", provider.IDGit, historyFile); err != nil {
		t.Fatalf("RecordAccess failed: %v", err)
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Entries))
	}
	if h.Entries[0].AccessCount != 3 {
		t.Errorf("AccessCount = %d, want 3", h.Entries[0].AccessCount)
	}
}

func TestRecordAccess_EmptyRoot(t *testing.T) {
	t.Parallel()

	err := RecordAccess("", provider.IDGit, filepath.Join(t.TempDir(), "history.json"))
	if !provider.IsInvalidInput(err) {
		t.Errorf("RecordAccess(\"\") error = %v, want invalid input", err)
	}
}

func TestRecord_MaxCap(t *testing.T) {
	t.Parallel()

	base := time.Now().Add(-time.Hour)
	h := &History{}
	for i := range maxEntries {
		h.Entries = append(h.Entries, Entry{
			Root:        filepath.ToSlash(filepath.Join("/src", "repo", string(rune('a'+i%26)), string(rune('0'+i/26)))),
			AccessCount: 1,
			LastAccess:  base.Add(time.Duration(i) * time.Second),
		})
	}
	oldest := h.Entries[0].Root

	h.record("/src/new", provider.IDGit, time.Now())

	if len(h.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(h.Entries))
	}
	if h.FindByRoot("/src/new") == nil {
		t.Error("new entry not found after cap eviction")
	}
	if h.FindByRoot(oldest) != nil {
		t.Errorf("oldest entry %q survived eviction", oldest)
	}
}

func TestRemoveStale(t *testing.T) {
	t.Parallel()

	validPath := filepath.Join(t.TempDir(), "valid")
	if err := os.MkdirAll(validPath, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	h := &History{Entries: []Entry{
		{Root: filepath.ToSlash(validPath)},
		{Root: "/nonexistent/path"},
		{Root: "vscode-vfs://github/acme/widgets"},
		{Root: "/~0/app"},
	}}

	if removed := h.RemoveStale(); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if h.FindByRoot("/nonexistent/path") != nil {
		t.Error("stale entry was kept")
	}
	if len(h.Entries) != 3 {
		t.Errorf("expected 3 entries remaining, got %d", len(h.Entries))
	}
}

func TestRemoveByRoot(t *testing.T) {
	t.Parallel()

	h := &History{Entries: []Entry{{Root: "/src/a"}, {Root: "/src/b"}, {Root: "/src/c"}}}

	if !h.RemoveByRoot("/src/b") {
		t.Error("expected RemoveByRoot to return true for existing entry")
	}
	if len(h.Entries) != 2 {
		t.Fatalf("expected 2 entries after removal, got %d", len(h.Entries))
	}
	if h.FindByRoot("/src/b") != nil {
		t.Error("removed entry should not be findable")
	}
	if h.RemoveByRoot("/src/nonexistent") {
		t.Error("expected RemoveByRoot to return false for nonexistent entry")
	}
}

func TestRecent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	h := &History{Entries: []Entry{
		{Root: "/src/old", LastAccess: now.Add(-2 * time.Hour)},
		{Root: "/src/new", LastAccess: now},
		{Root: "/src/mid", LastAccess: now.Add(-time.Hour)},
	}}

	roots := func(es []Entry) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.Root
		}
		return out
	}

	if got, want := roots(h.Recent(0)), []string{"/src/new", "/src/mid", "/src/old"}; !slices.Equal(got, want) {
		t.Errorf("Recent(0) = %v, want %v", got, want)
	}
	if got, want := roots(h.Recent(2)), []string{"/src/new", "/src/mid"}; !slices.Equal(got, want) {
		t.Errorf("Recent(2) = %v, want %v", got, want)
	}
	if h.Entries[0].Root != "/src/old" {
		t.Error("Recent() reordered the history")
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Parallel()

	h, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 0 {
		t.Errorf("expected 0 entries for missing file, got %d", len(h.Entries))
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(historyFile, []byte("not valid json"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Load(historyFile); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "subdir", "history.json")

	h := &History{Entries: []Entry{{Root: "/src/app", AccessCount: 1, LastAccess: time.Now()}}}
	if err := h.Save(historyFile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(historyFile); os.IsNotExist(err) {
		t.Error("expected history file to be created")
	}
}
