package registry

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

func TestRegistryAddRemove(t *testing.T) {
	t.Parallel()

	reg := &Registry{Repos: []Repo{}}

	if err := reg.Add(Repo{Root: "/tmp/test/"}); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if len(reg.Repos) != 1 {
		t.Fatalf("expected 1 repo, got %d", len(reg.Repos))
	}
	if reg.Repos[0].Root != "/tmp/test" {
		t.Errorf("Root = %q, want normalized /tmp/test", reg.Repos[0].Root)
	}
	if reg.Repos[0].Name != "test" {
		t.Errorf("Name = %q, want test", reg.Repos[0].Name)
	}
	if reg.Repos[0].AddedAt.IsZero() {
		t.Error("AddedAt should be set")
	}

	err := reg.Add(Repo{Root: "/tmp/test"})
	if errors.GetCode(err) != errors.CodeAlreadyExists {
		t.Errorf("duplicate root: GetCode() = %v, want %v", errors.GetCode(err), errors.CodeAlreadyExists)
	}

	err = reg.Add(Repo{Root: "/tmp/other", Name: "test"})
	if errors.GetCode(err) != errors.CodeAlreadyExists {
		t.Errorf("duplicate name: GetCode() = %v, want %v", errors.GetCode(err), errors.CodeAlreadyExists)
	}

	if err := reg.Remove("test"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if len(reg.Repos) != 0 {
		t.Errorf("expected 0 repos, got %d", len(reg.Repos))
	}

	if err := reg.Remove("nonexistent"); errors.GetCode(err) != errors.CodeNotFound {
		t.Errorf("Remove(nonexistent) code = %v, want %v", errors.GetCode(err), errors.CodeNotFound)
	}
}

func TestRegistryAdd_EmptyRoot(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	if err := reg.Add(Repo{}); !provider.IsInvalidInput(err) {
		t.Errorf("Add(empty) error = %v, want invalid input", err)
	}
}

func TestRegistryAdd_URIRoot(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	root := "vscode-vfs://github/raphi011/gitprov"
	if err := reg.Add(Repo{Root: root, Provider: provider.IDGitHub}); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if reg.Repos[0].Root != root {
		t.Errorf("Root = %q, want %q unchanged", reg.Repos[0].Root, root)
	}
	if reg.Repos[0].Name != "gitprov" {
		t.Errorf("Name = %q, want gitprov", reg.Repos[0].Name)
	}

	// Authority is case-insensitive in the identity key.
	if _, err := reg.Find("vscode-vfs://GITHUB/raphi011/gitprov"); err != nil {
		t.Errorf("Find() by equivalent URI failed: %v", err)
	}
}

func TestRegistryFind(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	for _, r := range []Repo{{Root: "/src/foo"}, {Root: "/src/bar", Name: "backend"}} {
		if err := reg.Add(r); err != nil {
			t.Fatalf("Add(%v) failed: %v", r, err)
		}
	}

	tests := []struct {
		ref      string
		wantName string
	}{
		{"foo", "foo"},
		{"backend", "backend"},
		{"/src/bar", "backend"},
		{"/src/bar/", "backend"},
	}

	for _, tt := range tests {
		repo, err := reg.Find(tt.ref)
		if err != nil {
			t.Errorf("Find(%q) error = %v", tt.ref, err)
			continue
		}
		if repo.Name != tt.wantName {
			t.Errorf("Find(%q) = %q, want %q", tt.ref, repo.Name, tt.wantName)
		}
	}

	if _, err := reg.Find("baz"); err == nil {
		t.Error("expected error for non-existent repo")
	}

	if got := reg.Names(); !slices.Equal(got, []string{"backend", "foo"}) {
		t.Errorf("Names() = %v, want [backend foo]", got)
	}
	if got := reg.Roots(); !slices.Equal(got, []string{"/src/foo", "/src/bar"}) {
		t.Errorf("Roots() = %v, want registration order", got)
	}
}

func TestRegistrySaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gitprov", FileName)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of missing file failed: %v", err)
	}
	if len(reg.Repos) != 0 {
		t.Errorf("expected empty registry, got %d repos", len(reg.Repos))
	}

	if err := reg.Add(Repo{Root: "/tmp/foo"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Add(Repo{Root: "vscode-vfs://github/o/r", Provider: provider.IDGitHub}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("registry file was not created: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(loaded.Repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(loaded.Repos))
	}
	if loaded.Repos[1].Provider != provider.IDGitHub {
		t.Errorf("Provider = %q, want %q", loaded.Repos[1].Provider, provider.IDGitHub)
	}
}

func TestRegistrySave_NoPath(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	if err := reg.Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of invalid JSON should fail")
	}
}

func TestUpdate_Concurrent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	roots := []string{"/r/a", "/r/b", "/r/c", "/r/d", "/r/e"}

	var wg sync.WaitGroup
	for _, root := range roots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Update(path, func(r *Registry) error {
				return r.Add(Repo{Root: root})
			}); err != nil {
				t.Errorf("Update(%s) error = %v", root, err)
			}
		}()
	}
	wg.Wait()

	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.Repos) != len(roots) {
		t.Errorf("expected %d repos after concurrent updates, got %d", len(roots), len(reg.Repos))
	}
}

func TestUpdate_FailureDoesNotSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	boom := errors.New(errors.CodeConflict, "boom")

	err := Update(path, func(r *Registry) error {
		_ = r.Add(Repo{Root: "/r/a"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want %v", err, boom)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("registry should not be written when fn fails")
	}
}
