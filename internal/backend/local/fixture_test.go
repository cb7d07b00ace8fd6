package local

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/raphi011/gitprov/internal/paths"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	n    int
}

// newFixture creates a non-bare repository on main in a temp dir.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return &fixture{t: t, dir: paths.Normalize(dir), repo: repo}
}

func signature(name string, at time.Time) *object.Signature {
	return &object.Signature{Name: name, Email: name + "@example.com", When: at}
}

// commit writes files, stages everything and commits as author. A nil
// content deletes the file.
func (f *fixture) commit(author, msg string, files map[string]*string) plumbing.Hash {
	f.t.Helper()

	wt, err := f.repo.Worktree()
	if err != nil {
		f.t.Fatal(err)
	}
	for name, content := range files {
		full := filepath.Join(f.dir, filepath.FromSlash(name))
		if content == nil {
			if _, err := wt.Remove(name); err != nil {
				f.t.Fatalf("remove %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			f.t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(*content), 0o644); err != nil {
			f.t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			f.t.Fatalf("add %s: %v", name, err)
		}
	}

	f.n++
	sig := signature(author, epoch.Add(time.Duration(f.n)*time.Hour))
	hash, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	if err != nil {
		f.t.Fatalf("commit: %v", err)
	}
	return hash
}

func (f *fixture) setRef(name string, hash plumbing.Hash) {
	f.t.Helper()
	if err := f.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.ReferenceName(name), hash)); err != nil {
		f.t.Fatal(err)
	}
}

func text(s string) *string { return &s }
