package git

import (
	"slices"
	"testing"
	"time"

	"github.com/raphi011/gitprov/internal/provider"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	out := "# branch.oid 1111111111111111111111111111111111111111\x00" +
		"# branch.head main\x00" +
		"# branch.upstream origin/main\x00" +
		"# branch.ab +2 -1\x00" +
		"1 M. N... 100644 100644 100644 abc abc src/a file.go\x00" +
		"1 .D N... 100644 100644 000000 abc abc gone.txt\x00" +
		"2 R. N... 100644 100644 100644 abc abc R100 new.go\x00old.go\x00" +
		"u UU N... 100644 100644 100644 100644 abc abc abc conflict.go\x00" +
		"? notes.md\x00"

	st, err := ParseStatus([]byte(out))
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}

	if st.Branch != "main" || st.Upstream != "origin/main" || st.Ahead != 2 || st.Behind != 1 {
		t.Errorf("branch header = %+v", st)
	}
	if st.SHA != "1111111111111111111111111111111111111111" {
		t.Errorf("SHA = %q", st.SHA)
	}

	want := []provider.FileStatus{
		{Path: "src/a file.go", Index: provider.StatusModified, WorkingTree: provider.StatusUnmodified},
		{Path: "gone.txt", Index: provider.StatusUnmodified, WorkingTree: provider.StatusDeleted},
		{Path: "new.go", OriginalPath: "old.go", Index: provider.StatusRenamed, WorkingTree: provider.StatusUnmodified},
		{Path: "conflict.go", Index: provider.StatusUnmerged, WorkingTree: provider.StatusUnmerged},
		{Path: "notes.md", Index: provider.StatusUntracked, WorkingTree: provider.StatusUntracked},
	}
	if !slices.Equal(st.Files, want) {
		t.Errorf("Files = %+v\nwant %+v", st.Files, want)
	}
	if !st.HasConflicts() {
		t.Error("HasConflicts() = false, want true")
	}
}

func TestParseStatus_DetachedInitial(t *testing.T) {
	t.Parallel()

	st, err := ParseStatus([]byte("# branch.oid (initial)\x00# branch.head (detached)\x00"))
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if !st.Detached || st.SHA != "" || st.Branch != "" {
		t.Errorf("ParseStatus() = %+v, want detached with no SHA", st)
	}
	if st.HasChanges() {
		t.Error("HasChanges() = true for a clean tree")
	}
}

func TestParseStatus_Malformed(t *testing.T) {
	t.Parallel()

	for _, out := range []string{"1 M. short\x00", "x what\x00", "2 R. N... 1 1 1 a a R100 only.go"} {
		if _, err := ParseStatus([]byte(out)); err == nil {
			t.Errorf("ParseStatus(%q) error = nil, want error", out)
		}
	}
}

func TestParseWorktrees(t *testing.T) {
	t.Parallel()

	out := `worktree /src/repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /src/repo-feature
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feature/x
locked on usb drive

worktree /tmp/gone
HEAD 3333333333333333333333333333333333333333
detached
prunable gitdir file points to non-existent location
`

	got := ParseWorktrees([]byte(out))
	want := []provider.Worktree{
		{Path: "/src/repo", SHA: "1111111111111111111111111111111111111111", Branch: "main", Main: true},
		{Path: "/src/repo-feature", SHA: "2222222222222222222222222222222222222222", Branch: "feature/x", Locked: true},
		{Path: "/tmp/gone", SHA: "3333333333333333333333333333333333333333", Detached: true, Prunable: true},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ParseWorktrees() = %+v\nwant %+v", got, want)
	}
}

func TestParseWorktrees_Bare(t *testing.T) {
	t.Parallel()

	got := ParseWorktrees([]byte("worktree /src/repo.git\nbare\n"))
	if len(got) != 1 || !got[0].Bare || !got[0].Main {
		t.Errorf("ParseWorktrees(bare) = %+v", got)
	}
	if got := ParseWorktrees(nil); len(got) != 0 {
		t.Errorf("ParseWorktrees(nil) = %+v, want empty", got)
	}
}

func TestParseStashList(t *testing.T) {
	t.Parallel()

	out := "stash@{0}\x1faaaa\x1f1700000000\x1fOn main: wip parser\n" +
		"stash@{1}\x1fbbbb\x1f1600000000\x1fWIP on main: 123 msg\n"

	st, err := ParseStashList([]byte(out))
	if err != nil {
		t.Fatalf("ParseStashList() error = %v", err)
	}
	if len(st.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(st.Entries))
	}
	first := st.Entries[0]
	if first.Ref != "stash@{0}" || first.SHA != "aaaa" || first.Message != "On main: wip parser" {
		t.Errorf("Entries[0] = %+v", first)
	}
	if !first.Date.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Entries[0].Date = %v", first.Date)
	}

	if _, err := ParseStashList([]byte("stash@{0} no separators\n")); err == nil {
		t.Error("ParseStashList(malformed) error = nil")
	}
}

func TestStashPushArgs(t *testing.T) {
	t.Parallel()

	got := StashPushArgs("wip", provider.StashSaveOptions{IncludeUntracked: true, Paths: []string{"a.go"}})
	want := []string{"stash", "push", "--include-untracked", "-m", "wip", "--", "a.go"}
	if !slices.Equal(got, want) {
		t.Errorf("StashPushArgs() = %v, want %v", got, want)
	}
}

func TestParseNameStatus(t *testing.T) {
	t.Parallel()

	out := "M\x00src/main.go\x00R087\x00old name.go\x00new name.go\x00A\x00added.go\x00"
	got, err := ParseNameStatus([]byte(out))
	if err != nil {
		t.Fatalf("ParseNameStatus() error = %v", err)
	}
	want := []provider.FileChange{
		{Path: "src/main.go", Status: provider.StatusModified},
		{Path: "new name.go", OriginalPath: "old name.go", Status: provider.StatusRenamed},
		{Path: "added.go", Status: provider.StatusAdded},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ParseNameStatus() = %+v\nwant %+v", got, want)
	}

	if _, err := ParseNameStatus([]byte("R100\x00only-one\x00")); err == nil {
		t.Error("ParseNameStatus(truncated rename) error = nil")
	}
}

func TestDiffNameStatusArgs(t *testing.T) {
	t.Parallel()

	got := DiffNameStatusArgs("main", "")
	want := []string{"diff", "--name-status", "-z", "-M", "main", "--"}
	if !slices.Equal(got, want) {
		t.Errorf("DiffNameStatusArgs() = %v, want %v", got, want)
	}
}

func TestParseBlame(t *testing.T) {
	t.Parallel()

	sha1 := "1111111111111111111111111111111111111111"
	sha2 := "2222222222222222222222222222222222222222"
	out := sha1 + " 1 1 2\n" +
		"author Ada\n" +
		"author-mail <ada@example.com>\n" +
		"author-time 1700000000\n" +
		"author-tz +0000\n" +
		"summary Initial commit\n" +
		"filename main.go\n" +
		"\tpackage main\n" +
		sha1 + " 2 2\n" +
		"\t\n" +
		sha2 + " 2 3 1\n" +
		"author Grace\n" +
		"author-mail <grace@example.com>\n" +
		"author-time 1700000100\n" +
		"summary Add func\n" +
		"previous " + sha1 + " main.go\n" +
		"filename main.go\n" +
		"\tfunc main() {}\n"

	b, err := ParseBlame("main.go", []byte(out))
	if err != nil {
		t.Fatalf("ParseBlame() error = %v", err)
	}
	if len(b.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(b.Lines))
	}
	if b.Lines[1].Author != "Ada" || b.Lines[1].SHA != sha1 || b.Lines[1].Line != 2 {
		t.Errorf("Lines[1] = %+v, want details reused from the first Ada entry", b.Lines[1])
	}
	last := b.Lines[2]
	if last.Author != "Grace" || last.AuthorEmail != "grace@example.com" || last.OriginalLine != 2 || last.Line != 3 {
		t.Errorf("Lines[2] = %+v", last)
	}
	if last.Summary != "Add func" {
		t.Errorf("Lines[2].Summary = %q", last.Summary)
	}

	if _, err := ParseBlame("x", []byte("\torphan content\n")); err == nil {
		t.Error("ParseBlame(orphan content) error = nil")
	}
}
