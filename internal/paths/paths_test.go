package paths

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform Platform
		in       string
		want     string
	}{
		{"empty", Linux, "", ""},
		{"root", Linux, "/", "/"},
		{"trailing slash", Linux, "/a/b/", "/a/b"},
		{"repeated trailing slashes", Linux, "/a/b//", "/a/b"},
		{"only slashes", Linux, "///", "/"},
		{"backslashes", Linux, `a\b\c`, "a/b/c"},
		{"drive kept on linux", Linux, `C:\Repo\`, "C:/Repo"},
		{"windows drive lowered", Windows, `C:\Repo\`, "c:/Repo"},
		{"windows drive root", Windows, `C:\`, "c:/"},
		{"windows drive root double slash", Windows, "c://", "c:/"},
		{"windows slash drive", Windows, "/C:/Repo", "/c:/Repo"},
		{"windows unc-ish", Windows, `\\server\share\`, "//server/share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.platform.Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := tt.platform.Normalize(got); again != got {
				t.Errorf("Normalize(%q) not idempotent: %q then %q", tt.in, got, again)
			}
		})
	}
}

func TestHasScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"file:///repo", true},
		{"vscode-vfs://github/owner/repo", true},
		{"vsls:/~0/src", true},
		{"git+ssh://host/repo", true},
		{"C:/Repo", false},
		{`C:\Repo`, false},
		{"/repo", false},
		{"repo:", true},
		{"", false},
		{"1abc:foo", false},
	}

	for _, tt := range tests {
		if got := HasScheme(tt.in); got != tt.want {
			t.Errorf("HasScheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		in       string
		want     bool
	}{
		{Linux, "/repo", true},
		{Linux, "repo/src", false},
		{Linux, "file:///repo", false},
		{Linux, `C:\Repo`, false},
		{Linux, "", false},
		{Windows, `C:\Repo`, true},
		{Windows, "c:/repo", true},
		{Windows, `\repo`, true},
		{Windows, "c:repo", false},
		{Windows, "vscode-vfs://github/o/r", false},
	}

	for _, tt := range tests {
		if got := tt.platform.IsAbsolute(tt.in); got != tt.want {
			t.Errorf("%s.IsAbsolute(%q) = %v, want %v", tt.platform.Name, tt.in, got, tt.want)
		}
	}
}

func TestCommonBaseIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform Platform
		s1, s2   string
		mode     CaseMode
		want     int
	}{
		{"shared directory", Linux, "/repo/src/", "/repo/lib/", CaseDefault, 5},
		{"empty first", Linux, "", "/repo", CaseDefault, 0},
		{"empty second", Linux, "/repo", "", CaseDefault, 0},
		{"case differs on linux", Linux, "/Repo/a", "/repo/a", CaseDefault, 0},
		{"case ignored explicitly", Linux, "/Repo/a", "/repo/a", CaseIgnore, 5},
		{"case ignored on darwin", Darwin, "/Repo/a", "/repo/a", CaseDefault, 5},
		{"case forced on darwin", Darwin, "/Repo/a", "/repo/a", CaseSensitive, 0},
		{"identical", Linux, "/a/b/", "/a/b/", CaseDefault, 4},
		{"prefix without delimiter", Linux, "/repository/", "/repo/", CaseDefault, 0},
		{"non-ascii case on darwin", Darwin, "/É/x/", "/é/x/", CaseDefault, 5},
		{"non-ascii case on linux", Linux, "/É/x/", "/é/x/", CaseDefault, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.platform.CommonBaseIndex(tt.s1, tt.s2, '/', tt.mode); got != tt.want {
				t.Errorf("CommonBaseIndex(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestCommonBase(t *testing.T) {
	t.Parallel()

	got, ok := Linux.CommonBase("/repo/src/a.go", "/repo/src/b.go", '/', CaseDefault)
	if !ok || got != "/repo/src/" {
		t.Errorf("CommonBase() = (%q, %v), want (%q, true)", got, ok, "/repo/src/")
	}

	if got, ok := Linux.CommonBase("/a", "/b", '/', CaseDefault); ok {
		t.Errorf("CommonBase(/a, /b) = (%q, true), want absent", got)
	}
}

func TestIsDescendant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform Platform
		path     string
		base     string
		want     bool
	}{
		{"file below repo", Linux, "/repo/src/a.ts", "/repo", true},
		{"equal is not descendant", Linux, "/repo", "/repo", false},
		{"sibling with shared prefix", Linux, "/repository", "/repo", false},
		{"everything is below root", Linux, "/anything", "/", true},
		{"leading slash enforced", Linux, "repo/src", "repo", true},
		{"trailing separators ignored", Linux, "/repo/src/", "/repo/", true},
		{"case sensitive on linux", Linux, "/Repo/src", "/repo", false},
		{"case insensitive on darwin", Darwin, "/Repo/src", "/repo", true},
		{"windows backslashes", Windows, `C:\Repo\src`, "c:/repo", true},
		{"below drive root", Windows, "c:/foo", "c:/", true},
		{"below drive root backslashes", Windows, `C:\foo\bar`, `C:\`, true},
		{"drive root itself", Windows, "c:/", "c:/", false},
		{"non-ascii case on darwin", Darwin, "/é/x", "/É", true},
		{"non-ascii case on linux", Linux, "/é/x", "/É", false},
		{"uri below uri", Linux, "vscode-vfs://github/o/r/src", "vscode-vfs://github/o/r", true},
		{"authority mismatch", Linux, "vscode-vfs://gitlab/o/r/src", "vscode-vfs://github/o/r", false},
		{"scheme mismatch", Linux, "file:///o/r/src", "vscode-vfs://github/o/r", false},
		{"path below uri", Linux, "/o/r/src", "vscode-vfs://github/o/r", true},
		{"uri below path", Linux, "vsls:/~0/src", "/~0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.platform.IsDescendant(tt.path, tt.base); got != tt.want {
				t.Errorf("IsDescendant(%q, %q) = %v, want %v", tt.path, tt.base, got, tt.want)
			}
		})
	}
}

func TestIsChild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		base string
		want bool
	}{
		{"/repo/a", "/repo", true},
		{"/repo/a/b", "/repo", false},
		{"/repo", "/repo", false},
		{"/a", "/", true},
		{"/a/b", "/", false},
		{"/repo/a/", "/repo", true},
		{"vscode-vfs://github/o/r/README.md", "vscode-vfs://github/o/r", true},
	}

	for _, tt := range tests {
		if got := Linux.IsChild(tt.path, tt.base); got != tt.want {
			t.Errorf("IsChild(%q, %q) = %v, want %v", tt.path, tt.base, got, tt.want)
		}
	}
}

func TestIsChild_OtherPlatforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		path     string
		base     string
		want     bool
	}{
		{Windows, "c:/foo", "c:/", true},
		{Windows, `C:\foo`, `C:\`, true},
		{Windows, "c:/foo/bar", "c:/", false},
		{Darwin, "/é/x", "/É", true},
		{Darwin, "/é/x/y", "/É", false},
	}

	for _, tt := range tests {
		if got := tt.platform.IsChild(tt.path, tt.base); got != tt.want {
			t.Errorf("IsChild(%q, %q) = %v, want %v", tt.path, tt.base, got, tt.want)
		}
	}
}

func TestRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform Platform
		from, to string
		want     string
	}{
		{"file in repo", Linux, "/repo", "/repo/src/a.ts", "src/a.ts"},
		{"unrelated", Linux, "/repo", "/other/x", "/other/x"},
		{"same path", Linux, "/repo", "/repo", ""},
		{"uris", Linux, "file:///repo", "file:///repo/src", "src"},
		{"windows mixed case", Windows, `C:\Repo`, `c:\repo\src\a.ts`, "src/a.ts"},
		{"sibling prefix", Linux, "/repo", "/repository/a", "/repository/a"},
		{"non-ascii case on darwin", Darwin, "/É", "/é/x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.platform.Relative(tt.from, tt.to, CaseDefault); got != tt.want {
				t.Errorf("Relative(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		platform     Platform
		path         string
		root         string
		splitOnBase  bool
		wantRelative string
		wantRoot     string
	}{
		{"inside root", Linux, "/repo/src/a.ts", "/repo", false, "src/a.ts", "/repo"},
		{"root with trailing slash", Linux, "/repo/src/a.ts", "/repo/", false, "src/a.ts", "/repo"},
		{"no root", Linux, "/repo/src/a.ts", "", false, "/repo/src/a.ts", ""},
		{"no root split on base", Linux, "/repo/src/a.ts", "", true, "a.ts", "/repo/src"},
		{"outside root", Linux, "/other/a.ts", "/repo", false, "other/a.ts", "/repo"},
		{"case differs on linux", Linux, "/Repo/src/a.ts", "/repo", false, "Repo/src/a.ts", "/repo"},
		{"case differs on darwin", Darwin, "/Repo/src/a.ts", "/repo", false, "src/a.ts", "/Repo"},
		{"uri root", Linux, "vscode-vfs://github/o/r/src/a.ts", "vscode-vfs://github/o/r", false, "src/a.ts", "vscode-vfs://github/o/r"},
		{"windows paths", Windows, `C:\Repo\src\a.ts`, `c:\Repo`, false, "src/a.ts", "c:/Repo"},
		{"non-ascii case on darwin", Darwin, "/É/src/a.ts", "/é", false, "src/a.ts", "/É"},
		{"empty input", Linux, "", "", true, "", ""},
		{"empty input without split", Linux, "", "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rel, root := tt.platform.SplitPath(tt.path, tt.root, tt.splitOnBase, CaseDefault)
			if rel != tt.wantRelative || root != tt.wantRoot {
				t.Errorf("SplitPath(%q, %q) = (%q, %q), want (%q, %q)",
					tt.path, tt.root, rel, root, tt.wantRelative, tt.wantRoot)
			}
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		in       string
		want     string
	}{
		{Linux, "/Repo/", "/Repo"},
		{Darwin, "/Repo/", "/repo"},
		{Linux, "file:///repo", "/repo"},
		{Linux, "vscode-vfs://GitHub/o/r/", "vscode-vfs://github/o/r"},
		{Windows, `C:\Repo`, "c:/repo"},
		{Windows, "file:///C:/Repo", "c:/repo"},
	}

	for _, tt := range tests {
		if got := tt.platform.Key(tt.in); got != tt.want {
			t.Errorf("%s.Key(%q) = %q, want %q", tt.platform.Name, tt.in, got, tt.want)
		}
	}
}

func TestBestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		in       string
		want     string
	}{
		{Linux, "/repo/", "/repo"},
		{Linux, "file:///repo/src", "/repo/src"},
		{Windows, "file:///C:/Repo", "c:/Repo"},
		{Linux, "vscode-vfs://github/o/r", "/o/r"},
		{Linux, "", ""},
	}

	for _, tt := range tests {
		if got := tt.platform.BestPath(tt.in); got != tt.want {
			t.Errorf("%s.BestPath(%q) = %q, want %q", tt.platform.Name, tt.in, got, tt.want)
		}
	}
}

func TestFileURI(t *testing.T) {
	t.Parallel()

	if got := Linux.FileURI("/repo/src"); got != "file:///repo/src" {
		t.Errorf("FileURI(/repo/src) = %q, want %q", got, "file:///repo/src")
	}
	if got := Windows.FileURI(`C:\Repo`); got != "file:///c:/Repo" {
		t.Errorf("FileURI(C:\\Repo) = %q, want %q", got, "file:///c:/Repo")
	}
}

func TestScheme(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/repo":                   "file",
		"file:///repo":            "file",
		"VSCODE-VFS://github/o/r": "vscode-vfs",
		"vsls:/~0":                "vsls",
		"C:/Repo":                 "file",
	}
	for in, want := range tests {
		if got := Scheme(in); got != want {
			t.Errorf("Scheme(%q) = %q, want %q", in, got, want)
		}
	}
}
