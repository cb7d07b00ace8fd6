package github

import "testing"

func TestParseRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want Repo
		ok   bool
	}{
		{
			name: "SSH format",
			url:  "git@github.com:acme/widget.git",
			want: Repo{Host: "github.com", Owner: "acme", Name: "widget"},
			ok:   true,
		},
		{
			name: "SSH format custom host",
			url:  "git@github.mycompany.com:org/repo",
			want: Repo{Host: "github.mycompany.com", Owner: "org", Name: "repo"},
			ok:   true,
		},
		{
			name: "HTTPS format",
			url:  "https://github.com/acme/widget.git",
			want: Repo{Host: "github.com", Owner: "acme", Name: "widget"},
			ok:   true,
		},
		{
			name: "HTTPS with trailing slash and port",
			url:  "https://code.company.com:8443/org/repo/",
			want: Repo{Host: "code.company.com", Owner: "org", Name: "repo"},
			ok:   true,
		},
		{
			name: "SSH protocol URL",
			url:  "ssh://git@GitHub.com/acme/widget.git",
			want: Repo{Host: "github.com", Owner: "acme", Name: "widget"},
			ok:   true,
		},
		{
			name: "shorthand",
			url:  "acme/widget",
			want: Repo{Host: "github.com", Owner: "acme", Name: "widget"},
			ok:   true,
		},
		{name: "nested path", url: "https://gitlab.com/group/sub/repo.git"},
		{name: "owner only", url: "https://github.com/acme"},
		{name: "unknown protocol", url: "ftp://github.com/acme/widget"},
		{name: "empty string", url: ""},
		{name: "invalid format", url: "not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseRemote(tt.url)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseRemote(%q) = (%+v, %v), want (%+v, %v)", tt.url, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRepo_FullName(t *testing.T) {
	t.Parallel()

	if got := (Repo{Owner: "acme", Name: "widget"}).FullName(); got != "acme/widget" {
		t.Errorf("FullName() = %q, want acme/widget", got)
	}
}

func TestIsGitHubHost(t *testing.T) {
	t.Parallel()

	for host, want := range map[string]bool{
		"github.com":           true,
		"GitHub.com":           true,
		"github.mycompany.com": true,
		"gitlab.com":           false,
		"":                     false,
	} {
		if got := IsGitHubHost(host); got != want {
			t.Errorf("IsGitHubHost(%q) = %v, want %v", host, got, want)
		}
	}
}
