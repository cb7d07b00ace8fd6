package github

import (
	"net/url"
	"strings"
)

// Repo names a hosted repository.
type Repo struct {
	Host  string
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRemote parses a git remote URL or an "owner/name" shorthand, which
// is assumed to live on github.com. It reports false for anything that does
// not name exactly one repository.
func ParseRemote(remoteURL string) (Repo, bool) {
	remoteURL = strings.TrimSpace(remoteURL)

	var host, path string
	switch {
	// SSH format: git@github.com:user/repo.git
	case strings.HasPrefix(remoteURL, "git@"):
		rest := strings.TrimPrefix(remoteURL, "git@")
		idx := strings.Index(rest, ":")
		if idx <= 0 {
			return Repo{}, false
		}
		host, path = rest[:idx], rest[idx+1:]

	case strings.HasPrefix(remoteURL, "https://"),
		strings.HasPrefix(remoteURL, "http://"),
		strings.HasPrefix(remoteURL, "ssh://"):
		parsed, err := url.Parse(remoteURL)
		if err != nil {
			return Repo{}, false
		}
		host, path = parsed.Hostname(), parsed.Path

	case strings.Contains(remoteURL, "://"):
		return Repo{}, false

	default:
		host, path = "github.com", remoteURL
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if !ok || host == "" || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, false
	}
	return Repo{Host: strings.ToLower(host), Owner: owner, Name: name}, true
}

// IsGitHubHost reports whether host is github.com or looks like a GitHub
// Enterprise host.
func IsGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || strings.HasPrefix(host, "github.") || strings.HasSuffix(host, ".github.com")
}
