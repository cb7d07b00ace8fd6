package paths

import (
	"regexp"
	"strings"
)

// VslsScheme is the URI scheme of collaborative-session resources.
const VslsScheme = "vsls"

var (
	vslsPrefixRe = regexp.MustCompile(`^[/\\]~(?:\d+?|external)(?:[/\\]|$)`)
	vslsRootRe   = regexp.MustCompile(`^[/\\]~(?:\d+?|external)$`)
)

// HasVslsPrefix reports whether path starts with a session overlay prefix
// such as "/~0", "/~12" or "/~external".
func HasVslsPrefix(path string) bool {
	return vslsPrefixRe.MatchString(path)
}

// IsVslsRoot reports whether path is exactly a session overlay prefix.
func IsVslsRoot(path string) bool {
	return vslsRootRe.MatchString(path)
}

// AddVslsPrefixIfNeeded maps pathOrURI into the first shared root of a
// session ("/~0"). Inputs that already carry a prefix are returned unchanged.
// URIs get the prefix applied to their path.
func (p Platform) AddVslsPrefixIfNeeded(pathOrURI string) string {
	if u, ok := ParseURI(pathOrURI); ok {
		path := u.Path()
		if HasVslsPrefix(path) {
			return pathOrURI
		}
		return u.WithPath(vslsPrefixed(p.Normalize(path))).String()
	}
	if HasVslsPrefix(pathOrURI) {
		return pathOrURI
	}
	return vslsPrefixed(p.Normalize(pathOrURI))
}

func vslsPrefixed(path string) string {
	if strings.HasPrefix(path, "/") {
		return "/~0" + path
	}
	return "/~0/" + path
}

// SplitVslsPrefix separates a session overlay prefix from the rest of path.
// For "/~1/src/a.go" it returns ("/~1", "/src/a.go", true).
func SplitVslsPrefix(path string) (prefix, rest string, ok bool) {
	loc := vslsPrefixRe.FindStringIndex(path)
	if loc == nil {
		return "", path, false
	}
	end := loc[1]
	if end > 0 && (path[end-1] == '/' || path[end-1] == '\\') {
		end--
	}
	prefix = strings.ReplaceAll(path[:end], `\`, "/")
	return prefix, strings.ReplaceAll(path[end:], `\`, "/"), true
}

// AddVslsPrefixIfNeeded calls Host.AddVslsPrefixIfNeeded.
func AddVslsPrefixIfNeeded(pathOrURI string) string { return Host.AddVslsPrefixIfNeeded(pathOrURI) }
