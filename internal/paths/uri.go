package paths

import (
	"net/url"
	"strings"
)

// FileScheme is the scheme of native filesystem URIs.
const FileScheme = "file"

// URI is a parsed resource identifier with a scheme.
type URI struct {
	u url.URL
}

// ParseURI parses s when it carries a scheme. Plain paths, drive-letter paths
// and unparsable input return false.
func ParseURI(s string) (URI, bool) {
	if !HasScheme(s) {
		return URI{}, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return URI{}, false
	}
	return URI{u: *u}, true
}

// Scheme returns the lowercased scheme.
func (u URI) Scheme() string { return strings.ToLower(u.u.Scheme) }

// Authority returns the host part, including any port.
func (u URI) Authority() string { return u.u.Host }

// Path returns the decoded path.
func (u URI) Path() string { return u.u.Path }

// WithPath returns a copy of u with its path replaced.
func (u URI) WithPath(path string) URI {
	c := u.u
	c.Path = path
	c.RawPath = ""
	return URI{u: c}
}

func (u URI) String() string { return u.u.String() }

// Scheme returns the scheme of pathOrURI, or "file" for plain paths.
func Scheme(pathOrURI string) string {
	if u, ok := ParseURI(pathOrURI); ok {
		return u.Scheme()
	}
	return FileScheme
}

// BestPath reduces pathOrURI to its most useful path form: file URIs become
// filesystem paths, other URIs yield their path component, plain paths are
// normalized.
func (p Platform) BestPath(pathOrURI string) string {
	u, ok := ParseURI(pathOrURI)
	if !ok {
		return p.Normalize(pathOrURI)
	}
	path := u.Path()
	if u.Scheme() == FileScheme && p.DriveLetters {
		// "/c:/src" is "c:/src" on disk
		if len(path) >= 3 && path[0] == '/' && isLetter(path[1]) && path[2] == ':' {
			path = path[1:]
		}
	}
	return p.Normalize(path)
}

// FileURI converts an absolute filesystem path into a file URI string.
func (p Platform) FileURI(path string) string {
	path = p.Normalize(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: FileScheme, Path: path}
	return u.String()
}

// BestPath calls Host.BestPath.
func BestPath(pathOrURI string) string { return Host.BestPath(pathOrURI) }

// FileURI calls Host.FileURI.
func FileURI(path string) string { return Host.FileURI(path) }
