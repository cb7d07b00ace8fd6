package paths

import (
	"regexp"
	"runtime"
	"strings"
)

// Platform describes the path conventions of an operating system.
type Platform struct {
	Name string
	// DriveLetters is set on platforms with "c:/"-style volume prefixes.
	DriveLetters bool
	// CaseSensitive is set when the filesystem is assumed to compare names exactly.
	CaseSensitive bool
}

// Known platforms. Every host other than Linux is treated as case-insensitive.
var (
	Linux   = Platform{Name: "linux", CaseSensitive: true}
	Darwin  = Platform{Name: "darwin"}
	Windows = Platform{Name: "windows", DriveLetters: true}
)

// Host is the platform the process runs on.
var Host = platformFor(runtime.GOOS)

func platformFor(goos string) Platform {
	switch goos {
	case "linux":
		return Linux
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	default:
		return Platform{Name: goos}
	}
}

// CaseMode controls letter-case handling in comparisons.
type CaseMode int

const (
	// CaseDefault ignores case unless the platform is case-sensitive.
	CaseDefault CaseMode = iota
	CaseIgnore
	CaseSensitive
)

func (p Platform) ignoreCase(mode CaseMode) bool {
	switch mode {
	case CaseIgnore:
		return true
	case CaseSensitive:
		return false
	default:
		return !p.CaseSensitive
	}
}

var (
	schemeRe      = regexp.MustCompile(`^([a-zA-Z][\w+.-]+):`)
	driveLetterRe = regexp.MustCompile(`^/?([A-Za-z]):/`)
)

// HasScheme reports whether s starts with a URI scheme. A scheme needs at
// least two characters, so "C:" drive prefixes are never mistaken for one.
func HasScheme(s string) bool {
	return schemeRe.MatchString(s)
}

// Normalize converts backslashes to forward slashes, strips trailing
// separators and, on drive-letter platforms, lowercases the drive letter.
// Roots ("/", "c:/") are kept intact so that Normalize is idempotent.
func (p Platform) Normalize(path string) string {
	if path == "" {
		return path
	}

	path = strings.ReplaceAll(path, `\`, "/")

	for len(path) > 1 && path[len(path)-1] == '/' {
		if p.DriveLetters && isDriveRoot(path) {
			break
		}
		path = path[:len(path)-1]
	}

	if p.DriveLetters {
		if m := driveLetterRe.FindStringSubmatchIndex(path); m != nil {
			i := m[2]
			path = path[:i] + strings.ToLower(path[i:i+1]) + path[i+1:]
		}
	}
	return path
}

// isDriveRoot matches "c:/" and "/c:/".
func isDriveRoot(path string) bool {
	path = strings.TrimPrefix(path, "/")
	return len(path) == 3 && isLetter(path[0]) && path[1] == ':' && path[2] == '/'
}

// IsAbsolute reports whether path is an absolute filesystem path.
// Strings carrying a URI scheme are never absolute paths.
func (p Platform) IsAbsolute(path string) bool {
	if path == "" || HasScheme(path) {
		return false
	}
	if path[0] == '/' {
		return true
	}
	if !p.DriveLetters {
		return false
	}
	if path[0] == '\\' {
		return true
	}
	return len(path) >= 3 && isLetter(path[0]) && path[1] == ':' && (path[2] == '/' || path[2] == '\\')
}

// Key returns a comparable identity for pathOrURI: the normalized form,
// case-folded on case-insensitive platforms. URIs keep their scheme and
// authority, both lowercased. A file URI and its filesystem path share a key.
func (p Platform) Key(pathOrURI string) string {
	if u, ok := ParseURI(pathOrURI); ok && u.Scheme() != FileScheme {
		path := p.Normalize(u.Path())
		if !p.CaseSensitive {
			path = strings.ToLower(path)
		}
		return u.Scheme() + "://" + strings.ToLower(u.Authority()) + path
	}
	key := p.BestPath(pathOrURI)
	if !p.CaseSensitive {
		key = strings.ToLower(key)
	}
	return key
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}


// Normalize calls Host.Normalize.
func Normalize(path string) string { return Host.Normalize(path) }

// IsAbsolute calls Host.IsAbsolute.
func IsAbsolute(path string) bool { return Host.IsAbsolute(path) }

// Key calls Host.Key.
func Key(pathOrURI string) string { return Host.Key(pathOrURI) }
