package paths

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CommonBaseIndex scans s1 and s2 left to right and returns the byte index in
// s1 of the last delimiter at which both strings still matched. It returns 0
// when either string is empty or nothing beyond the first character is shared.
// Ignoring case folds every rune with unicode.ToLower, as Key does.
func (p Platform) CommonBaseIndex(s1, s2 string, delimiter byte, mode CaseMode) int {
	if s1 == "" || s2 == "" {
		return 0
	}

	fold := p.ignoreCase(mode)
	index := 0
	for i, j := 0, 0; i < len(s1) && j < len(s2); {
		a, na := utf8.DecodeRuneInString(s1[i:])
		b, nb := utf8.DecodeRuneInString(s2[j:])
		if !sameRune(a, b, fold) {
			break
		}
		if a == rune(delimiter) {
			index = i
		}
		i, j = i+na, j+nb
	}
	return index
}

func sameRune(a, b rune, fold bool) bool {
	if fold {
		return unicode.ToLower(a) == unicode.ToLower(b)
	}
	return a == b
}

// matchPrefix reports whether s starts with prefix and returns the number of
// bytes of s the prefix covers.
func (p Platform) matchPrefix(s, prefix string) (int, bool) {
	fold := !p.CaseSensitive
	i := 0
	for _, b := range prefix {
		if i >= len(s) {
			return 0, false
		}
		a, n := utf8.DecodeRuneInString(s[i:])
		if !sameRune(a, b, fold) {
			return 0, false
		}
		i += n
	}
	return i, true
}

// CommonBase returns the prefix of s1, through the delimiter, shared with s2.
func (p Platform) CommonBase(s1, s2 string, delimiter byte, mode CaseMode) (string, bool) {
	index := p.CommonBaseIndex(s1, s2, delimiter, mode)
	if index <= 0 {
		return "", false
	}
	return s1[:index+1], true
}

// target is a comparison operand: a normalized, slash-rooted path plus the
// scheme and authority when the input was a URI.
type target struct {
	uri       bool
	scheme    string
	authority string
	path      string
}

func (p Platform) target(pathOrURI string) target {
	if u, ok := ParseURI(pathOrURI); ok {
		return target{uri: true, scheme: u.Scheme(), authority: u.Authority(), path: rooted(p.Normalize(u.Path()))}
	}
	return target{path: rooted(p.Normalize(pathOrURI))}
}

func rooted(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// IsDescendant reports whether pathOrURI lies strictly below base. Every other
// path descends from a root such as "/" or "c:/". When both are URIs, scheme and
// authority must match too.
func (p Platform) IsDescendant(pathOrURI, base string) bool {
	t, b := p.target(pathOrURI), p.target(base)
	if t.uri && b.uri && (t.scheme != b.scheme || !strings.EqualFold(t.authority, b.authority)) {
		return false
	}
	n, ok := p.matchPrefix(t.path, dirPrefix(b.path))
	return ok && n < len(t.path)
}

// dirPrefix returns base with exactly one trailing separator. Roots like "/"
// and "/c:/" already end in one.
func dirPrefix(base string) string {
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}

// IsChild reports whether pathOrURI is exactly one segment below base.
func (p Platform) IsChild(pathOrURI, base string) bool {
	if !p.IsDescendant(pathOrURI, base) {
		return false
	}
	t, b := p.target(pathOrURI), p.target(base)
	n, _ := p.matchPrefix(t.path, dirPrefix(b.path))
	rest := t.path[n:]
	return rest != "" && !strings.Contains(rest, "/")
}

// Relative returns to relative to from. When the two share no directory
// boundary beyond the root, the normalized to is returned whole.
func (p Platform) Relative(from, to string, mode CaseMode) string {
	from, to = p.comparable(from), p.comparable(to)
	index := p.CommonBaseIndex(to+"/", from+"/", '/', mode)
	if index > 0 {
		if index+1 > len(to) {
			return ""
		}
		return to[index+1:]
	}
	return to
}

// comparable reduces URIs to their path and normalizes plain paths.
func (p Platform) comparable(pathOrURI string) string {
	if u, ok := ParseURI(pathOrURI); ok {
		return u.Path()
	}
	return p.Normalize(pathOrURI)
}

// SplitPath splits pathOrURI into a path relative to its repository root and
// the root itself.
//
// With a known root the split happens at the common directory boundary; when
// root was given as a URI, the returned root is that URI with the matched
// path. Without a root the input is returned as relative, or as
// basename/dirname when splitOnBaseIfMissing is set.
func (p Platform) SplitPath(pathOrURI, root string, splitOnBaseIfMissing bool, mode CaseMode) (relative, repoRoot string) {
	pathOrURI = p.BestPath(pathOrURI)

	if root == "" {
		if !splitOnBaseIfMissing || pathOrURI == "" {
			return pathOrURI, ""
		}
		return path.Base(pathOrURI), p.Normalize(path.Dir(pathOrURI))
	}

	rootURI, isURI := ParseURI(root)
	if isURI {
		root = p.BestPath(root)
	} else {
		root = p.Normalize(root)
	}

	index := p.CommonBaseIndex(pathOrURI+"/", root+"/", '/', mode)
	switch {
	case index > 0:
		root = pathOrURI[:index]
		if index+1 > len(pathOrURI) {
			pathOrURI = ""
		} else {
			pathOrURI = pathOrURI[index+1:]
		}
	case strings.HasPrefix(pathOrURI, "/"):
		pathOrURI = pathOrURI[1:]
	}

	if isURI {
		rootPath := root
		if !strings.HasPrefix(rootPath, "/") {
			rootPath = "/" + rootPath
		}
		root = rootURI.WithPath(rootPath).String()
	}
	return pathOrURI, root
}

// CommonBaseIndex calls Host.CommonBaseIndex.
func CommonBaseIndex(s1, s2 string, delimiter byte, mode CaseMode) int {
	return Host.CommonBaseIndex(s1, s2, delimiter, mode)
}

// CommonBase calls Host.CommonBase.
func CommonBase(s1, s2 string, delimiter byte, mode CaseMode) (string, bool) {
	return Host.CommonBase(s1, s2, delimiter, mode)
}

// IsDescendant calls Host.IsDescendant.
func IsDescendant(pathOrURI, base string) bool { return Host.IsDescendant(pathOrURI, base) }

// IsChild calls Host.IsChild.
func IsChild(pathOrURI, base string) bool { return Host.IsChild(pathOrURI, base) }

// Relative calls Host.Relative.
func Relative(from, to string, mode CaseMode) string { return Host.Relative(from, to, mode) }

// SplitPath calls Host.SplitPath.
func SplitPath(pathOrURI, root string, splitOnBaseIfMissing bool, mode CaseMode) (string, string) {
	return Host.SplitPath(pathOrURI, root, splitOnBaseIfMissing, mode)
}
