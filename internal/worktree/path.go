// Package worktree derives the location of new linked worktrees from a
// path template.
//
// Templates use {repo} (last segment of the repository root) and {branch}.
// A leading "../" places worktrees next to the main checkout, "~/" below
// the home directory and "/" at an absolute location; anything else is
// nested inside the repository.
package worktree

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/paths"
)

// DefaultFormat puts worktrees next to the main checkout.
const DefaultFormat = "../{repo}-{branch}"

// Placeholders lists the supported template placeholders.
var Placeholders = []string{"{repo}", "{branch}"}

var placeholderRe = regexp.MustCompile(`\{[a-z-]+\}`)

// ValidateFormat rejects templates with unknown placeholders or without
// {branch}, which would make every worktree land in the same place.
func ValidateFormat(format string) error {
	for _, m := range placeholderRe.FindAllString(format, -1) {
		if !slices.Contains(Placeholders, m) {
			return errors.Newf(errors.CodeInvalidConfig, "unknown placeholder %q in worktree format %q (valid: %s)",
				m, format, strings.Join(Placeholders, ", "))
		}
	}
	if !strings.Contains(format, "{branch}") {
		return errors.Newf(errors.CodeInvalidConfig, "worktree format %q must contain {branch}", format)
	}
	return nil
}

// sanitizer replaces characters that are problematic in directory names.
var sanitizer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// Sanitize makes name usable as a single directory name.
func Sanitize(name string) string {
	return sanitizer.Replace(name)
}

// Path returns where a worktree for branch of the repository at root goes.
// root must be a filesystem path; hosted and shared repositories have no
// worktrees of their own.
func Path(root, branch, format string) (string, error) {
	if branch == "" {
		return "", errors.New(errors.CodeInvalidInput, "branch must not be empty")
	}
	if paths.HasScheme(root) || paths.HasVslsPrefix(root) {
		return "", errors.Newf(errors.CodeInvalidInput, "worktrees need a local repository, got %s", root)
	}
	if format == "" {
		format = DefaultFormat
	}
	if err := ValidateFormat(format); err != nil {
		return "", err
	}

	root = paths.Normalize(root)
	p := strings.ReplaceAll(format, "{repo}", Sanitize(path.Base(root)))
	p = strings.ReplaceAll(p, "{branch}", Sanitize(branch))

	switch {
	case strings.HasPrefix(p, "../"):
		p = path.Join(path.Dir(root), p[3:])
	case strings.HasPrefix(p, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "expand ~")
		}
		p = path.Join(filepath.ToSlash(home), p[2:])
	case strings.HasPrefix(p, "/"):
		p = path.Clean(p)
	default:
		p = path.Join(root, strings.TrimPrefix(p, "./"))
	}
	return paths.Normalize(p), nil
}
