package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/worktree"
)

// Valid enum values for configuration fields.
var (
	ValidProviders     = []string{"git", "github", "vsls"}
	ValidOutputFormats = []string{"auto", "table", "json"}
)

// ValidateOutputFormat validates a --format flag value.
func ValidateOutputFormat(format string) error {
	return validateEnum(format, "format", ValidOutputFormats)
}

func (c *Config) validate() error {
	if c.Discovery.Depth < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "invalid discovery.depth %d: must not be negative", c.Discovery.Depth)
	}
	if err := validatePatterns(c.Discovery.Exclude, "discovery.exclude"); err != nil {
		return err
	}
	for i, root := range c.Discovery.Roots {
		if err := ValidatePath(root, fmt.Sprintf("discovery.roots[%d]", i)); err != nil {
			return err
		}
	}
	for i, root := range c.Session.SharedRoots {
		if root == "" {
			return errors.Newf(errors.CodeInvalidConfig, "session.shared_roots[%d] must not be empty", i)
		}
		if err := ValidatePath(root, fmt.Sprintf("session.shared_roots[%d]", i)); err != nil {
			return err
		}
	}
	if c.Events.Debounce < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "invalid events.debounce %s: must not be negative", c.Events.Debounce)
	}
	for _, p := range c.Providers.Enabled {
		if err := validateEnum(p, "providers.enabled entry", ValidProviders); err != nil {
			return err
		}
	}
	if c.Worktrees.PathFormat != "" {
		if err := worktree.ValidateFormat(c.Worktrees.PathFormat); err != nil {
			return err
		}
	}
	if err := validateEnum(c.Output.Format, "output.format", ValidOutputFormats); err != nil {
		return err
	}
	if c.GitHub.BaseURL != "" {
		u, err := url.Parse(c.GitHub.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf(errors.CodeInvalidConfig, "invalid github.base_url %q: must be an absolute URL", c.GitHub.BaseURL)
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return errors.Newf(errors.CodeInvalidConfig, "invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validatePatterns checks that all patterns are valid filepath.Match syntax.
func validatePatterns(patterns []string, field string) error {
	for i, pat := range patterns {
		if _, err := filepath.Match(pat, ""); err != nil {
			return errors.Wrapf(err, errors.CodeInvalidConfig, "invalid %s[%d] %q", field, i, pat)
		}
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
