package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/worktree"
)

// DiscoveryConfig controls repository discovery.
type DiscoveryConfig struct {
	Depth   int      `toml:"depth"`   // directory levels below the root to scan
	Exclude []string `toml:"exclude"` // glob patterns matched against directory names
	Roots   []string `toml:"roots"`   // default roots for "gitprov discover"
}

// EventsConfig controls change notification delivery.
type EventsConfig struct {
	// Debounce coalesces repeated change events of one repository.
	// Zero delivers every event synchronously.
	Debounce time.Duration `toml:"debounce"`
}

// GitHubConfig configures the hosted GitHub backend.
type GitHubConfig struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"` // GitHub Enterprise API endpoint
}

// ProvidersConfig selects which backends get registered.
type ProvidersConfig struct {
	Enabled []string `toml:"enabled"`
}

// SessionConfig describes the shared session served by the vsls backend.
// The local checkout acts as the host; SharedRoots[i] is exposed to guests
// as /~i.
type SessionConfig struct {
	SharedRoots []string `toml:"shared_roots"`
}

// WorktreesConfig controls where "gitprov worktrees add" puts new worktrees.
type WorktreesConfig struct {
	// PathFormat is a template with {repo} and {branch}
	PathFormat string `toml:"path_format"`
}

// OutputConfig holds display defaults.
type OutputConfig struct {
	Format string `toml:"format"` // "auto", "table" or "json"
}

// Config holds the gitprov configuration
type Config struct {
	Discovery DiscoveryConfig `toml:"discovery"`
	Events    EventsConfig    `toml:"events"`
	GitHub    GitHubConfig    `toml:"github"`
	Providers ProvidersConfig `toml:"providers"`
	Session   SessionConfig   `toml:"session"`
	Worktrees WorktreesConfig `toml:"worktrees"`
	Output    OutputConfig    `toml:"output"`
}

// DefaultDepth is how deep discovery descends when nothing is configured.
const DefaultDepth = 1

// Default returns the default configuration
func Default() Config {
	return Config{
		Discovery: DiscoveryConfig{
			Depth:   DefaultDepth,
			Exclude: []string{"node_modules", ".*"},
		},
		Providers: ProvidersConfig{
			Enabled: slices.Clone(ValidProviders),
		},
		Worktrees: WorktreesConfig{PathFormat: worktree.DefaultFormat},
		Output:    OutputConfig{Format: "auto"},
	}
}

// ProviderEnabled reports whether the backend named id should be registered.
func (c *Config) ProviderEnabled(id string) bool {
	return slices.Contains(c.Providers.Enabled, id)
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return errors.Newf(errors.CodeInvalidConfig, "%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "expand ~")
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns $XDG_CONFIG_HOME/gitprov/config.toml.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "gitprov", "config.toml")
}

// Load reads config from Path() and applies environment overrides.
// Returns Default() if the file doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from path. A missing file yields the defaults;
// an unreadable or invalid file is an error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), errors.WrapWithContext(err, errors.CodeInvalidConfig,
				"failed to parse config file", map[string]interface{}{"path": path})
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Default(), errors.Wrap(err, errors.CodeInternal, "failed to read config file")
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	for i, root := range cfg.Discovery.Roots {
		expanded, err := expandPath(root)
		if err != nil {
			return Default(), err
		}
		cfg.Discovery.Roots[i] = expanded
	}
	for i, root := range cfg.Session.SharedRoots {
		expanded, err := expandPath(root)
		if err != nil {
			return Default(), err
		}
		cfg.Session.SharedRoots[i] = expanded
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "auto"
	}

	return cfg, nil
}

// applyEnvOverrides applies GITPROV_* and GITHUB_TOKEN environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GITPROV_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return errors.Newf(errors.CodeInvalidConfig, "invalid GITPROV_DEPTH %q: must be an integer", v)
		}
		cfg.Discovery.Depth = depth
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv("GITPROV_GITHUB_URL"); v != "" {
		cfg.GitHub.BaseURL = v
	}
	return nil
}

const defaultConfig = `# gitprov configuration

[discovery]
# How many directory levels below a root are scanned for repositories.
# 0 only checks the root itself.
depth = 1

# Directory names to skip while scanning (filepath.Match syntax).
exclude = ["node_modules", ".*"]

# Roots scanned by "gitprov discover" when none are given.
# Must be absolute paths or start with ~
# roots = ["~/src"]

[events]
# Coalesce rapid change events of the same repository.
# debounce = "250ms"

[github]
# Token for the GitHub API. GITHUB_TOKEN takes precedence.
# token = ""
# GitHub Enterprise API endpoint, e.g. "https://github.example.com/api/v3/"
# base_url = ""

[providers]
# Backends to register: "git", "github", "vsls"
enabled = ["git", "github", "vsls"]

[session]
# Folders shared with session guests; the first one is /~0.
# shared_roots = ["~/src/project"]

[worktrees]
# Where "gitprov worktrees add -b <branch>" creates worktrees.
# {repo} is the repository folder name, {branch} the sanitized branch.
# "../" is next to the repository, "~/" below home, "/" absolute,
# anything else nested inside the repository.
path_format = "../{repo}-{branch}"

[output]
# "auto" uses a table on a terminal and JSON otherwise.
format = "auto"
`

// DefaultFile returns the commented default config file.
func DefaultFile() string {
	return defaultConfig
}

// Init creates a default config file at Path().
// If force is true, overwrites an existing file.
// Returns the path to the created file
func Init(force bool) (string, error) {
	return InitAt(Path(), force)
}

// InitAt writes the default config file to path.
func InitAt(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.WithContext(
				errors.New(errors.CodeAlreadyExists, "config file already exists"), "path", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "create config directory")
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "write config file")
	}
	return path, nil
}
