// Package config handles loading and validation of gitprov configuration.
//
// Configuration is read from $XDG_CONFIG_HOME/gitprov/config.toml with
// environment variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - GITPROV_DEPTH: discovery depth
//   - GITHUB_TOKEN: token for the GitHub backend
//   - GITPROV_GITHUB_URL: GitHub Enterprise API endpoint
//   - Config file settings
//   - Default values
//
// # Sections
//
//	[discovery]
//	depth = 1
//	exclude = ["node_modules", ".*"]
//	roots = ["~/src"]
//
//	[events]
//	debounce = "250ms"
//
//	[github]
//	base_url = "https://github.example.com/api/v3/"
//
//	[providers]
//	enabled = ["git", "github", "vsls"]
//
//	[session]
//	shared_roots = ["~/src/project"]
//
//	[worktrees]
//	path_format = "../{repo}-{branch}"
//
// # Path Validation
//
// Discovery roots must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
