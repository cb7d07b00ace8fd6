package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jmgilman/go/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Discovery.Depth != DefaultDepth {
		t.Errorf("expected discovery.depth %d, got %d", DefaultDepth, cfg.Discovery.Depth)
	}
	if !slices.Equal(cfg.Providers.Enabled, ValidProviders) {
		t.Errorf("expected all providers enabled, got %v", cfg.Providers.Enabled)
	}
	if !cfg.ProviderEnabled("vsls") {
		t.Error("ProviderEnabled(vsls) = false, want true")
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	t.Setenv("GITPROV_DEPTH", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITPROV_GITHUB_URL", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom(missing) error = %v", err)
	}
	if cfg.Discovery.Depth != DefaultDepth {
		t.Errorf("Depth = %d, want %d", cfg.Discovery.Depth, DefaultDepth)
	}
}

func TestLoadFrom_Sections(t *testing.T) {
	t.Setenv("GITPROV_DEPTH", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITPROV_GITHUB_URL", "")

	path := writeConfig(t, `
[discovery]
depth = 3
exclude = ["vendor"]
roots = ["/src", "~/code"]

[events]
debounce = "250ms"

[github]
token = "from-file"
base_url = "https://github.example.com/api/v3/"

[providers]
enabled = ["git"]

[session]
shared_roots = ["/src/app", "~/shared"]

[worktrees]
path_format = "~/wt/{repo}/{branch}"

[output]
format = "json"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Discovery.Depth != 3 {
		t.Errorf("Depth = %d, want 3", cfg.Discovery.Depth)
	}
	if !slices.Equal(cfg.Discovery.Exclude, []string{"vendor"}) {
		t.Errorf("Exclude = %v, want [vendor]", cfg.Discovery.Exclude)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "code"); cfg.Discovery.Roots[1] != want {
		t.Errorf("Roots[1] = %q, want %q", cfg.Discovery.Roots[1], want)
	}
	if cfg.Events.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Events.Debounce)
	}
	if cfg.GitHub.Token != "from-file" {
		t.Errorf("Token = %q, want from-file", cfg.GitHub.Token)
	}
	if cfg.ProviderEnabled("github") {
		t.Error("ProviderEnabled(github) = true, want false")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	if want := []string{"/src/app", filepath.Join(home, "shared")}; !slices.Equal(cfg.Session.SharedRoots, want) {
		t.Errorf("SharedRoots = %v, want %v", cfg.Session.SharedRoots, want)
	}
	if cfg.Worktrees.PathFormat != "~/wt/{repo}/{branch}" {
		t.Errorf("Worktrees.PathFormat = %q", cfg.Worktrees.PathFormat)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Setenv("GITPROV_DEPTH", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITPROV_GITHUB_URL", "")

	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", `[discovery`},
		{"negative depth", "[discovery]\ndepth = -1"},
		{"bad exclude pattern", "[discovery]\nexclude = [\"[bad\"]"},
		{"relative root", "[discovery]\nroots = [\"./src\"]"},
		{"unknown provider", "[providers]\nenabled = [\"gitlab\"]"},
		{"unknown format", "[output]\nformat = \"yaml\""},
		{"relative base url", "[github]\nbase_url = \"api/v3\""},
		{"relative shared root", "[session]\nshared_roots = [\"app\"]"},
		{"worktree format without branch", "[worktrees]\npath_format = \"../{repo}\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadFrom() error = nil, want error")
			}
			if got := errors.GetCode(err); got != errors.CodeInvalidConfig {
				t.Errorf("GetCode() = %v, want %v", got, errors.CodeInvalidConfig)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	// Cannot use t.Parallel(): t.Setenv mutates process env
	t.Run("all overrides", func(t *testing.T) {
		t.Setenv("GITPROV_DEPTH", "4")
		t.Setenv("GITHUB_TOKEN", "secret")
		t.Setenv("GITPROV_GITHUB_URL", "https://ghe.example.com/api/v3/")
		cfg := Default()
		if err := applyEnvOverrides(&cfg); err != nil {
			t.Fatalf("applyEnvOverrides error: %v", err)
		}
		if cfg.Discovery.Depth != 4 {
			t.Errorf("Depth = %d, want 4", cfg.Discovery.Depth)
		}
		if cfg.GitHub.Token != "secret" {
			t.Errorf("Token = %q, want secret", cfg.GitHub.Token)
		}
		if cfg.GitHub.BaseURL != "https://ghe.example.com/api/v3/" {
			t.Errorf("BaseURL = %q", cfg.GitHub.BaseURL)
		}
	})

	t.Run("invalid depth", func(t *testing.T) {
		t.Setenv("GITPROV_DEPTH", "deep")
		cfg := Default()
		if err := applyEnvOverrides(&cfg); err == nil {
			t.Error("applyEnvOverrides() accepted a non-integer depth")
		}
	})

	t.Run("empty env vars leave config unchanged", func(t *testing.T) {
		t.Setenv("GITPROV_DEPTH", "")
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GITPROV_GITHUB_URL", "")
		cfg := Config{GitHub: GitHubConfig{Token: "kept"}}
		if err := applyEnvOverrides(&cfg); err != nil {
			t.Fatalf("applyEnvOverrides error: %v", err)
		}
		if cfg.GitHub.Token != "kept" {
			t.Errorf("Token = %q, want kept", cfg.GitHub.Token)
		}
	})
}

func TestDefaultConfigIsValidTOML(t *testing.T) {
	t.Parallel()

	var cfg Config
	if _, err := toml.Decode(defaultConfig, &cfg); err != nil {
		t.Fatalf("defaultConfig is invalid TOML: %v", err)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaultConfig does not validate: %v", err)
	}
}

func TestInitAt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gitprov", "config.toml")

	if _, err := InitAt(path, false); err != nil {
		t.Fatalf("InitAt() error = %v", err)
	}
	if _, err := InitAt(path, false); errors.GetCode(err) != errors.CodeAlreadyExists {
		t.Errorf("second InitAt() code = %v, want %v", errors.GetCode(err), errors.CodeAlreadyExists)
	}
	if _, err := InitAt(path, true); err != nil {
		t.Errorf("InitAt(force) error = %v", err)
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Output: OutputConfig{Format: "json"}}
		ctx := WithConfig(context.Background(), cfg)
		if got := FromContext(ctx); got != cfg {
			t.Error("FromContext did not return the stored config")
		}
	})

	t.Run("nil when not set", func(t *testing.T) {
		t.Parallel()
		if got := FromContext(context.Background()); got != nil {
			t.Errorf("FromContext on empty context = %v, want nil", got)
		}
	})
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~/src", false},
		{"/abs/path", false},
		{".", true},
		{"../up", true},
	}

	for _, tt := range tests {
		if err := ValidatePath(tt.path, "root"); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		field   string
		allowed []string
		wantErr bool
	}{
		{"empty value is ok", "", "test", []string{"a", "b"}, false},
		{"valid value", "a", "test", []string{"a", "b"}, false},
		{"invalid value", "c", "test", []string{"a", "b"}, true},
		{"case sensitive", "A", "test", []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateEnum(tt.value, tt.field, tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEnum(%q, %q, %v) error = %v, wantErr %v", tt.value, tt.field, tt.allowed, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		wantErr  bool
	}{
		{"valid patterns", []string{"node_modules", ".*", "*.tmp"}, false},
		{"nil patterns", nil, false},
		{"invalid pattern", []string{"[invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validatePatterns(tt.patterns, "discovery.exclude")
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePatterns(%v) error = %v, wantErr %v", tt.patterns, err, tt.wantErr)
			}
		})
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []string
		want string
	}{
		{"single option", []string{"a"}, `"a"`},
		{"two options", []string{"a", "b"}, `"a" or "b"`},
		{"three options", []string{"a", "b", "c"}, `"a", "b", or "c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatOptions(tt.opts); got != tt.want {
				t.Errorf("formatOptions(%v) = %q, want %q", tt.opts, got, tt.want)
			}
		})
	}
}
