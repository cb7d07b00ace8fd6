package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/registry"
	"github.com/raphi011/gitprov/internal/repository"
	"github.com/raphi011/gitprov/internal/router"
)

// repoInfo is the JSON form of an opened repository.
type repoInfo struct {
	Root         string                `json:"root"`
	Provider     provider.ID           `json:"provider"`
	Virtual      bool                  `json:"virtual"`
	GitDir       *provider.GitDir      `json:"gitDir,omitempty"`
	Capabilities []provider.Capability `json:"capabilities"`
}

func newRepoInfo(h *repository.Handle) repoInfo {
	return repoInfo{
		Root:         h.Root(),
		Provider:     h.ProviderID(),
		Virtual:      h.Virtual(),
		GitDir:       h.GitDir(),
		Capabilities: h.Capabilities(),
	}
}

func repoRows(infos []repoInfo) [][]string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		gitDir := "-"
		if info.GitDir != nil {
			gitDir = paths.BestPath(info.GitDir.URI)
		}
		caps := make([]string, len(info.Capabilities))
		for i, c := range info.Capabilities {
			caps[i] = string(c)
		}
		rows = append(rows, []string{info.Root, string(info.Provider), gitDir, orDash(strings.Join(caps, ","))})
	}
	return rows
}

func newDiscoverCmd() *cobra.Command {
	var (
		depth    int
		register bool
	)

	cmd := &cobra.Command{
		Use:     "discover [root...]",
		Short:   "Find repositories at or below roots",
		Aliases: []string{"find"},
		GroupID: GroupCore,
		Long: `Find repositories at or below the given roots.

Roots may be directories, file URIs, hosted repository URIs or session
paths. Every backend accepting a root's scheme searches it; repositories
found by more than one backend are reported once.

Without arguments, the roots from [discovery] roots are searched, or the
current directory if none are configured. A failing backend is reported
as a warning while the others still contribute.`,
		Example: `  gitprov discover ~/src                            # Scan ~/src
  gitprov discover --depth 3 ~/src                  # Scan three levels deep
  gitprov discover vscode-vfs://github/acme/widgets # Look up a hosted repository
  gitprov discover --register ~/src                 # Remember what was found`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := settings(ctx)

			opts := provider.DiscoverOptions{Depth: c.Discovery.Depth, Exclude: c.Discovery.Exclude}
			if cmd.Flags().Changed("depth") {
				if depth < 0 {
					return provider.InvalidInput("depth", "--depth must not be negative")
				}
				opts.Depth = depth
			}

			roots := args
			if len(roots) == 0 {
				roots = c.Discovery.Roots
			}
			if len(roots) == 0 {
				roots = []string{workDir}
			}

			rt, cleanup, err := newRouter(c)
			if err != nil {
				return err
			}
			defer cleanup()

			infos, err := discover(ctx, rt, roots, opts)
			if err != nil {
				return err
			}

			if register {
				if err := registerRepos(ctx, infos); err != nil {
					return err
				}
			}

			return render(ctx, infos, []string{"ROOT", "PROVIDER", "GIT DIR", "CAPABILITIES"}, repoRows(infos), "No repositories found.")
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Directory levels to scan (default from config)")
	cmd.Flags().BoolVar(&register, "register", false, "Add found repositories to the registry")

	return cmd
}

// discover runs discovery for every root. Failures of single backends are
// logged; cancellation stops the whole run.
func discover(ctx context.Context, rt *router.Router, roots []string, opts provider.DiscoverOptions) ([]repoInfo, error) {
	l := log.FromContext(ctx)

	seen := make(map[string]bool)
	infos := []repoInfo{}
	for _, root := range roots {
		if !paths.HasScheme(root) && !paths.HasVslsPrefix(root) {
			abs, err := filepath.Abs(root)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInvalidInput, "resolve root")
			}
			root = abs
		}

		res := rt.DiscoverRepositories(ctx, root, opts)
		for _, f := range res.Failures {
			l.Warn("discovery failed", "provider", f.Provider, "root", f.Root, "error", f.Err)
		}
		for _, h := range res.Repositories {
			key := paths.Key(h.Root())
			if seen[key] {
				continue
			}
			seen[key] = true
			infos = append(infos, newRepoInfo(h))
		}
		if res.Cancelled {
			return infos, ctx.Err()
		}
	}
	return infos, nil
}

// registerRepos adds infos to the registry, skipping known roots.
func registerRepos(ctx context.Context, infos []repoInfo) error {
	regPath, err := registry.DefaultPath()
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)
	return registry.Update(regPath, func(reg *registry.Registry) error {
		for _, info := range infos {
			err := reg.Add(registry.Repo{Root: info.Root, Provider: info.Provider})
			switch {
			case err == nil:
				l.Printf("Registered %s\n", info.Root)
			case errors.GetCode(err) == errors.CodeAlreadyExists:
				l.Debug("skip registered repository", "root", info.Root, "error", err)
			default:
				return err
			}
		}
		return nil
	})
}
