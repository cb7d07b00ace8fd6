package main

import (
	"context"
	"strconv"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/history"
	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/output"
	"github.com/raphi011/gitprov/internal/registry"
)

func newReposCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Short:   "Manage remembered repositories",
		Aliases: []string{"repo"},
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Long: `Manage the registry of remembered repositories.

Registered names can be passed to --repository anywhere a path or URI is
accepted. The registry lives at $XDG_DATA_HOME/gitprov/repos.json.`,
		Example: `  gitprov repos                                        # List repositories
  gitprov repos add ~/src/app                          # Register a clone
  gitprov repos add vscode-vfs://github/acme/widgets   # Register a hosted repository
  gitprov repos find wid                               # Fuzzy search by name
  gitprov repos remove app                             # Forget a repository`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRepos(cmd.Context(), "")
		},
	}

	cmd.AddCommand(newReposListCmd())
	cmd.AddCommand(newReposAddCmd())
	cmd.AddCommand(newReposRemoveCmd())
	cmd.AddCommand(newReposFindCmd())
	cmd.AddCommand(newReposRecentCmd())

	return cmd
}

func newReposRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened repositories",
		Long: `List repositories gitprov opened recently, most recent first.

Local roots that no longer exist are dropped from the history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			histPath := history.DefaultPath()
			if histPath == "" {
				return errors.New(errors.CodeInternal, "no data directory for history")
			}
			hist, err := history.Load(histPath)
			if err != nil {
				return err
			}
			if removed := hist.RemoveStale(); removed > 0 {
				if err := hist.Save(histPath); err != nil {
					log.FromContext(ctx).Printf("Warning: failed to save history after cleanup: %v\n", err)
				}
			}

			entries := hist.Recent(limit)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Root, orDash(string(e.Provider)), strconv.Itoa(e.AccessCount), formatDate(e.LastAccess)})
			}
			return render(ctx, entries, []string{"ROOT", "PROVIDER", "OPENED", "LAST"}, rows, "No history yet.")
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Show at most n repositories (0 for all)")

	return cmd
}

func newReposListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List registered repositories",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRepos(cmd.Context(), "")
		},
	}
}

func newReposFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <pattern>",
		Short: "Fuzzy search registered repositories by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRepos(cmd.Context(), args[0])
		},
	}
}

func listRepos(ctx context.Context, pattern string) error {
	regPath, err := registry.DefaultPath()
	if err != nil {
		return err
	}
	reg, err := registry.Load(regPath)
	if err != nil {
		return err
	}
	repos := fuzzyFilter(pattern, reg.Repos, func(r registry.Repo) string { return r.Name })
	return render(ctx, repos, []string{"NAME", "ROOT", "PROVIDER"}, registryRows(repos), "No repositories registered. Use 'gitprov repos add <path>' to register one.")
}

func registryRows(repos []registry.Repo) [][]string {
	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, []string{r.Name, r.Root, orDash(string(r.Provider))})
	}
	return rows
}

func newReposAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <path-or-uri>",
		Short: "Register a repository",
		Args:  cobra.ExactArgs(1),
		Long: `Register a repository.

The repository is opened first, so only roots a backend recognizes can be
registered. Paths inside a repository register its root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, cleanup, err := newRouter(settings(ctx))
			if err != nil {
				return err
			}
			defer cleanup()

			h, err := openTarget(ctx, rt, resolveTarget(args[0]))
			if err != nil {
				return err
			}

			regPath, err := registry.DefaultPath()
			if err != nil {
				return err
			}
			repo := registry.Repo{Root: h.Root(), Name: name, Provider: h.ProviderID()}
			if err := registry.Update(regPath, func(reg *registry.Registry) error {
				return reg.Add(repo)
			}); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Registered %s\n", h.Root())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name to register under (default: last path segment)")

	return cmd
}

func newReposRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "remove <name-or-root>",
		Short:             "Forget a repository",
		Aliases:           []string{"rm"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRepoNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			regPath, err := registry.DefaultPath()
			if err != nil {
				return err
			}
			var root string
			if err := registry.Update(regPath, func(reg *registry.Registry) error {
				repo, err := reg.Find(args[0])
				if err != nil {
					return err
				}
				root = repo.Root
				return reg.Remove(args[0])
			}); err != nil {
				return err
			}
			forgetHistory(cmd.Context(), root)
			output.FromContext(cmd.Context()).Println(root)
			return nil
		},
	}
	return cmd
}

// forgetHistory drops root from the access history. Failures only matter
// in verbose mode.
func forgetHistory(ctx context.Context, root string) {
	l := log.FromContext(ctx)
	histPath := history.DefaultPath()
	if histPath == "" {
		return
	}
	hist, err := history.Load(histPath)
	if err != nil {
		l.Debug("load history", "error", err)
		return
	}
	if !hist.RemoveByRoot(root) {
		return
	}
	if err := hist.Save(histPath); err != nil {
		l.Debug("save history", "error", err)
	}
}
