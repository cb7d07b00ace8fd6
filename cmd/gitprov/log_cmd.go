package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

func newLogCmd() *cobra.Command {
	var (
		ref   string
		limit int
		path  string
	)

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "Show commit history",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Example: `  gitprov log                   # Last commits of HEAD
  gitprov log --ref main -n 20  # Twenty commits of main
  gitprov log --path README.md  # Commits touching a file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				opts := provider.LogOptions{Ref: ref, Limit: limit}
				if path != "" {
					opts.Path = repoRelative(h, workDir, path)
				}
				history, err := h.Provider().GetLog(ctx, h.Root(), opts)
				if err != nil {
					return err
				}
				if history == nil {
					history = &provider.Log{Commits: []provider.Commit{}}
				}

				rows := make([][]string, 0, len(history.Commits))
				for _, c := range history.Commits {
					rows = append(rows, []string{provider.ShortSHA(c.SHA), c.Author.Name, formatDate(c.Author.When), c.Summary()})
				}
				if err := render(ctx, history, []string{"SHA", "AUTHOR", "DATE", "SUMMARY"}, rows, "No commits."); err != nil {
					return err
				}
				if history.HasMore {
					log.FromContext(ctx).Printf("More commits available, raise --limit to see them.\n")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Start from this ref (default HEAD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of commits (default 100)")
	cmd.Flags().StringVar(&path, "path", "", "Only commits touching this path")
	cmd.RegisterFlagCompletionFunc("ref", completeRefs)

	return cmd
}

// repoRelative turns a path given on the command line into a path relative
// to the repository root. Paths of local repositories are resolved against
// dir; anything outside the root is passed through as repository-relative.
func repoRelative(h *repository.Handle, dir, p string) string {
	if h.Virtual() {
		return filepath.ToSlash(p)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	if !paths.IsDescendant(p, h.Root()) {
		return filepath.ToSlash(p)
	}
	rel, _ := paths.SplitPath(p, h.Root(), false, paths.CaseDefault)
	return rel
}
