package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

func newBranchesCmd() *cobra.Command {
	var (
		remote bool
		filter string
	)

	cmd := &cobra.Command{
		Use:     "branches",
		Short:   "List branches",
		Aliases: []string{"br"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List the branches of a repository.

The current branch is marked with *. --filter fuzzy-matches branch names
and orders the result by match quality.`,
		Example: `  gitprov branches                 # Local branches
  gitprov branches -a              # Include remote-tracking branches
  gitprov branches --filter feat   # Fuzzy filter
  gitprov branches -r widgets      # Branches of a registered repository`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				branches, err := h.Branches(ctx, remote)
				if err != nil {
					return err
				}
				branches = fuzzyFilter(filter, branches, func(b provider.Branch) string { return b.Name })
				return render(ctx, branches, []string{"", "NAME", "SHA", "UPSTREAM", "DATE"}, branchRows(branches), "No branches.")
			})
		},
	}

	cmd.Flags().BoolVarP(&remote, "all", "a", false, "Include remote-tracking branches")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on branch names")

	return cmd
}

func branchRows(branches []provider.Branch) [][]string {
	rows := make([][]string, 0, len(branches))
	for _, b := range branches {
		marker := ""
		if b.Current {
			marker = "*"
		}
		rows = append(rows, []string{marker, b.Name, provider.ShortSHA(b.SHA), orDash(b.Upstream), formatDate(b.Date)})
	}
	return rows
}
