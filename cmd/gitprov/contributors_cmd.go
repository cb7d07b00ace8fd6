package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/repository"
)

func newContributorsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "contributors",
		Short:   "List contributors by commit count",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Example: `  gitprov contributors        # All contributors
  gitprov contributors -n 10  # Top ten`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				list, err := h.Contributors(ctx)
				if err != nil {
					return err
				}
				if limit > 0 && len(list) > limit {
					list = list[:limit]
				}
				rows := make([][]string, 0, len(list))
				for _, c := range list {
					rows = append(rows, []string{c.Name, orDash(c.Email), strconv.Itoa(c.Commits), formatDate(c.LatestCommit)})
				}
				return render(ctx, list, []string{"NAME", "EMAIL", "COMMITS", "LATEST"}, rows, "No contributors.")
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n contributors")

	return cmd
}
