package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/repository"
)

func newRemotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remotes",
		Short:   "List remotes",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				remotes, err := h.Remotes(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(remotes))
				for _, r := range remotes {
					rows = append(rows, []string{r.Name, orDash(strings.Join(r.URLs, " "))})
				}
				return render(ctx, remotes, []string{"NAME", "URL"}, rows, "No remotes.")
			})
		},
	}

	return cmd
}
