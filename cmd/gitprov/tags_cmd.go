package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

func newTagsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "tags",
		Short:   "List tags",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Example: `  gitprov tags
  gitprov tags --filter v1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				tags, err := h.Tags(ctx)
				if err != nil {
					return err
				}
				tags = fuzzyFilter(filter, tags, func(t provider.Tag) string { return t.Name })

				rows := make([][]string, 0, len(tags))
				for _, t := range tags {
					kind := "lightweight"
					if t.Annotated {
						kind = "annotated"
					}
					rows = append(rows, []string{t.Name, provider.ShortSHA(t.SHA), kind, formatDate(t.Date)})
				}
				return render(ctx, tags, []string{"NAME", "SHA", "KIND", "DATE"}, rows, "No tags.")
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on tag names")

	return cmd
}
