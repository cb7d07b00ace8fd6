package main

import (
	"context"
	"strconv"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

func newBlameCmd() *cobra.Command {
	var rev string

	cmd := &cobra.Command{
		Use:     "blame <file>",
		Short:   "Show which commit last touched each line",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Example: `  gitprov blame main.go
  gitprov blame --rev v1.0 internal/app.go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				file := repoRelative(h, workDir, args[0])
				blame, err := h.Provider().GetBlame(ctx, h.Root(), file, rev)
				if err != nil {
					return err
				}
				if blame == nil {
					return errors.Newf(errors.CodeNotImplemented, "%s cannot blame files", h.ProviderID())
				}

				rows := make([][]string, 0, len(blame.Lines))
				for _, l := range blame.Lines {
					rows = append(rows, []string{strconv.Itoa(l.Line), provider.ShortSHA(l.SHA), l.Author, formatDate(l.When), l.Summary})
				}
				return render(ctx, blame, []string{"LINE", "SHA", "AUTHOR", "DATE", "SUMMARY"}, rows, "Empty file.")
			})
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "Blame at this revision (default working tree)")
	cmd.RegisterFlagCompletionFunc("rev", completeRefs)

	return cmd
}
