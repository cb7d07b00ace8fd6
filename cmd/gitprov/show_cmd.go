package main

import (
	"context"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/output"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
	"github.com/raphi011/gitprov/internal/ui/static"
)

// commitDetails is the JSON form of "gitprov show".
type commitDetails struct {
	Commit provider.Commit       `json:"commit"`
	Files  []provider.FileChange `json:"files"`
}

func newShowCmd() *cobra.Command {
	var against string

	cmd := &cobra.Command{
		Use:     "show [rev]",
		Short:   "Show a commit and the files it changed",
		Aliases: []string{"commit"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show a commit and the files it changed.

Without --against the commit is compared with its first parent.`,
		Example: `  gitprov show                    # HEAD
  gitprov show v1.2.0             # A tag
  gitprov show main --against v1  # Files changed between v1 and main`,
		ValidArgsFunction: completeRefs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rev := "HEAD"
			if len(args) == 1 {
				rev = args[0]
			}
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				p := h.Provider()
				c, err := p.GetCommit(ctx, h.Root(), rev)
				if err != nil {
					return err
				}
				if c == nil {
					return errors.WithContext(
						errors.Newf(errors.CodeNotFound, "unknown revision: %s", rev), "repository", h.Root())
				}

				var files []provider.FileChange
				if against != "" {
					files, err = p.GetDiffStatus(ctx, h.Root(), against, c.SHA)
				} else {
					files, err = p.GetDiffStatus(ctx, h.Root(), c.SHA, "")
				}
				if err != nil && errors.GetCode(err) != errors.CodeNotImplemented {
					return err
				}
				if files == nil {
					files = []provider.FileChange{}
				}

				out := output.FromContext(ctx)
				if out.Resolve(output.Format(format)) == output.FormatJSON {
					return out.JSON(commitDetails{Commit: *c, Files: files})
				}
				out.Print(static.RenderKeyValues([][2]string{
					{"Commit", c.SHA},
					{"Author", c.Author.Name + " <" + c.Author.Email + ">"},
					{"Date", formatDate(c.Author.When)},
				}))
				out.Println()
				out.Printf("    %s\n\n", c.Summary())
				out.Print(static.RenderTable([]string{"STATUS", "PATH", "FROM"}, fileChangeRows(files)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&against, "against", "", "Compare with this ref instead of the parent")
	cmd.RegisterFlagCompletionFunc("against", completeRefs)

	return cmd
}

func fileChangeRows(files []provider.FileChange) [][]string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Status.String(), f.Path, orDash(f.OriginalPath)})
	}
	return rows
}
