package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/output"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
	"github.com/raphi011/gitprov/internal/ui/static"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show working tree status",
		Aliases: []string{"st"},
		GroupID: GroupChange,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				st, err := h.Status(ctx)
				if err != nil {
					return err
				}

				out := output.FromContext(ctx)
				if out.Resolve(output.Format(format)) == output.FormatJSON {
					return out.JSON(st)
				}
				if st == nil {
					out.Println("No working tree.")
					return nil
				}
				out.Println(statusHeader(st))
				if !st.HasChanges() {
					out.Println("Nothing to commit, working tree clean.")
					return nil
				}
				out.Print(static.RenderTable([]string{"INDEX", "WORKTREE", "PATH"}, statusRows(st)))
				return nil
			})
		},
	}

	return cmd
}

// statusHeader summarizes branch and upstream state in one line.
func statusHeader(st *provider.Status) string {
	head := "On branch " + st.Branch
	if st.Detached {
		head = "HEAD detached at " + provider.ShortSHA(st.SHA)
	}
	if st.Upstream == "" {
		return head
	}
	switch {
	case st.Ahead > 0 && st.Behind > 0:
		return fmt.Sprintf("%s, diverged from %s (%d ahead, %d behind)", head, st.Upstream, st.Ahead, st.Behind)
	case st.Ahead > 0:
		return fmt.Sprintf("%s, %d ahead of %s", head, st.Ahead, st.Upstream)
	case st.Behind > 0:
		return fmt.Sprintf("%s, %d behind %s", head, st.Behind, st.Upstream)
	}
	return fmt.Sprintf("%s, up to date with %s", head, st.Upstream)
}

func statusRows(st *provider.Status) [][]string {
	rows := make([][]string, 0, len(st.Files))
	for _, f := range st.Files {
		path := f.Path
		if f.OriginalPath != "" {
			path = f.OriginalPath + " -> " + f.Path
		}
		rows = append(rows, []string{statusCell(f.Index), statusCell(f.WorkingTree), path})
	}
	return rows
}

func statusCell(c provider.StatusCode) string {
	if c == 0 || c == provider.StatusUnmodified {
		return "-"
	}
	return c.String()
}

func newStageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stage <path>...",
		Short:   "Add files to the index",
		Aliases: []string{"add"},
		GroupID: GroupChange,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				return h.StageFiles(ctx, repoRelativeAll(h, args))
			})
		},
	}
	return cmd
}

func newUnstageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unstage <path>...",
		Short:   "Remove files from the index",
		GroupID: GroupChange,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				return h.UnstageFiles(ctx, repoRelativeAll(h, args))
			})
		},
	}
	return cmd
}

func repoRelativeAll(h *repository.Handle, args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = repoRelative(h, workDir, a)
	}
	return out
}
