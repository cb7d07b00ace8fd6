package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/output"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
	"github.com/raphi011/gitprov/internal/worktree"
)

func newWorktreesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worktrees",
		Short:   "List and manage linked worktrees",
		Aliases: []string{"wt"},
		GroupID: GroupChange,
		Args:    cobra.NoArgs,
		Example: `  gitprov worktrees                         # List worktrees
  gitprov worktrees add -b feature          # New branch next to the repository
  gitprov worktrees remove ../app-feature   # Remove it again`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				list, err := h.Worktrees(ctx)
				if err != nil {
					return err
				}
				if list == nil {
					list = []provider.Worktree{}
				}
				return render(ctx, list, []string{"PATH", "BRANCH", "SHA", "FLAGS"}, worktreeRows(list), "No worktrees.")
			})
		},
	}

	cmd.AddCommand(newWorktreeAddCmd())
	cmd.AddCommand(newWorktreeRemoveCmd())

	return cmd
}

func worktreeRows(list []provider.Worktree) [][]string {
	rows := make([][]string, 0, len(list))
	for _, w := range list {
		var flags []string
		for _, f := range []struct {
			set  bool
			name string
		}{
			{w.Main, "main"},
			{w.Bare, "bare"},
			{w.Detached, "detached"},
			{w.Locked, "locked"},
			{w.Prunable, "prunable"},
		} {
			if f.set {
				flags = append(flags, f.name)
			}
		}
		rows = append(rows, []string{w.Path, orDash(w.Branch), provider.ShortSHA(w.SHA), orDash(strings.Join(flags, ","))})
	}
	return rows
}

func newWorktreeAddCmd() *cobra.Command {
	var opts provider.WorktreeCreateOptions

	cmd := &cobra.Command{
		Use:   "add [path] [ref]",
		Short: "Create a linked worktree",
		Long: `Create a linked worktree.

With --branch the path may be omitted; it is then derived from
[worktrees] path_format.`,
		Example: `  gitprov worktrees add ../hotfix v1.2.0  # Check out a tag
  gitprov worktrees add -b feature/login  # New branch at the default location`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				opts.Ref = args[1]
			}
			if len(args) == 0 && opts.NewBranch == "" {
				return provider.InvalidInput("path", "a path is required unless --branch is given")
			}
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				var target string
				if len(args) > 0 {
					abs, err := filepath.Abs(args[0])
					if err != nil {
						return err
					}
					target = filepath.ToSlash(abs)
				} else {
					p, err := worktree.Path(h.Root(), opts.NewBranch, settings(ctx).Worktrees.PathFormat)
					if err != nil {
						return err
					}
					target = p
				}
				if err := h.CreateWorktree(ctx, target, opts); err != nil {
					return err
				}
				output.FromContext(ctx).Println(target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.NewBranch, "branch", "b", "", "Create this branch and check it out")
	cmd.Flags().BoolVar(&opts.Detach, "detach", false, "Check out a detached HEAD")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Create even if the ref is checked out elsewhere")
	cmd.MarkFlagsMutuallyExclusive("branch", "detach")

	return cmd
}

func newWorktreeRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <path>",
		Short:   "Remove a linked worktree",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				return h.DeleteWorktree(ctx, filepath.ToSlash(path), force)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with local changes")

	return cmd
}
