package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/provider"
	"github.com/raphi011/gitprov/internal/repository"
)

func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stash",
		Short:   "List and manage stashed changes",
		GroupID: GroupChange,
		Args:    cobra.NoArgs,
		Example: `  gitprov stash                 # List stash entries
  gitprov stash save -u "wip"   # Stash including untracked files
  gitprov stash apply --pop     # Apply and drop the newest entry
  gitprov stash drop stash@{1}  # Drop an entry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listStash(cmd.Context())
		},
	}

	cmd.AddCommand(newStashListCmd())
	cmd.AddCommand(newStashSaveCmd())
	cmd.AddCommand(newStashApplyCmd())
	cmd.AddCommand(newStashDropCmd())

	return cmd
}

func newStashListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List stash entries",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listStash(cmd.Context())
		},
	}
}

func listStash(ctx context.Context) error {
	return withRepository(ctx, func(ctx context.Context, h *repository.Handle) error {
		stash, err := h.Stash(ctx)
		if err != nil {
			return err
		}
		if stash == nil {
			stash = &provider.Stash{Entries: []provider.StashEntry{}}
		}
		rows := make([][]string, 0, len(stash.Entries))
		for _, e := range stash.Entries {
			rows = append(rows, []string{e.Ref, provider.ShortSHA(e.SHA), formatDate(e.Date), e.Message})
		}
		return render(ctx, stash, []string{"REF", "SHA", "DATE", "MESSAGE"}, rows, "No stash entries.")
	})
}

func newStashSaveCmd() *cobra.Command {
	var opts provider.StashSaveOptions

	cmd := &cobra.Command{
		Use:   "save [message]",
		Short: "Stash working tree changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var message string
			if len(args) == 1 {
				message = args[0]
			}
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				if len(opts.Paths) > 0 {
					opts.Paths = repoRelativeAll(h, opts.Paths)
				}
				if err := h.SaveStash(ctx, message, opts); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Saved working tree changes of %s\n", h.Root())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.IncludeUntracked, "include-untracked", "u", false, "Also stash untracked files")
	cmd.Flags().BoolVar(&opts.KeepIndex, "keep-index", false, "Leave staged changes in place")
	cmd.Flags().StringSliceVar(&opts.Paths, "path", nil, "Only stash these paths")

	return cmd
}

func newStashApplyCmd() *cobra.Command {
	var pop bool

	cmd := &cobra.Command{
		Use:   "apply [ref]",
		Short: "Apply a stash entry (default newest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref string
			if len(args) == 1 {
				ref = args[0]
			}
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				return h.ApplyStash(ctx, ref, pop)
			})
		},
	}

	cmd.Flags().BoolVar(&pop, "pop", false, "Drop the entry after applying it")

	return cmd
}

func newStashDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop [ref]",
		Short: "Drop a stash entry (default newest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref string
			if len(args) == 1 {
				ref = args[0]
			}
			return withRepository(cmd.Context(), func(ctx context.Context, h *repository.Handle) error {
				return h.DeleteStash(ctx, ref)
			})
		},
	}
}
