package main

import (
	"context"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/output"
	"github.com/raphi011/gitprov/internal/paths"
)

func newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "path",
		Short:   "Inspect path and URI identity",
		GroupID: GroupUtility,
		Long: `Inspect how gitprov identifies paths and URIs.

These commands never touch the filesystem. They show the normalized form,
identity key and relative paths the backends use to compare locations.`,
		Example: `  gitprov path normalize 'src\app\'         # src/app
  gitprov path key /Work/App                 # Identity key
  gitprov path relative /repo /repo/src/a.ts # src/a.ts
  gitprov path split /repo/src/a.ts /repo    # src/a.ts and /repo
  gitprov path within /repo/src /repo        # true
  gitprov path normalize --copy ./app        # Copy to clipboard`,
	}

	cmd.AddCommand(newPathNormalizeCmd())
	cmd.AddCommand(newPathKeyCmd())
	cmd.AddCommand(newPathRelativeCmd())
	cmd.AddCommand(newPathSplitCmd())
	cmd.AddCommand(newPathDescendantCmd())

	return cmd
}

// emitPath prints s and optionally copies it to the clipboard.
func emitPath(ctx context.Context, s string, copyToClipboard bool) error {
	output.FromContext(ctx).Println(s)
	if !copyToClipboard {
		return nil
	}
	if err := clipboard.WriteAll(s); err != nil {
		log.FromContext(ctx).Warn("copy to clipboard failed", "error", err)
		return nil
	}
	log.FromContext(ctx).Debug("copied to clipboard", "value", s)
	return nil
}

func newPathNormalizeCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "normalize <path>",
		Short: "Print the normalized form of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emitPath(cmd.Context(), paths.Normalize(args[0]), copyToClipboard)
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the result to the clipboard")
	return cmd
}

func newPathKeyCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "key <path-or-uri>",
		Short: "Print the identity key used to compare locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emitPath(cmd.Context(), paths.Key(args[0]), copyToClipboard)
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the result to the clipboard")
	return cmd
}

func newPathRelativeCmd() *cobra.Command {
	var (
		copyToClipboard bool
		caseSensitive   bool
	)

	cmd := &cobra.Command{
		Use:   "relative <from> <to>",
		Short: "Print to relative to from",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emitPath(cmd.Context(), paths.Relative(args[0], args[1], caseMode(caseSensitive)), copyToClipboard)
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Compare letter case exactly")
	return cmd
}

func newPathSplitCmd() *cobra.Command {
	var (
		splitOnBase   bool
		caseSensitive bool
	)

	cmd := &cobra.Command{
		Use:   "split <path-or-uri> [root]",
		Short: "Split a path into repository root and relative path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var root string
			if len(args) == 2 {
				root = args[1]
			}
			rel, repoRoot := paths.SplitPath(args[0], root, splitOnBase, caseMode(caseSensitive))

			out := output.FromContext(cmd.Context())
			if out.Resolve(output.Format(format)) == output.FormatJSON {
				return out.JSON(struct {
					Relative string `json:"relative"`
					Root     string `json:"root"`
				}{rel, repoRoot})
			}
			out.Println(rel)
			out.Println(repoRoot)
			return nil
		},
	}

	cmd.Flags().BoolVar(&splitOnBase, "base", false, "Without a root, split into basename and directory")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Compare letter case exactly")
	return cmd
}

func newPathDescendantCmd() *cobra.Command {
	var child bool

	cmd := &cobra.Command{
		Use:   "within <path-or-uri> <base>",
		Short: "Report whether a location lies below base",
		Long: `Report whether a location lies below base.

Prints true or false. With --child only direct children count.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := paths.IsDescendant(args[0], args[1])
			if child {
				ok = paths.IsChild(args[0], args[1])
			}
			output.FromContext(cmd.Context()).Println(strconv.FormatBool(ok))
			return nil
		},
	}

	cmd.Flags().BoolVar(&child, "child", false, "Only accept direct children")
	return cmd
}

func caseMode(sensitive bool) paths.CaseMode {
	if sensitive {
		return paths.CaseSensitive
	}
	return paths.CaseDefault
}
