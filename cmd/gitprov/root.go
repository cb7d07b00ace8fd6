package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/config"
	"github.com/raphi011/gitprov/internal/git"
	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/output"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	format     string
	repoRef    string

	// Shared state injected into commands
	cfg     *config.Config
	workDir string
)

// Command group IDs for organizing help output
const (
	GroupCore     = "core"
	GroupChange   = "change"
	GroupRegistry = "registry"
	GroupUtility  = "utility"
	GroupConfig   = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitprov",
	Short: "Inspect repositories across local, hosted and shared backends",
	Long: `gitprov discovers repositories and reads their branches, tags, remotes,
history and working-tree state through pluggable backends.

Local clones are served by the git backend, hosted GitHub repositories
(vscode-vfs://github/<owner>/<repo>) by the github backend and folders
shared in a collaborative session (vsls:/~0/...) by the vsls backend.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip checks for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		// Validate mutually exclusive flags
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		if format == "" {
			format = cfg.Output.Format
		}
		if err := config.ValidateOutputFormat(format); err != nil {
			return err
		}

		// The logger depends on flags, so it is attached after parsing
		ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
		cmd.SetContext(ctx)

		if !cfg.ProviderEnabled("git") {
			return nil
		}
		return git.CheckGit()
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	// Get working directory
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gitprov: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, cfg)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gitprov -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Output format: auto, table, json (default from config)")
	rootCmd.PersistentFlags().StringVarP(&repoRef, "repository", "r", "", "Repository name, path or URI (default: current directory)")

	rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.ValidOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.RegisterFlagCompletionFunc("repository", completeRepoNames)

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupChange, Title: "Working Tree Commands:"},
		&cobra.Group{ID: GroupRegistry, Title: "Registry Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newBranchesCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newRemotesCmd())
	rootCmd.AddCommand(newContributorsCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newBlameCmd())

	// Working tree commands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStageCmd())
	rootCmd.AddCommand(newUnstageCmd())
	rootCmd.AddCommand(newStashCmd())
	rootCmd.AddCommand(newWorktreesCmd())

	// Registry commands
	rootCmd.AddCommand(newReposCmd())

	// Utility commands
	rootCmd.AddCommand(newPathCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
