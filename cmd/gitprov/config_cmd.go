package main

import (
	"github.com/BurntSushi/toml"
	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/config"
	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage gitprov configuration.

Config file: $XDG_CONFIG_HOME/gitprov/config.toml`,
		Example: `  gitprov config init     # Create default config
  gitprov config init -s  # Print default config
  gitprov config show     # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  gitprov config init     # Create config
  gitprov config init -f  # Overwrite existing config
  gitprov config init -s  # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if stdout {
				output.FromContext(ctx).Print(config.DefaultFile())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				if errors.GetCode(err) == errors.CodeAlreadyExists {
					return errors.Newf(errors.CodeAlreadyExists, "config file already exists: %s (use -f to overwrite)", config.Path())
				}
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Includes environment overrides. The GitHub token is masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			shown := redacted(*settings(ctx))
			if format == string(output.FormatJSON) {
				return out.JSON(shown)
			}
			out.Printf("# %s\n", config.Path())
			if err := toml.NewEncoder(out.Writer()).Encode(shown); err != nil {
				return errors.Wrap(err, errors.CodeInternal, "encode config")
			}
			return nil
		},
	}
	return cmd
}

// redacted returns c with secrets masked.
func redacted(c config.Config) config.Config {
	if c.GitHub.Token != "" {
		c.GitHub.Token = "********"
	}
	return c
}
