package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Igorvich/huizen-holland/internal/cmd/output"
)

// rootFlags are the persistent flags of the root command.
type rootFlags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
}

// Execute runs the huizen CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "huizen",
		Short:   "Apportion historical house counts onto leaf area codes",
		Version: a.version,
		Long: `Huizen reconciles yearly house counts recorded against hierarchical
area codes. Records that cover several codes, or a code with sub-areas,
are merged and split until every value sits on exactly one leaf code,
and every value carries a note on how it was derived.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is ./.huizen.yaml or $HOME/.huizen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&flags.format, "format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("huizen {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. An explicit --config
// replaces the configuration loaded at startup; flags are applied on top.
func (a *App) setupCommand(cmd *cobra.Command, flags *rootFlags) error {
	if flags.configFile != "" {
		config, err := LoadConfig(flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	if flags.format != "" {
		if _, err := output.ParseFormat(flags.format); err != nil {
			return err
		}
	}
	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger

	a.logger.Debug().
		Str("command", cmd.Name()).
		Str("config", a.config.ConfigFile).
		Msg("Starting command")
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
