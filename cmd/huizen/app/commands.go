package app

import (
	"github.com/spf13/cobra"

	"github.com/Igorvich/huizen-holland/cmd/huizen/cmd/hierarchy"
	"github.com/Igorvich/huizen-holland/cmd/huizen/cmd/reconcile"
	"github.com/Igorvich/huizen-holland/cmd/huizen/cmd/validate"
	"github.com/Igorvich/huizen-holland/internal/cmd/output"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(reconcile.NewCommand(a))

	rootCmd.AddCommand(hierarchy.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newConfigCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("huizen %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// newConfigCommand prints the resolved reconcile settings.
func (a *App) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := a.config.Format
			if format == "" {
				format = string(output.FormatYAML)
			}
			return output.Write(cmd.OutOrStdout(), format, a.Settings())
		},
	}
}
