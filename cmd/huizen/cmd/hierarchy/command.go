// Package hierarchy provides the hierarchy command.
package hierarchy

import (
	"github.com/spf13/cobra"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/internal/cmd/cmdutil"
	"github.com/Igorvich/huizen-holland/internal/cmd/output"
	"github.com/Igorvich/huizen-holland/internal/loader"
	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/logging"
)

// NewCommand creates the hierarchy command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var input *cmdutil.InputFlags

	cmd := &cobra.Command{
		Use:     "hierarchy",
		GroupID: "management",
		Short:   "Show the code hierarchy of the inputs",
		Long: `Hierarchy derives the parent and child relations of every code in the
record and area tables and prints each code with its kind (root,
intermediate or leaf) and the number of records bearing it.`,
		Example: `  huizen hierarchy -i records.csv
  huizen hierarchy -i records.csv -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings()
			if err := input.Resolve(cmd, &settings); err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			data, err := loader.LoadFiles(ctx, settings.Input, settings.Areas, loader.Options{Locale: settings.Locale})
			if err != nil {
				return err
			}
			h := codes.NewHierarchy()
			if err := h.Rebuild(append(data.Store.Codes(), data.Areas.Codes()...)); err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.NewHierarchy(h, data.Store))
		},
	}

	input = cmdutil.AddInputFlags(cmd)

	return cmd
}
