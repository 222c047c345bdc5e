// Package validate provides the validate command.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/internal/cmd/cmdutil"
	"github.com/Igorvich/huizen-holland/internal/cmd/output"
	"github.com/Igorvich/huizen-holland/internal/loader"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var input *cmdutil.InputFlags

	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Check every code in the inputs",
		Long: `Validate reads the record and area tables and checks every code against
the code convention: a two-letter HO prefix, four digits, and optional
sub-area suffixes. Every malformed code is listed with its line instead
of stopping at the first one.`,
		Example: `  huizen validate -i records.csv
  huizen validate -i records.csv -a areas.csv -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings()
			if err := input.Resolve(cmd, &settings); err != nil {
				return err
			}
			issues, err := loader.CheckFiles(settings.Input, settings.Areas, loader.Options{Locale: settings.Locale})
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Str("input", settings.Input).
				Int("issues", len(issues)).
				Msg("Checked codes")

			if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.Issues(issues)); err != nil {
				return err
			}
			if len(issues) > 0 {
				return &errors.ValidationError{
					Field:   "codes",
					Message: fmt.Sprintf("%d malformed codes", len(issues)),
				}
			}
			return nil
		},
	}

	input = cmdutil.AddInputFlags(cmd)

	return cmd
}
