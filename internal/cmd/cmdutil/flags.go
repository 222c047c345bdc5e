// Package cmdutil provides shared flags for huizen commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// InputFlags holds the flags naming the input tables.
type InputFlags struct {
	Input  string
	Areas  string
	Locale string
}

// AddInputFlags adds the input flags to a command.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}

	cmd.Flags().StringVarP(&flags.Input, "input", "i", "",
		"Record table (CSV with year, houses, km2 and link columns)")
	cmd.Flags().StringVarP(&flags.Areas, "areas", "a", "",
		"Area table (CSV with a code column and one column per year)")
	cmd.Flags().StringVar(&flags.Locale, "locale", "",
		"Number locale of the inputs and outputs: nl or en (default nl)")

	return flags
}

// Resolve copies the flags the user set over settings and checks that an
// input is named.
func (f *InputFlags) Resolve(cmd *cobra.Command, settings *application.Settings) error {
	if cmd.Flags().Changed("input") {
		settings.Input = f.Input
	}
	if cmd.Flags().Changed("areas") {
		settings.Areas = f.Areas
	}
	if cmd.Flags().Changed("locale") {
		settings.Locale = f.Locale
	}
	if settings.Input == "" {
		return errors.NewValidationError("input", "", "no record table given (use --input or HUIZEN_INPUT)")
	}
	return nil
}
