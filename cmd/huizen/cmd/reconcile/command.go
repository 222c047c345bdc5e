// Package reconcile provides the reconcile command.
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/internal/cmd/cmdutil"
)

// Flags holds the reconcile-specific flags.
type Flags struct {
	ValuesOut     string
	NotesOut      string
	Workbook      string
	Report        string
	Provenance    string
	Labels        string
	MaxIterations int
	Timeline      bool
}

// NewCommand creates the reconcile command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		input *cmdutil.InputFlags
		flags *Flags
	)

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Apportion house counts onto leaf codes",
		Long: `Reconcile loads a table of house counts per year and area code and
rewrites every record that covers several codes, or a code with children,
into records on leaf codes only.

Records are merged into their parent code when all siblings appear
together, and split by the house counts of the closest other year or by
declared area otherwise. Every output value carries a note describing how
it was derived.

Two tables are written: the values per code and year, and the notes per
code and year. With --workbook both tables are also saved as sheets of one
xlsx file.`,
		Example: `  huizen reconcile -i records.csv                       # Write values.csv and notes.csv
  huizen reconcile -i records.csv -a areas.csv          # Use an area table
  huizen reconcile -i records.csv --labels en -o json   # English notes, JSON summary
  huizen reconcile -i records.csv --report run.md       # Also write a markdown report
  huizen reconcile -i records.csv --workbook huizen.xlsx # Also write an xlsx workbook`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings()
			if err := input.Resolve(cmd, &settings); err != nil {
				return err
			}
			flags.resolve(cmd, &settings)
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), settings, flags.Timeline)
		},
	}

	input = cmdutil.AddInputFlags(cmd)
	flags = addFlags(cmd)

	return cmd
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringVar(&flags.ValuesOut, "values-out", "",
		"Output path of the value table (default values.csv)")
	cmd.Flags().StringVar(&flags.NotesOut, "notes-out", "",
		"Output path of the note table (default notes.csv)")
	cmd.Flags().StringVar(&flags.Workbook, "workbook", "",
		"Also write both tables as sheets of an xlsx workbook at this path")
	cmd.Flags().StringVar(&flags.Report, "report", "",
		"Write a markdown run report to this path")
	cmd.Flags().StringVar(&flags.Provenance, "provenance", "",
		"Write the per-record derivation history as YAML to this path")
	cmd.Flags().StringVar(&flags.Labels, "labels", "",
		"Language of the notes: nl or en (default follows --locale)")
	cmd.Flags().IntVar(&flags.MaxIterations, "max-iterations", 0,
		"Iteration cap of the reconciliation loop")
	cmd.Flags().BoolVar(&flags.Timeline, "timeline", false,
		"Include the iteration timeline in the report")

	return flags
}

func (f *Flags) resolve(cmd *cobra.Command, settings *application.Settings) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("values-out", &settings.ValuesOut, f.ValuesOut)
	set("notes-out", &settings.NotesOut, f.NotesOut)
	set("workbook", &settings.Workbook, f.Workbook)
	set("report", &settings.Report, f.Report)
	set("provenance", &settings.Provenance, f.Provenance)
	set("labels", &settings.Labels, f.Labels)
	if cmd.Flags().Changed("max-iterations") {
		settings.MaxIterations = f.MaxIterations
	}
}
