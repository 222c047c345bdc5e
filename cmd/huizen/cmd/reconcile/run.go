package reconcile

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/internal/cmd/alerts"
	"github.com/Igorvich/huizen-holland/internal/cmd/output"
	"github.com/Igorvich/huizen-holland/internal/loader"
	"github.com/Igorvich/huizen-holland/internal/report"
	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/export"
	"github.com/Igorvich/huizen-holland/pkg/logging"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/reconciler"
)

// Execute loads the inputs, runs the reconciler and writes every output
// named in settings. The run summary goes to w and gap warnings to errW.
func Execute(ctx context.Context, app application.Application, w, errW io.Writer, settings application.Settings, timeline bool) error {
	ctx = logging.WithLogger(ctx, app.Logger())
	logger := logging.FromContext(ctx)
	settings = withDefaults(settings)

	data, err := loader.LoadFiles(ctx, settings.Input, settings.Areas, loader.Options{Locale: settings.Locale})
	if err != nil {
		return err
	}

	opts := []reconciler.Option{reconciler.WithProvenance(settings.Provenance != "")}
	if settings.MaxIterations > 0 {
		opts = append(opts, reconciler.WithMaxIterations(settings.MaxIterations))
	}
	r, err := reconciler.New(opts...)
	if err != nil {
		return err
	}
	result, err := r.Run(logging.WithPhase(ctx, "reconcile"), data.Store, data.Areas)
	if err != nil {
		return err
	}

	vocabulary := provenance.VocabularyFor(settings.Labels)
	tables := export.Build(result.Store, vocabulary)
	format := export.DefaultFormat()
	format.Locale = settings.Locale

	written := []string{settings.ValuesOut, settings.NotesOut}
	if err := writeFile(settings.ValuesOut, func(f io.Writer) error { return export.WriteValues(f, tables, format) }); err != nil {
		return err
	}
	if err := writeFile(settings.NotesOut, func(f io.Writer) error { return export.WriteNotes(f, tables, format) }); err != nil {
		return err
	}

	if settings.Workbook != "" {
		if err := export.WriteWorkbook(settings.Workbook, tables); err != nil {
			return err
		}
		written = append(written, settings.Workbook)
	}

	if settings.Report != "" {
		err := writeFile(settings.Report, func(f io.Writer) error {
			return report.Write(f, result, report.Options{
				Input:      settings.Input,
				Vocabulary: vocabulary,
				Timeline:   timeline,
			})
		})
		if err != nil {
			return err
		}
		written = append(written, settings.Report)
	}

	if settings.Provenance != "" {
		file := &provenance.File{RunID: result.Metadata.RunID, Provenance: result.Provenance}
		if err := provenance.Save(settings.Provenance, file); err != nil {
			return errors.WrapResource("write", "provenance", settings.Provenance, err)
		}
		written = append(written, settings.Provenance)
	}

	logger.Info().
		Str("run_id", result.Metadata.RunID).
		Strs("outputs", written).
		Msg("Wrote outputs")

	if result.HasGaps() {
		alert := gapAlert(result.Gaps)
		if err := alerts.NewFormatWriter(errW, output.DetectFormat(app.OutputFormat()), app.NoColor()).WriteAlert(alert); err != nil {
			return err
		}
	}

	return output.Write(w, app.OutputFormat(), output.NewSummary(result, settings.Input, written...))
}

func gapAlert(gaps []*errors.ApportionmentGap) *alerts.Alert {
	alert := alerts.NewWarning(fmt.Sprintf("%d records could not be apportioned and were written without data", len(gaps)))
	for _, g := range gaps {
		alert.WithDetails(fmt.Sprintf("record %s (%d, %s): %s", g.RecordID, g.Year, strings.Join(g.Codes, constants.LinkSeparator), g.Reason))
	}
	return alert
}

func withDefaults(s application.Settings) application.Settings {
	if s.ValuesOut == "" {
		s.ValuesOut = constants.DefaultValuesFile
	}
	if s.NotesOut == "" {
		s.NotesOut = constants.DefaultNotesFile
	}
	if s.Locale == "" {
		s.Locale = constants.DefaultLocale
	}
	if s.Labels == "" {
		s.Labels = s.Locale
	}
	return s
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.WrapResource("write", "output", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}
