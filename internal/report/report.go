// Package report renders a markdown summary of a reconciliation run.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/reconciler"
)

// Options controls what the report contains.
type Options struct {
	// Input names the record file in the header.
	Input string
	// Vocabulary renders the tag breakdown.
	Vocabulary provenance.Vocabulary
	// Timeline includes the per-iteration state table.
	Timeline bool
}

// Write renders the report for result to w.
func Write(w io.Writer, result *reconciler.Result, opts Options) error {
	doc := md.NewMarkdown(w)
	meta := result.Metadata
	stats := meta.Stats

	doc.H1("Reconciliation report")
	items := []string{
		"Run: " + md.Code(meta.RunID),
		"Started: " + meta.StartTime.Format(constants.TimeFormatISO8601),
		"Duration: " + meta.Duration.String(),
	}
	if opts.Input != "" {
		items = append([]string{"Input: " + md.Code(opts.Input)}, items...)
	}
	doc.BulletList(items...)

	doc.H2("Statistics")
	doc.Table(md.TableSet{
		Header: []string{"Measure", "Count"},
		Rows: [][]string{
			{"Input records", strconv.Itoa(stats.InputRecords)},
			{"Ambiguous input records", strconv.Itoa(stats.AmbiguousRecords)},
			{"Output records", strconv.Itoa(stats.OutputRecords)},
			{"Iterations", strconv.Itoa(stats.Iterations)},
			{"Promotions", strconv.Itoa(stats.Promotions)},
			{"Splits by houses", strconv.Itoa(stats.SplitsByHouses)},
			{"Splits by area", strconv.Itoa(stats.SplitsByArea)},
			{"Splits without data", strconv.Itoa(stats.NullSplits)},
			{"Normalized records", strconv.Itoa(stats.Normalized)},
			{"Gaps", strconv.Itoa(len(result.Gaps))},
		},
	})

	doc.H2("Provenance")
	doc.Table(md.TableSet{
		Header: []string{"Tag", "Label", "Records"},
		Rows:   tagRows(result, opts.Vocabulary),
	})

	doc.H2("Gaps")
	if len(result.Gaps) == 0 {
		doc.PlainText("Every record was apportioned.")
	} else {
		rows := make([][]string, 0, len(result.Gaps))
		for _, g := range result.Gaps {
			rows = append(rows, []string{g.RecordID, strconv.Itoa(g.Year), md.Code(strings.Join(g.Codes, constants.LinkSeparator)), g.Reason})
		}
		doc.Table(md.TableSet{
			Header: []string{"Record", "Year", "Codes", "Reason"},
			Rows:   rows,
		})
	}

	if opts.Timeline {
		doc.H2("Timeline")
		rows := make([][]string, 0, len(result.Timeline))
		for _, tr := range result.Timeline {
			rows = append(rows, []string{strconv.Itoa(tr.Iteration), tr.State.Name(), strconv.Itoa(tr.Ambiguous), strconv.Itoa(tr.Changes)})
		}
		doc.Table(md.TableSet{
			Header: []string{"Iteration", "State", "Ambiguous", "Changes"},
			Rows:   rows,
		})
	}

	if err := doc.Build(); err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return nil
}

func tagRows(result *reconciler.Result, v provenance.Vocabulary) [][]string {
	counts := make(map[provenance.Tag]int)
	if result.Store != nil {
		for _, r := range result.Store.List() {
			counts[r.Tag]++
		}
	}
	var rows [][]string
	for _, tag := range provenance.Tags {
		if n := counts[tag]; n > 0 {
			rows = append(rows, []string{tag.String(), v.Label(tag, 0), strconv.Itoa(n)})
		}
	}
	return rows
}
