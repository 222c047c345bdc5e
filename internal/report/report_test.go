package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/internal/report"
	"github.com/Igorvich/huizen-holland/pkg/logging"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/reconciler"
)

func TestWrite(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2000, Houses: "10", Link: "HO0001A"},
		reconciler.TestRow{Year: 2000, Houses: "30", Link: "HO0001B"},
		reconciler.TestRow{Year: 2005, Houses: "80", Link: "HO0001A-HO0001B"},
		reconciler.TestRow{Year: 1930, Houses: "3", Link: "HO0003A-HO0003B"},
	)
	r, err := reconciler.New()
	require.NoError(t, err)
	result, err := r.Run(logging.WithLogger(context.Background(), logging.NewNopLogger()), store, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, result, report.Options{
		Input:      "records.csv",
		Vocabulary: provenance.English,
		Timeline:   true,
	}))

	out := buf.String()
	assert.Contains(t, out, "# Reconciliation report")
	assert.Contains(t, out, "`records.csv`")
	assert.Contains(t, out, "## Statistics")
	assert.Contains(t, out, "| Splits by houses")
	assert.Contains(t, out, "year_source")
	assert.Contains(t, out, "No data")
	assert.Contains(t, out, "HO0003A-HO0003B")
	assert.Contains(t, out, "Splitting By Houses")
}
