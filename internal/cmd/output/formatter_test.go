package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/reconciler"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestSummaryFormats(t *testing.T) {
	result := reconciler.NewResult("run-1")
	result.Metadata.Stats.InputRecords = 3
	result.Metadata.Stats.OutputRecords = 4
	summary := NewSummary(result, "records.csv", "values.csv")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, summary))
	assert.Contains(t, buf.String(), "reconciled")
	assert.Contains(t, buf.String(), "records.csv")
	assert.Contains(t, buf.String(), "values.csv")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, summary))
	assert.Contains(t, buf.String(), `"run_id": "run-1"`)
	assert.Contains(t, buf.String(), `"output_records": 4`)

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, summary))
	assert.Contains(t, buf.String(), "input_records: 3")
}

func TestHierarchy(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2000, Houses: "1", Link: "HO0001A"},
		reconciler.TestRow{Year: 2000, Houses: "2", Link: "HO0001B"},
		reconciler.TestRow{Year: 2005, Houses: "3", Link: "HO0001"},
	)
	h, err := hierarchyOf(store)
	require.NoError(t, err)

	nodes := NewHierarchy(h, store)
	require.Len(t, nodes, 3)
	assert.Equal(t, HierarchyNode{Code: "HO0001", Kind: "root", Depth: 0, Children: 2, Records: 1}, nodes[0])
	assert.Equal(t, "HO0001A", nodes[1].Code)
	assert.Equal(t, 1, nodes[1].Depth)

	data := nodes.Table()
	assert.Equal(t, "  HO0001B", data.Rows[2][0])
}

func TestIssuesTable(t *testing.T) {
	assert.Contains(t, Issues(nil).Table().Rows[0][0], "well-formed")

	data := Issues{{Line: 3, Source: "records", Code: "XX01", Reason: "bad prefix"}}.Table()
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{"✗", "records", "3", "XX01", "bad prefix"}, data.Rows[0])
}

func TestTableFormatterStructSlice(t *testing.T) {
	type row struct {
		RunID string `json:"run_id"`
		Count int
	}
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, []row{{"a", 1}, {"b", 2}}))
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "run id")
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "b")
}

func hierarchyOf(store *records.Store) (*codes.Hierarchy, error) {
	h := codes.NewHierarchy()
	return h, h.Rebuild(store.Codes())
}
