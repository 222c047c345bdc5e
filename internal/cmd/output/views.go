package output

import (
	"strconv"

	"github.com/Igorvich/huizen-holland/internal/cmd/emoji"
	"github.com/Igorvich/huizen-holland/internal/loader"
	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/reconciler"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Summary is the printable outcome of a reconcile run.
type Summary struct {
	RunID            string `json:"run_id" yaml:"run_id"`
	Input            string `json:"input,omitempty" yaml:"input,omitempty"`
	InputRecords     int    `json:"input_records" yaml:"input_records"`
	AmbiguousRecords int    `json:"ambiguous_records" yaml:"ambiguous_records"`
	OutputRecords    int    `json:"output_records" yaml:"output_records"`
	Iterations       int    `json:"iterations" yaml:"iterations"`
	Promotions       int    `json:"promotions" yaml:"promotions"`
	SplitsByHouses   int    `json:"splits_by_houses" yaml:"splits_by_houses"`
	SplitsByArea     int    `json:"splits_by_area" yaml:"splits_by_area"`
	Normalized       int    `json:"normalized" yaml:"normalized"`
	Gaps             int    `json:"gaps" yaml:"gaps"`
	DurationMs       int64  `json:"duration_ms" yaml:"duration_ms"`

	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// NewSummary builds the summary of result.
func NewSummary(result *reconciler.Result, input string, outputs ...string) Summary {
	s := result.Metadata.Stats
	return Summary{
		RunID:            result.Metadata.RunID,
		Input:            input,
		InputRecords:     s.InputRecords,
		AmbiguousRecords: s.AmbiguousRecords,
		OutputRecords:    s.OutputRecords,
		Iterations:       s.Iterations,
		Promotions:       s.Promotions,
		SplitsByHouses:   s.SplitsByHouses,
		SplitsByArea:     s.SplitsByArea,
		Normalized:       s.Normalized,
		Gaps:             len(result.Gaps),
		DurationMs:       s.TotalTimeMs,
		Outputs:          outputs,
	}
}

// Table implements Tabular.
func (s Summary) Table() Data {
	status := emoji.Success + " reconciled"
	if s.Gaps > 0 {
		status = emoji.Warning + " reconciled with " + strconv.Itoa(s.Gaps) + " gaps"
	}
	rows := [][]string{
		{"Status", status},
		{"Run", s.RunID},
	}
	if s.Input != "" {
		rows = append(rows, []string{"Input", s.Input})
	}
	rows = append(rows,
		[]string{"Input records", strconv.Itoa(s.InputRecords)},
		[]string{"Ambiguous records", strconv.Itoa(s.AmbiguousRecords)},
		[]string{"Output records", strconv.Itoa(s.OutputRecords)},
		[]string{"Iterations", strconv.Itoa(s.Iterations)},
		[]string{"Promotions", strconv.Itoa(s.Promotions)},
		[]string{"Splits by houses", strconv.Itoa(s.SplitsByHouses)},
		[]string{"Splits by area", strconv.Itoa(s.SplitsByArea)},
		[]string{"Normalized", strconv.Itoa(s.Normalized)},
		[]string{"Duration", strconv.FormatInt(s.DurationMs, 10) + "ms"},
	)
	for _, o := range s.Outputs {
		rows = append(rows, []string{"Wrote", o})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// HierarchyNode is one code of the hierarchy listing.
type HierarchyNode struct {
	Code     string `json:"code" yaml:"code"`
	Kind     string `json:"kind" yaml:"kind"`
	Depth    int    `json:"depth" yaml:"depth"`
	Children int    `json:"children" yaml:"children"`
	Records  int    `json:"records" yaml:"records"`
}

// Hierarchy lists every code of a store in depth-first order.
type Hierarchy []HierarchyNode

// NewHierarchy builds the listing of h with the records of store bearing
// each code.
func NewHierarchy(h *codes.Hierarchy, store *records.Store) Hierarchy {
	counts := make(map[codes.Code]int)
	for _, r := range store.List() {
		for _, c := range r.Codes {
			counts[c]++
		}
	}
	var nodes Hierarchy
	var walk func(c codes.Code, depth int)
	walk = func(c codes.Code, depth int) {
		children := h.Children(c)
		nodes = append(nodes, HierarchyNode{
			Code:     c.String(),
			Kind:     h.Kind(c).String(),
			Depth:    depth,
			Children: len(children),
			Records:  counts[c],
		})
		for _, child := range children {
			walk(child, depth+1)
		}
	}
	for _, root := range h.Roots() {
		walk(root, 0)
	}
	return nodes
}

// Table implements Tabular.
func (h Hierarchy) Table() Data {
	rows := make([][]string, 0, len(h))
	for _, n := range h {
		indent := ""
		for i := 0; i < n.Depth; i++ {
			indent += "  "
		}
		rows = append(rows, []string{indent + n.Code, n.Kind, strconv.Itoa(n.Children), strconv.Itoa(n.Records)})
	}
	return Data{
		Headers:         []string{"Code", "Kind", "Children", "Records"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// Issues lists the malformed codes found in the inputs.
type Issues []loader.Issue

// Table implements Tabular.
func (is Issues) Table() Data {
	if len(is) == 0 {
		return Data{
			Headers: []string{"Status"},
			Rows:    [][]string{{emoji.Success + " all codes are well-formed"}},
		}
	}
	rows := make([][]string, 0, len(is))
	for _, issue := range is {
		rows = append(rows, []string{emoji.Error, issue.Source, strconv.Itoa(issue.Line), issue.Code, issue.Reason})
	}
	return Data{
		Headers:         []string{"", "Source", "Line", "Code", "Reason"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
}
