package export

import (
	"path/filepath"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

func TestCellName(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{1, 1, "A1"},
		{2, 10, "B10"},
		{26, 3, "Z3"},
		{27, 4, "AA4"},
		{53, 2, "BA2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellName(tt.col, tt.row))
	}
}

func TestWriteWorkbook(t *testing.T) {
	tables := &Tables{
		Years: []int{2000, 2005},
		Codes: []codes.Code{"HO0001A", "HO0001B"},
		Values: map[codes.Code]map[int]decimal.NullDecimal{
			"HO0001A": {2000: records.Known(decimal.NewFromInt(10)), 2005: records.Known(decimal.RequireFromString("2.5"))},
			"HO0001B": {2000: records.Null},
		},
		Notes: map[codes.Code]map[int]string{
			"HO0001A": {2000: "Bron", 2005: "Bron"},
			"HO0001B": {2000: "Geen gegevens"},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "huizen.xlsx")
	require.NoError(t, WriteWorkbook(path, tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	assert.Equal(t, "code", f.GetCellValue(ValuesSheet, "A1"))
	assert.Equal(t, "2005", f.GetCellValue(ValuesSheet, "C1"))
	assert.Equal(t, "HO0001B", f.GetCellValue(ValuesSheet, "A3"))
	assert.Equal(t, "10", f.GetCellValue(ValuesSheet, "B2"))
	assert.Equal(t, "2.5", f.GetCellValue(ValuesSheet, "C2"))
	assert.Empty(t, f.GetCellValue(ValuesSheet, "B3"))

	assert.Equal(t, "Bron", f.GetCellValue(NotesSheet, "B2"))
	assert.Equal(t, "Geen gegevens", f.GetCellValue(NotesSheet, "B3"))
	assert.Empty(t, f.GetCellValue(NotesSheet, "C3"))
}
