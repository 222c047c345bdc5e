package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// Sheet names of the workbook.
const (
	ValuesSheet = "values"
	NotesSheet  = "notes"
)

// WriteWorkbook saves both tables to an .xlsx file: values as numbers on
// one sheet, notes on the other. Missing values are left empty.
func WriteWorkbook(path string, t *Tables) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", ValuesSheet)
	f.NewSheet(NotesSheet)

	writeHeader(f, ValuesSheet, t)
	writeHeader(f, NotesSheet, t)
	for i, c := range t.Codes {
		row := i + 2
		f.SetCellValue(ValuesSheet, cellName(1, row), c.String())
		f.SetCellValue(NotesSheet, cellName(1, row), c.String())
		for j, year := range t.Years {
			col := j + 2
			if v := t.Value(c, year); v.Valid {
				f.SetCellValue(ValuesSheet, cellName(col, row), v.Decimal.RoundBank(constants.DecimalPlaces).InexactFloat64())
			}
			if note := t.Note(c, year); note != "" {
				f.SetCellValue(NotesSheet, cellName(col, row), note)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, t *Tables) {
	f.SetCellValue(sheet, "A1", "code")
	for j, year := range t.Years {
		f.SetCellValue(sheet, cellName(j+2, 1), year)
	}
}

// cellName converts 1-based column and row numbers to an A1 reference.
func cellName(col, row int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return fmt.Sprintf("%s%d", name, row)
}
