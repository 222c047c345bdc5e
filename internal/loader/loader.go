// Package loader reads the record and area tables and turns them into a
// record store and an area ratio table.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/arearatio"
	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/logging"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Row is one parsed line of the record table.
type Row struct {
	Line   int
	Year   int
	Houses decimal.NullDecimal
	KM2Raw string
	Link   string
}

// AreaRow is one parsed line of the area table.
type AreaRow struct {
	Line   int
	Code   string
	Values map[int]decimal.NullDecimal
}

// Options controls parsing.
type Options struct {
	// Locale of the numbers in the files.
	Locale string
	// Delimiter of the fields; 0 detects ';' or ',' from the header.
	Delimiter rune
	// File names the input in errors.
	File string
}

var columnNames = map[string][]string{
	"year":   {"year", "jaar"},
	"houses": {"houses", "huizen"},
	"km2":    {"km2", "km²", "oppervlakte"},
	"link":   {"link", "code", "codes"},
}

// ReadRecords reads the record table. The header must name a year and a
// houses column; km2 and link are optional.
func ReadRecords(r io.Reader, opts Options) ([]Row, error) {
	header, lines, err := readAll(r, opts)
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int)
	for key, names := range columnNames {
		cols[key] = -1
		for i, h := range header {
			if slices.Contains(names, strings.ToLower(strings.TrimSpace(h))) {
				cols[key] = i
				break
			}
		}
	}
	for _, required := range []string{"year", "houses"} {
		if cols[required] < 0 {
			return nil, &errors.ParseError{Format: "csv", File: opts.File, Line: 1, Message: "missing column " + required}
		}
	}

	rows := make([]Row, 0, len(lines))
	for i, fields := range lines {
		line := i + 2
		if blank(fields) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(field(fields, cols["year"])))
		if err != nil {
			return nil, &errors.ParseError{Format: "csv", File: opts.File, Line: line, Message: "invalid year", Err: err}
		}
		houses, err := ParseNumber(field(fields, cols["houses"]), opts.Locale)
		if err != nil {
			return nil, lineError(opts.File, line, err)
		}
		rows = append(rows, Row{
			Line:   line,
			Year:   year,
			Houses: houses,
			KM2Raw: strings.TrimSpace(field(fields, cols["km2"])),
			Link:   strings.TrimSpace(field(fields, cols["link"])),
		})
	}
	return rows, nil
}

// ReadAreas reads the area table: a code column followed by one column per year.
func ReadAreas(r io.Reader, opts Options) ([]AreaRow, error) {
	header, lines, err := readAll(r, opts)
	if err != nil {
		return nil, err
	}

	codeCol := 0
	years := make(map[int]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "code" || h == "link" {
			codeCol = i
			continue
		}
		if y, err := strconv.Atoi(h); err == nil {
			years[i] = y
		}
	}
	if len(years) == 0 {
		return nil, &errors.ParseError{Format: "csv", File: opts.File, Line: 1, Message: "no year columns"}
	}

	rows := make([]AreaRow, 0, len(lines))
	for i, fields := range lines {
		line := i + 2
		if blank(fields) {
			continue
		}
		row := AreaRow{Line: line, Code: strings.TrimSpace(field(fields, codeCol)), Values: make(map[int]decimal.NullDecimal)}
		for col, year := range years {
			v, err := ParseNumber(field(fields, col), opts.Locale)
			if err != nil {
				return nil, lineError(opts.File, line, err)
			}
			row.Values[year] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Data is the loaded input of a run.
type Data struct {
	Store   *records.Store
	Areas   *arearatio.Table
	Skipped int
}

// Load builds the store and area table. Rows without a link are skipped;
// a malformed code aborts the load.
func Load(ctx context.Context, rows []Row, areaRows []AreaRow, opts Options) (*Data, error) {
	logger := logging.FromContext(ctx)
	data := &Data{Store: records.NewStore()}
	var entries []arearatio.Entry

	for _, row := range rows {
		if row.Link == "" {
			data.Skipped++
			logger.Warn().Int("line", row.Line).Int("year", row.Year).Msg("Skipping row without link")
			continue
		}
		cs, err := codes.ParseLink(row.Link)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		if len(cs) == 0 {
			data.Skipped++
			continue
		}
		area, err := ParseNumber(row.KM2Raw, opts.Locale)
		if err != nil {
			return nil, lineError(opts.File, row.Line, err)
		}
		if _, err := data.Store.Add(records.Record{
			Year:   row.Year,
			Houses: row.Houses,
			Area:   area,
			Codes:  cs,
			Tag:    provenance.TagSource,
		}); err != nil {
			return nil, err
		}
		if len(cs) == 1 && area.Valid {
			entries = append(entries, arearatio.Entry{Code: cs[0], Year: row.Year, Area: area})
		}
	}

	for _, row := range areaRows {
		c, err := codes.Parse(row.Code)
		if err != nil {
			return nil, fmt.Errorf("area line %d: %w", row.Line, err)
		}
		for year, v := range row.Values {
			entries = append(entries, arearatio.Entry{Code: c, Year: year, Area: v})
		}
	}
	data.Areas = arearatio.New(entries)

	logger.Info().
		Int("records", data.Store.Len()).
		Int("ambiguous", data.Store.CountAmbiguous()).
		Int("skipped", data.Skipped).
		Int("area_codes", data.Areas.Len()).
		Msg("Loaded input")
	return data, nil
}

// LoadFiles reads and loads the record file and the optional area file.
func LoadFiles(ctx context.Context, recordsPath, areasPath string, opts Options) (*Data, error) {
	rows, err := readFile(recordsPath, opts, ReadRecords)
	if err != nil {
		return nil, err
	}
	var areaRows []AreaRow
	if areasPath != "" {
		if areaRows, err = readFile(areasPath, opts, ReadAreas); err != nil {
			return nil, err
		}
	}
	opts.File = recordsPath
	return Load(logging.WithInput(ctx, recordsPath), rows, areaRows, opts)
}

// CheckFiles reads the record file and the optional area file and returns
// every malformed code they contain.
func CheckFiles(recordsPath, areasPath string, opts Options) ([]Issue, error) {
	rows, err := readFile(recordsPath, opts, ReadRecords)
	if err != nil {
		return nil, err
	}
	var areaRows []AreaRow
	if areasPath != "" {
		if areaRows, err = readFile(areasPath, opts, ReadAreas); err != nil {
			return nil, err
		}
	}
	return Check(rows, areaRows), nil
}

func readFile[T any](path string, opts Options, read func(io.Reader, Options) ([]T, error)) ([]T, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	opts.File = path
	return read(f, opts)
}

// Issue is a malformed code found by Check.
type Issue struct {
	Line   int    `json:"line" yaml:"line"`
	Source string `json:"source" yaml:"source"`
	Code   string `json:"code" yaml:"code"`
	Reason string `json:"reason" yaml:"reason"`
}

// Check parses every code of rows and area rows and returns each problem
// instead of stopping at the first.
func Check(rows []Row, areaRows []AreaRow) []Issue {
	issues := []Issue{}
	report := func(line int, source, raw string) {
		if _, err := codes.Parse(raw); err != nil {
			issue := Issue{Line: line, Source: source, Code: raw, Reason: err.Error()}
			var mce *errors.MalformedCodeError
			if errors.As(err, &mce) {
				issue.Reason = mce.Reason
			}
			issues = append(issues, issue)
		}
	}
	for _, row := range rows {
		for _, part := range strings.Split(row.Link, constants.LinkSeparator) {
			if strings.TrimSpace(part) != "" {
				report(row.Line, "records", strings.TrimSpace(part))
			}
		}
	}
	for _, row := range areaRows {
		report(row.Line, "areas", row.Code)
	}
	return issues
}

func readAll(r io.Reader, opts Options) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.WrapIO("read", opts.File, err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = detectDelimiter(data)
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.WrapParse("csv", opts.File, err)
	}
	if len(all) == 0 {
		return nil, nil, &errors.ParseError{Format: "csv", File: opts.File, Message: "empty file"}
	}
	return all[0], all[1:], nil
}

func detectDelimiter(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) >= bytes.Count(first, []byte(",")) && bytes.Contains(first, []byte(";")) {
		return ';'
	}
	return ','
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func lineError(file string, line int, err error) error {
	var pe *errors.ParseError
	if errors.As(err, &pe) {
		pe.File = file
		pe.Line = line
		return pe
	}
	return err
}
