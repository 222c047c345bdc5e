package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// Format controls how tables are written.
type Format struct {
	// Delimiter separates fields; ';' is the default.
	Delimiter rune
	// Locale formats numbers; "" writes plain decimals with a dot.
	Locale string
	// Missing is written for cells without a value.
	Missing string
}

// DefaultFormat writes semicolon-separated Dutch numbers.
func DefaultFormat() Format {
	return Format{Delimiter: ';', Locale: constants.DefaultLocale}
}

// NumberFormatter renders a value with three decimals for a locale.
type NumberFormatter struct {
	printer *message.Printer
}

// NewNumberFormatter creates a formatter; an empty locale renders plain decimals.
func NewNumberFormatter(locale string) (*NumberFormatter, error) {
	if locale == "" {
		return &NumberFormatter{}, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.NewValidationError("locale", locale, err.Error())
	}
	return &NumberFormatter{printer: message.NewPrinter(tag)}, nil
}

// Format renders v, or missing when v is absent. Rounding happens on the
// decimal; the printer only sees the rounded value, which float64 holds
// exactly up to 15 significant digits.
func (f *NumberFormatter) Format(v decimal.NullDecimal, missing string) string {
	if !v.Valid {
		return missing
	}
	rounded := v.Decimal.RoundBank(constants.DecimalPlaces)
	if f.printer == nil {
		return rounded.StringFixed(constants.DecimalPlaces)
	}
	return f.printer.Sprint(number.Decimal(rounded.InexactFloat64(),
		number.Scale(constants.DecimalPlaces), number.NoSeparator()))
}

// WriteValues writes the value table: a code column followed by one column per year.
func WriteValues(w io.Writer, t *Tables, f Format) error {
	nf, err := NewNumberFormatter(f.Locale)
	if err != nil {
		return err
	}
	return write(w, t, f, func(c int, year int) string {
		return nf.Format(t.Value(t.Codes[c], year), f.Missing)
	})
}

// WriteNotes writes the provenance note table in the layout of WriteValues.
func WriteNotes(w io.Writer, t *Tables, f Format) error {
	return write(w, t, f, func(c int, year int) string {
		return t.Note(t.Codes[c], year)
	})
}

func write(w io.Writer, t *Tables, f Format, cell func(c int, year int) string) error {
	cw := csv.NewWriter(w)
	if f.Delimiter != 0 {
		cw.Comma = f.Delimiter
	}

	header := make([]string, 0, len(t.Years)+1)
	header = append(header, "code")
	for _, y := range t.Years {
		header = append(header, strconv.Itoa(y))
	}
	if err := cw.Write(header); err != nil {
		return errors.WrapIO("write", "csv", err)
	}

	for i, c := range t.Codes {
		row := make([]string, 0, len(header))
		row = append(row, c.String())
		for _, y := range t.Years {
			row = append(row, cell(i, y))
		}
		if err := cw.Write(row); err != nil {
			return errors.WrapIO("write", "csv", err)
		}
	}

	cw.Flush()
	return errors.WrapIO("flush", "csv", cw.Error())
}
