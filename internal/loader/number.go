package loader

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// missing lists the spellings of an absent value.
var missing = map[string]struct{}{
	"":    {},
	"-":   {},
	"?":   {},
	"na":  {},
	"n/a": {},
}

// ParseNumber parses a number written for locale ("nl" uses a decimal comma
// and dot grouping, anything else a decimal dot and comma grouping). A dot in
// a Dutch number without a comma is read as a decimal point unless it is
// followed by exactly three digits.
func ParseNumber(raw, locale string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if _, ok := missing[strings.ToLower(s)]; ok {
		return decimal.NullDecimal{}, nil
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	if strings.HasPrefix(strings.ToLower(locale), "nl") {
		switch {
		case strings.Contains(s, ","):
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		case strings.Count(s, ".") > 1 || groupedByDot(s):
			s = strings.ReplaceAll(s, ".", "")
		}
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, &errors.ParseError{
			Format:  "number",
			Message: "invalid number " + raw,
			Err:     err,
		}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func groupedByDot(s string) bool {
	i := strings.LastIndex(s, ".")
	return i > 0 && len(s)-i-1 == 3
}
