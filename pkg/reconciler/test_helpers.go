package reconciler

import (
	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// TestRow describes an input record for building test stores.
type TestRow struct {
	Year   int
	Houses string // empty means unknown
	Link   string
}

// NewTestStore builds a store of source records from rows. It panics on
// malformed input and is meant for tests only.
func NewTestStore(rows ...TestRow) *records.Store {
	store := records.NewStore()
	for _, row := range rows {
		cs, err := codes.ParseLink(row.Link)
		if err != nil {
			panic(err)
		}
		h := records.Null
		if row.Houses != "" {
			h = records.Known(decimal.RequireFromString(row.Houses))
		}
		if _, err := store.Add(records.Record{
			Year:   row.Year,
			Houses: h,
			Codes:  cs,
			Tag:    provenance.TagSource,
		}); err != nil {
			panic(err)
		}
	}
	return store
}
