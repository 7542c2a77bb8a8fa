package importer

import (
	"strings"

	"github.com/MrJamesThe3rd/findules/internal/export"
)

type field int

const (
	fieldCashierID field = iota
	fieldDate
	fieldOpening
	fieldSales
	fieldPOS
	fieldCashTransaction
	fieldTransfersIn
	fieldTransfersOut
	fieldDiscounts
	fieldRefunds
	fieldWithdrawn
	fieldCashAtHand
	fieldNotes
)

// Profile maps the columns of one sheet layout. Columns absent from a file
// read as zero, except the required ones.
type Profile struct {
	Name     string
	Columns  map[field]string
	Required []field
}

var required = []field{fieldCashierID, fieldDate, fieldCashAtHand}

// profiles is tried in order; the first whose required headers are all
// present wins.
var profiles = []Profile{
	{
		Name: "findules",
		Columns: map[field]string{
			fieldCashierID:       export.HeaderCashierID,
			fieldDate:            export.HeaderDate,
			fieldOpening:         export.HeaderOpening,
			fieldSales:           export.HeaderSales,
			fieldPOS:             export.HeaderPOS,
			fieldCashTransaction: export.HeaderCashTransaction,
			fieldTransfersIn:     export.HeaderTransfersIn,
			fieldTransfersOut:    export.HeaderTransfersOut,
			fieldDiscounts:       export.HeaderDiscounts,
			fieldRefunds:         export.HeaderRefunds,
			fieldWithdrawn:       export.HeaderWithdrawn,
			fieldCashAtHand:      export.HeaderCashAtHand,
			fieldNotes:           export.HeaderNotes,
		},
		Required: required,
	},
	{
		Name: "legacy",
		Columns: map[field]string{
			fieldCashierID:       "cashier_id",
			fieldDate:            "date",
			fieldOpening:         "opening",
			fieldSales:           "sales",
			fieldPOS:             "pos",
			fieldCashTransaction: "cash_txn",
			fieldTransfersIn:     "transfers_in",
			fieldTransfersOut:    "transfers_out",
			fieldDiscounts:       "discounts",
			fieldRefunds:         "refunds",
			fieldWithdrawn:       "withdrawn",
			fieldCashAtHand:      "cash_at_hand",
			fieldNotes:           "notes",
		},
		Required: required,
	},
}

// colIndex maps normalised header names to their position.
type colIndex map[string]int

func normalise(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func indexHeader(row []string) colIndex {
	cols := make(colIndex, len(row))

	for i, cell := range row {
		if name := normalise(cell); name != "" {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}

	return cols
}

func (p *Profile) matches(cols colIndex) bool {
	for _, f := range p.Required {
		if _, ok := cols[normalise(p.Columns[f])]; !ok {
			return false
		}
	}

	return true
}

// position returns the column of f, or -1 when the file lacks it.
func (p *Profile) position(cols colIndex, f field) int {
	if i, ok := cols[normalise(p.Columns[f])]; ok {
		return i
	}

	return -1
}

func detectProfile(header []string) (*Profile, colIndex) {
	cols := indexHeader(header)

	for i := range profiles {
		if profiles[i].matches(cols) {
			return &profiles[i], cols
		}
	}

	return nil, nil
}
