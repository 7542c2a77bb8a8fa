package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/imprest"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

// Column describes one table column. Numeric columns hold plain decimal
// strings so that CSV output can be read back.
type Column struct {
	Header  string
	Numeric bool
	Width   float64
}

// Table is a format-independent report.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}

	return out
}

// Reconciliation CSV headers. The importer reads files with these headers.
const (
	HeaderSerial          = "Serial Number"
	HeaderDate            = "Date"
	HeaderCashierID       = "Cashier ID"
	HeaderCashier         = "Cashier"
	HeaderOpening         = "Opening Balance"
	HeaderSales           = "Total Sales"
	HeaderPOS             = "POS Transactions"
	HeaderCashTransaction = "Cash Transaction"
	HeaderTransfersIn     = "Transfers In"
	HeaderTransfersOut    = "Transfers Out"
	HeaderDiscounts       = "Discounts Given"
	HeaderRefunds         = "Refunds Issued"
	HeaderWithdrawn       = "Cash Withdrawn"
	HeaderCashAtHand      = "Cash At Hand"
	HeaderTurnOver        = "Turnover"
	HeaderExpected        = "Expected Closing"
	HeaderVariance        = "Overage/Shortage"
	HeaderCategory        = "Variance Category"
	HeaderStatus          = "Status"
	HeaderNotes           = "Notes"
)

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func date(t time.Time) string {
	return t.Format(time.DateOnly)
}

func ReconciliationTable(recs []*reconciliation.Reconciliation) *Table {
	t := &Table{
		Title: "Cashier Reconciliations",
		Columns: []Column{
			{Header: HeaderSerial, Width: 32},
			{Header: HeaderDate, Width: 20},
			{Header: HeaderCashierID},
			{Header: HeaderCashier, Width: 30},
			{Header: HeaderOpening, Numeric: true},
			{Header: HeaderSales, Numeric: true, Width: 22},
			{Header: HeaderPOS, Numeric: true},
			{Header: HeaderCashTransaction, Numeric: true},
			{Header: HeaderTransfersIn, Numeric: true},
			{Header: HeaderTransfersOut, Numeric: true},
			{Header: HeaderDiscounts, Numeric: true},
			{Header: HeaderRefunds, Numeric: true},
			{Header: HeaderWithdrawn, Numeric: true},
			{Header: HeaderCashAtHand, Numeric: true, Width: 22},
			{Header: HeaderTurnOver, Numeric: true},
			{Header: HeaderExpected, Numeric: true, Width: 22},
			{Header: HeaderVariance, Numeric: true, Width: 22},
			{Header: HeaderCategory, Width: 34},
			{Header: HeaderStatus, Width: 18},
			{Header: HeaderNotes},
		},
	}

	for _, r := range recs {
		t.Rows = append(t.Rows, []string{
			r.SerialNumber,
			date(r.Date),
			r.CashierID.String(),
			r.CashierName,
			amount(r.ActualOpeningBalance),
			amount(r.TotalSales),
			amount(r.POSTransactionsAmount),
			amount(r.CashTransaction),
			amount(r.TransfersIn),
			amount(r.TransfersOut),
			amount(r.DiscountsGiven),
			amount(r.RefundsIssued),
			amount(r.CashWithdrawn),
			amount(r.CashAtHand),
			amount(r.TurnOver),
			amount(r.ExpectedClosingBalance),
			amount(r.OverageShortage),
			string(r.VarianceCategory),
			string(r.Status),
			r.Notes,
		})
	}

	return t
}

func ImprestTable(imps []*imprest.Imprest) *Table {
	t := &Table{
		Title: "Imprests",
		Columns: []Column{
			{Header: "Imprest Number", Width: 32},
			{Header: "Date Issued", Width: 20},
			{Header: "Staff", Width: 32},
			{Header: "Category", Width: 28},
			{Header: "Purpose", Width: 50},
			{Header: "Amount", Numeric: true, Width: 22},
			{Header: "Status", Width: 18},
			{Header: "Amount Spent", Numeric: true, Width: 22},
			{Header: "Balance", Numeric: true, Width: 22},
			{Header: "Date Retired", Width: 20},
		},
	}

	for _, im := range imps {
		spent, balance, retired := "", "", ""
		if im.AmountSpent.Valid {
			spent = amount(im.AmountSpent.Decimal)
		}

		if im.Balance.Valid {
			balance = amount(im.Balance.Decimal)
		}

		if im.DateRetired != nil {
			retired = date(*im.DateRetired)
		}

		t.Rows = append(t.Rows, []string{
			im.Number,
			date(im.DateIssued),
			im.StaffName,
			im.Category,
			im.Purpose,
			amount(im.Amount),
			string(im.Status),
			spent,
			balance,
			retired,
		})
	}

	return t
}

// Summary renders one line per record, for the readme of a bundle.
func Summary(recs []*reconciliation.Reconciliation, imps []*imprest.Imprest) string {
	var sb strings.Builder

	sb.WriteString("Reconciliations\n")

	for _, r := range recs {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s\n",
			date(r.Date), r.SerialNumber, r.CashierName, amount(r.OverageShortage), r.VarianceCategory)
	}

	sb.WriteString("\nImprests\n")

	for _, im := range imps {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s\n",
			date(im.DateIssued), im.Number, im.StaffName, amount(im.Amount), im.Status)
	}

	return sb.String()
}
