// Package importer reads cashier reconciliation sheets in bulk.
package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	enc "github.com/MrJamesThe3rd/findules/internal/encoding"
	"github.com/MrJamesThe3rd/findules/internal/money"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006", "2/1/2006"}

// Row is one data line of a sheet. Err is set when the line could not be read.
type Row struct {
	Line      int
	CashierID uuid.UUID
	Date      time.Time
	Input     reconciliation.Input
	Notes     string
	Err       error
}

type Sheet struct {
	Profile   string
	Charset   string
	Delimiter rune
	Rows      []Row
}

// Parse decodes r, detects its delimiter and column profile, and reads every
// non-blank line. Malformed lines are returned with Err set rather than
// failing the sheet.
func Parse(r io.Reader) (*Sheet, error) {
	decoded, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(decoded)

	sample, err := br.Peek(1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	sheet := &Sheet{Charset: decoded.Charset, Delimiter: enc.DetectDelimiter(sample)}

	reader := csv.NewReader(br)
	reader.Comma = sheet.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.Validation("reading csv: %v", err)
	}

	if len(rows) == 0 {
		return nil, apperr.Validation("file is empty")
	}

	profile, cols := detectProfile(rows[0])
	if profile == nil {
		return nil, apperr.Validation("unrecognised header: expected cashier id, date and cash at hand columns")
	}

	sheet.Profile = profile.Name

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		sheet.Rows = append(sheet.Rows, parseRow(profile, cols, row, i+2))
	}

	return sheet, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

func parseRow(p *Profile, cols colIndex, row []string, line int) Row {
	out := Row{Line: line}

	cell := func(f field) string {
		return cellValue(row, p.position(cols, f))
	}

	id, err := uuid.Parse(cell(fieldCashierID))
	if err != nil {
		out.Err = apperr.Validation("invalid cashier id %q", cell(fieldCashierID))
		return out
	}

	out.CashierID = id

	out.Date, err = parseDate(cell(fieldDate))
	if err != nil {
		out.Err = err
		return out
	}

	amounts := []struct {
		f    field
		name string
		dst  *decimal.Decimal
	}{
		{fieldOpening, "opening balance", &out.Input.ActualOpeningBalance},
		{fieldSales, "total sales", &out.Input.TotalSales},
		{fieldPOS, "POS transactions", &out.Input.POSTransactionsAmount},
		{fieldCashTransaction, "cash transaction", &out.Input.CashTransaction},
		{fieldTransfersIn, "transfers in", &out.Input.TransfersIn},
		{fieldTransfersOut, "transfers out", &out.Input.TransfersOut},
		{fieldDiscounts, "discounts", &out.Input.DiscountsGiven},
		{fieldRefunds, "refunds", &out.Input.RefundsIssued},
		{fieldWithdrawn, "cash withdrawn", &out.Input.CashWithdrawn},
		{fieldCashAtHand, "cash at hand", &out.Input.CashAtHand},
	}

	for _, a := range amounts {
		v, err := money.Parse(cell(a.f))
		if err != nil {
			out.Err = apperr.Validation("%s: %v", a.name, err)
			return out
		}

		*a.dst = v
	}

	out.Notes = cell(fieldNotes)

	return out
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, apperr.Validation("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, apperr.Validation("unrecognised date %q", s)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
