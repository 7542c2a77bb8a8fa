// Package imprest issues cash advances to staff and retires them against
// receipts.
package imprest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/money"
)

type Status string

const (
	StatusIssued  Status = "ISSUED"
	StatusRetired Status = "RETIRED"
	// StatusOverdue is never stored. It is reported for issued imprests older
	// than the configured limit.
	StatusOverdue Status = "OVERDUE"
)

func (s Status) Valid() bool {
	return s == StatusIssued || s == StatusRetired || s == StatusOverdue
}

// DefaultOverdueAfter is how long an imprest may stay unretired.
const DefaultOverdueAfter = 30 * 24 * time.Hour

type Imprest struct {
	ID              uuid.UUID
	Number          string
	BranchID        *uuid.UUID
	StaffName       string
	Amount          decimal.Decimal
	Category        string
	Purpose         string
	DateIssued      time.Time
	Status          Status
	AmountSpent     decimal.NullDecimal
	Balance         decimal.NullDecimal
	DateRetired     *time.Time
	Receipts        string
	RetirementNotes string
	IssuedBy        uuid.UUID
	RetiredBy       *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type RetireParams struct {
	AmountSpent decimal.Decimal
	// DateRetired defaults to the time of retirement.
	DateRetired *time.Time
	Receipts    string
	Notes       string
	RetiredBy   uuid.UUID
}

// Retire accounts for im. It can happen once, and amount spent must lie
// within [0, amount].
func Retire(im *Imprest, params RetireParams, now time.Time) error {
	if im.Status == StatusRetired {
		return apperr.Conflict("imprest %s is already retired", im.Number)
	}

	if params.AmountSpent.IsNegative() {
		return apperr.Validation("amount spent cannot be negative")
	}

	if err := money.CheckScale("amount spent", params.AmountSpent); err != nil {
		return err
	}

	if params.AmountSpent.GreaterThan(im.Amount) {
		return apperr.Validation("amount spent cannot exceed amount issued (%s)", im.Amount.StringFixed(2))
	}

	retired := now
	if params.DateRetired != nil {
		retired = *params.DateRetired
	}

	by := params.RetiredBy

	im.Status = StatusRetired
	im.AmountSpent = decimal.NewNullDecimal(params.AmountSpent)
	im.Balance = decimal.NewNullDecimal(im.Amount.Sub(params.AmountSpent))
	im.DateRetired = &retired
	im.Receipts = params.Receipts
	im.RetirementNotes = params.Notes
	im.RetiredBy = &by

	return nil
}

// EffectiveStatus reports OVERDUE for an issued imprest held longer than
// overdueAfter.
func EffectiveStatus(im *Imprest, now time.Time, overdueAfter time.Duration) Status {
	if im.Status == StatusRetired {
		return StatusRetired
	}

	if now.Sub(im.DateIssued) > overdueAfter {
		return StatusOverdue
	}

	return StatusIssued
}
