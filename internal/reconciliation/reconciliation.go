// Package reconciliation records a cashier's daily cash count against the
// balance their figures say they should be holding.
package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/money"
)

type VarianceCategory string

const (
	NoVariance       VarianceCategory = "NO_VARIANCE"
	MinorShortage    VarianceCategory = "MINOR_SHORTAGE"
	MinorOverage     VarianceCategory = "MINOR_OVERAGE"
	MajorShortage    VarianceCategory = "MAJOR_SHORTAGE"
	MajorOverage     VarianceCategory = "MAJOR_OVERAGE"
	CriticalShortage VarianceCategory = "CRITICAL_SHORTAGE"
	CriticalOverage  VarianceCategory = "CRITICAL_OVERAGE"
)

// Categories lists every category from best to worst.
var Categories = []VarianceCategory{
	NoVariance, MinorShortage, MinorOverage, MajorShortage, MajorOverage, CriticalShortage, CriticalOverage,
}

func (c VarianceCategory) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}

	return false
}

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusRetired Status = "RETIRED"
)

// Variance limits in currency units.
var (
	minorLimit = decimal.NewFromInt(50)
	majorLimit = decimal.NewFromInt(200)
)

// Input is what the cashier submits. CashAtHand is the physical count.
type Input struct {
	ActualOpeningBalance  decimal.Decimal
	TotalSales            decimal.Decimal
	POSTransactionsAmount decimal.Decimal
	// CashTransaction is recorded but takes no part in the expected balance.
	CashTransaction decimal.Decimal
	TransfersIn     decimal.Decimal
	TransfersOut    decimal.Decimal
	DiscountsGiven  decimal.Decimal
	RefundsIssued   decimal.Decimal
	CashWithdrawn   decimal.Decimal
	CashAtHand      decimal.Decimal
}

// Validate rejects negative amounts and amounts finer than a kobo.
func (in Input) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"actual opening balance", in.ActualOpeningBalance},
		{"total sales", in.TotalSales},
		{"POS transactions", in.POSTransactionsAmount},
		{"cash transaction", in.CashTransaction},
		{"transfers in", in.TransfersIn},
		{"transfers out", in.TransfersOut},
		{"discounts given", in.DiscountsGiven},
		{"refunds issued", in.RefundsIssued},
		{"cash withdrawn", in.CashWithdrawn},
		{"cash at hand", in.CashAtHand},
	}

	for _, f := range fields {
		if f.value.IsNegative() {
			return apperr.Validation("%s cannot be negative", f.name)
		}

		if err := money.CheckScale(f.name, f.value); err != nil {
			return err
		}
	}

	return nil
}

type Figures struct {
	TurnOver               decimal.Decimal
	ExpectedClosingBalance decimal.Decimal
	OverageShortage        decimal.Decimal
	VarianceCategory       VarianceCategory
}

// Compute derives the closing figures. No intermediate rounding is applied.
func Compute(in Input) Figures {
	turnOver := in.ActualOpeningBalance.Add(in.TotalSales)

	expected := turnOver.
		Sub(in.POSTransactionsAmount).
		Sub(in.TransfersIn).
		Sub(in.TransfersOut).
		Sub(in.DiscountsGiven).
		Sub(in.RefundsIssued).
		Sub(in.CashWithdrawn)

	variance := in.CashAtHand.Sub(expected)

	return Figures{
		TurnOver:               turnOver,
		ExpectedClosingBalance: expected,
		OverageShortage:        variance,
		VarianceCategory:       Classify(variance),
	}
}

// Classify buckets a variance by its absolute size. Negative is a shortage.
func Classify(v decimal.Decimal) VarianceCategory {
	abs := v.Abs()
	short := v.IsNegative()

	switch {
	case v.IsZero():
		return NoVariance
	case abs.LessThanOrEqual(minorLimit):
		if short {
			return MinorShortage
		}

		return MinorOverage
	case abs.LessThanOrEqual(majorLimit):
		if short {
			return MajorShortage
		}

		return MajorOverage
	default:
		if short {
			return CriticalShortage
		}

		return CriticalOverage
	}
}

type Reconciliation struct {
	ID           uuid.UUID
	SerialNumber string
	CashierID    uuid.UUID
	CashierName  string
	BranchID     uuid.UUID
	Date         time.Time
	Input
	Figures
	Status    Status
	Notes     string
	CreatedBy uuid.UUID
	RetiredBy *uuid.UUID
	RetiredAt *time.Time
	CreatedAt time.Time
}

// Retire marks r as reviewed. Figures are left exactly as they were computed.
func (r *Reconciliation) Retire(by uuid.UUID, now time.Time) error {
	if r.Status == StatusRetired {
		return apperr.Conflict("reconciliation %s is already retired", r.SerialNumber)
	}

	r.Status = StatusRetired
	r.RetiredBy = &by
	r.RetiredAt = &now

	return nil
}
