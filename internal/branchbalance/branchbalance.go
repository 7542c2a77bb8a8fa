// Package branchbalance keeps the per-branch cash ledger.
package branchbalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/money"
)

type TransactionType string

const (
	TypeOpeningBalance TransactionType = "OPENING_BALANCE"
	TypeTopUp          TransactionType = "TOP_UP"
)

// Balance is the cash position of one branch. TotalIssued and TotalRetired are
// read-side aggregates over the branch's imprests and are never written.
type Balance struct {
	ID             uuid.UUID
	BranchID       uuid.UUID
	BranchName     string
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	TotalIssued    decimal.Decimal
	TotalRetired   decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transaction is an append-only ledger entry.
type Transaction struct {
	ID              uuid.UUID
	BranchBalanceID uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	PerformedBy     uuid.UUID
	Notes           string
	CreatedAt       time.Time
}

type TopUpResult struct {
	Balance     *Balance
	Transaction *Transaction
	Created     bool
}

// TopUp applies amount to existing, or opens a new balance when existing is
// nil. existing is not modified.
//
// Opening a balance accepts zero; topping up requires a positive amount. Every
// top-up also raises OpeningBalance.
func TopUp(existing *Balance, branchID uuid.UUID, amount decimal.Decimal, performedBy uuid.UUID, notes string) (TopUpResult, error) {
	if err := money.CheckScale("amount", amount); err != nil {
		return TopUpResult{}, err
	}

	if existing == nil {
		if amount.IsNegative() {
			return TopUpResult{}, apperr.Validation("opening balance cannot be negative")
		}

		b := &Balance{
			BranchID:       branchID,
			OpeningBalance: amount,
			CurrentBalance: amount,
		}

		return TopUpResult{
			Balance: b,
			Transaction: &Transaction{
				Type:          TypeOpeningBalance,
				Amount:        amount,
				BalanceBefore: decimal.Zero,
				BalanceAfter:  amount,
				PerformedBy:   performedBy,
				Notes:         notes,
			},
			Created: true,
		}, nil
	}

	if !amount.IsPositive() {
		return TopUpResult{}, apperr.Validation("top-up amount must be greater than zero")
	}

	b := *existing
	b.CurrentBalance = existing.CurrentBalance.Add(amount)
	b.OpeningBalance = existing.OpeningBalance.Add(amount)

	return TopUpResult{
		Balance: &b,
		Transaction: &Transaction{
			BranchBalanceID: existing.ID,
			Type:            TypeTopUp,
			Amount:          amount,
			BalanceBefore:   existing.CurrentBalance,
			BalanceAfter:    b.CurrentBalance,
			PerformedBy:     performedBy,
			Notes:           notes,
		},
	}, nil
}
