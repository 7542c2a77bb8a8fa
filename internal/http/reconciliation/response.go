package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

type figuresResponse struct {
	TurnOver               decimal.Decimal                 `json:"turn_over"`
	ExpectedClosingBalance decimal.Decimal                 `json:"expected_closing_balance"`
	OverageShortage        decimal.Decimal                 `json:"overage_shortage"`
	VarianceCategory       reconciliation.VarianceCategory `json:"variance_category"`
}

type reconciliationResponse struct {
	ID                    uuid.UUID             `json:"id"`
	SerialNumber          string                `json:"serial_number"`
	CashierID             uuid.UUID             `json:"cashier_id"`
	CashierName           string                `json:"cashier_name"`
	BranchID              uuid.UUID             `json:"branch_id"`
	Date                  string                `json:"date"`
	ActualOpeningBalance  decimal.Decimal       `json:"actual_opening_balance"`
	TotalSales            decimal.Decimal       `json:"total_sales"`
	POSTransactionsAmount decimal.Decimal       `json:"pos_transactions_amount"`
	CashTransaction       decimal.Decimal       `json:"cash_transaction"`
	TransfersIn           decimal.Decimal       `json:"transfers_in"`
	TransfersOut          decimal.Decimal       `json:"transfers_out"`
	DiscountsGiven        decimal.Decimal       `json:"discounts_given"`
	RefundsIssued         decimal.Decimal       `json:"refunds_issued"`
	CashWithdrawn         decimal.Decimal       `json:"cash_withdrawn"`
	CashAtHand            decimal.Decimal       `json:"cash_at_hand"`
	Status                reconciliation.Status `json:"status"`
	Notes                 string                `json:"notes,omitempty"`
	CreatedBy             uuid.UUID             `json:"created_by"`
	RetiredBy             *uuid.UUID            `json:"retired_by,omitempty"`
	RetiredAt             *time.Time            `json:"retired_at,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	figuresResponse
}

func toFigures(f reconciliation.Figures) figuresResponse {
	return figuresResponse{
		TurnOver:               f.TurnOver,
		ExpectedClosingBalance: f.ExpectedClosingBalance,
		OverageShortage:        f.OverageShortage,
		VarianceCategory:       f.VarianceCategory,
	}
}

func toResponse(rec *reconciliation.Reconciliation) reconciliationResponse {
	return reconciliationResponse{
		ID:                    rec.ID,
		SerialNumber:          rec.SerialNumber,
		CashierID:             rec.CashierID,
		CashierName:           rec.CashierName,
		BranchID:              rec.BranchID,
		Date:                  rec.Date.Format(time.DateOnly),
		ActualOpeningBalance:  rec.ActualOpeningBalance,
		TotalSales:            rec.TotalSales,
		POSTransactionsAmount: rec.POSTransactionsAmount,
		CashTransaction:       rec.CashTransaction,
		TransfersIn:           rec.TransfersIn,
		TransfersOut:          rec.TransfersOut,
		DiscountsGiven:        rec.DiscountsGiven,
		RefundsIssued:         rec.RefundsIssued,
		CashWithdrawn:         rec.CashWithdrawn,
		CashAtHand:            rec.CashAtHand,
		Status:                rec.Status,
		Notes:                 rec.Notes,
		CreatedBy:             rec.CreatedBy,
		RetiredBy:             rec.RetiredBy,
		RetiredAt:             rec.RetiredAt,
		CreatedAt:             rec.CreatedAt,
		figuresResponse:       toFigures(rec.Figures),
	}
}

func toResponseList(recs []*reconciliation.Reconciliation) []reconciliationResponse {
	resp := make([]reconciliationResponse, len(recs))
	for i, rec := range recs {
		resp[i] = toResponse(rec)
	}

	return resp
}
