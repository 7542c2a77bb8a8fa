package imprest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/imprest"
)

type imprestResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"imprest_number"`
	BranchID        *uuid.UUID          `json:"branch_id,omitempty"`
	StaffName       string              `json:"staff_name"`
	Amount          decimal.Decimal     `json:"amount"`
	Category        string              `json:"category"`
	Purpose         string              `json:"purpose"`
	DateIssued      string              `json:"date_issued"`
	Status          imprest.Status      `json:"status"`
	AmountSpent     decimal.NullDecimal `json:"amount_spent"`
	Balance         decimal.NullDecimal `json:"balance"`
	DateRetired     *time.Time          `json:"date_retired,omitempty"`
	Receipts        string              `json:"receipts,omitempty"`
	RetirementNotes string              `json:"retirement_notes,omitempty"`
	IssuedBy        uuid.UUID           `json:"issued_by"`
	RetiredBy       *uuid.UUID          `json:"retired_by,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toResponse(im *imprest.Imprest) imprestResponse {
	return imprestResponse{
		ID:              im.ID,
		Number:          im.Number,
		BranchID:        im.BranchID,
		StaffName:       im.StaffName,
		Amount:          im.Amount,
		Category:        im.Category,
		Purpose:         im.Purpose,
		DateIssued:      im.DateIssued.Format(time.DateOnly),
		Status:          im.Status,
		AmountSpent:     im.AmountSpent,
		Balance:         im.Balance,
		DateRetired:     im.DateRetired,
		Receipts:        im.Receipts,
		RetirementNotes: im.RetirementNotes,
		IssuedBy:        im.IssuedBy,
		RetiredBy:       im.RetiredBy,
		CreatedAt:       im.CreatedAt,
		UpdatedAt:       im.UpdatedAt,
	}
}

func toResponseList(imps []*imprest.Imprest) []imprestResponse {
	resp := make([]imprestResponse, len(imps))
	for i, im := range imps {
		resp[i] = toResponse(im)
	}

	return resp
}
