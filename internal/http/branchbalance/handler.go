package branchbalance

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc   *branchbalance.Service
	audit guard.Auditor
}

func NewHandler(svc *branchbalance.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{branchID}", h.get)
	r.Get("/{branchID}/transactions", h.history)
	r.With(guard.RequireRole(user.RoleManager)).Post("/{branchID}/top-up", h.topUp)
}

type balanceResponse struct {
	ID             uuid.UUID       `json:"id"`
	BranchID       uuid.UUID       `json:"branch_id"`
	BranchName     string          `json:"branch_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalIssued    decimal.Decimal `json:"total_issued"`
	TotalRetired   decimal.Decimal `json:"total_retired"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type transactionResponse struct {
	ID            uuid.UUID                     `json:"id"`
	Type          branchbalance.TransactionType `json:"transaction_type"`
	Amount        decimal.Decimal               `json:"amount"`
	BalanceBefore decimal.Decimal               `json:"balance_before"`
	BalanceAfter  decimal.Decimal               `json:"balance_after"`
	PerformedBy   uuid.UUID                     `json:"performed_by"`
	Notes         string                        `json:"notes,omitempty"`
	CreatedAt     time.Time                     `json:"created_at"`
}

type topUpResponse struct {
	Balance     balanceResponse     `json:"balance"`
	Transaction transactionResponse `json:"transaction"`
	Created     bool                `json:"created"`
}

func toBalance(b *branchbalance.Balance) balanceResponse {
	return balanceResponse{
		ID:             b.ID,
		BranchID:       b.BranchID,
		BranchName:     b.BranchName,
		OpeningBalance: b.OpeningBalance,
		CurrentBalance: b.CurrentBalance,
		TotalIssued:    b.TotalIssued,
		TotalRetired:   b.TotalRetired,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toTransaction(t *branchbalance.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Type:          t.Type,
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		PerformedBy:   t.PerformedBy,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	caller := guard.Caller(r)

	resp := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		if guard.CanSee(caller, &b.BranchID) {
			resp = append(resp, toBalance(b))
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) branchID(r *http.Request) (uuid.UUID, error) {
	id, err := respond.ID(r, "branchID")
	if err != nil {
		return uuid.Nil, err
	}

	if !guard.CanSee(guard.Caller(r), &id) {
		return uuid.Nil, apperr.Forbidden("branch %s is outside your scope", id)
	}

	return id, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := h.branchID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBalance(b))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, err := h.branchID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.History(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]transactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = toTransaction(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type topUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

func (h *Handler) topUp(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "branchID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req topUpRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.TopUp(r.Context(), branchbalance.TopUpParams{
		BranchID:    id,
		Amount:      req.Amount,
		PerformedBy: guard.Caller(r).UserID,
		Notes:       req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleBranchBalance, string(res.Transaction.Type),
		fmt.Sprintf("branch %s: %s -> %s", id, res.Transaction.BalanceBefore.StringFixed(2), res.Transaction.BalanceAfter.StringFixed(2))))

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}

	respond.JSON(w, status, topUpResponse{
		Balance:     toBalance(res.Balance),
		Transaction: toTransaction(res.Transaction),
		Created:     res.Created,
	})
}
