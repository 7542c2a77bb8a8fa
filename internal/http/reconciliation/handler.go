package reconciliation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc   *reconciliation.Service
	audit guard.Auditor
}

func NewHandler(svc *reconciliation.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/preview", h.preview)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(guard.RequireRole(user.RoleManager, user.RoleBranchAdmin)).Patch("/{id}/retire", h.retire)
	r.With(guard.RequireRole(user.RoleManager)).Delete("/{id}", h.delete)
}

type inputRequest struct {
	ActualOpeningBalance  decimal.Decimal `json:"actual_opening_balance"`
	TotalSales            decimal.Decimal `json:"total_sales"`
	POSTransactionsAmount decimal.Decimal `json:"pos_transactions_amount"`
	CashTransaction       decimal.Decimal `json:"cash_transaction"`
	TransfersIn           decimal.Decimal `json:"transfers_in"`
	TransfersOut          decimal.Decimal `json:"transfers_out"`
	DiscountsGiven        decimal.Decimal `json:"discounts_given"`
	RefundsIssued         decimal.Decimal `json:"refunds_issued"`
	CashWithdrawn         decimal.Decimal `json:"cash_withdrawn"`
	CashAtHand            decimal.Decimal `json:"cash_at_hand"`
}

func (in inputRequest) toInput() reconciliation.Input {
	return reconciliation.Input{
		ActualOpeningBalance:  in.ActualOpeningBalance,
		TotalSales:            in.TotalSales,
		POSTransactionsAmount: in.POSTransactionsAmount,
		CashTransaction:       in.CashTransaction,
		TransfersIn:           in.TransfersIn,
		TransfersOut:          in.TransfersOut,
		DiscountsGiven:        in.DiscountsGiven,
		RefundsIssued:         in.RefundsIssued,
		CashWithdrawn:         in.CashWithdrawn,
		CashAtHand:            in.CashAtHand,
	}
}

type createRequest struct {
	CashierID uuid.UUID `json:"cashier_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Notes     string    `json:"notes"`
	inputRequest
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid date %q", req.Date))
		return
	}

	caller := guard.Caller(r)

	params := reconciliation.CreateParams{
		CashierID: req.CashierID,
		Date:      date,
		Input:     req.toInput(),
		Notes:     req.Notes,
		CreatedBy: caller.UserID,
	}

	if caller.Role != user.RoleManager {
		if caller.BranchID == nil {
			respond.Error(w, r, apperr.Forbidden("no branch assigned"))
			return
		}

		params.BranchScope = caller.BranchID
	}

	rec, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleReconciliation, "CREATE",
		fmt.Sprintf("%s for %s on %s, variance %s (%s)",
			rec.SerialNumber, rec.CashierName, rec.Date.Format(time.DateOnly),
			rec.OverageShortage.StringFixed(2), rec.VarianceCategory)))

	respond.JSON(w, http.StatusCreated, toResponse(rec))
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	figures, err := h.svc.Preview(req.toInput())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toFigures(figures))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := reconciliation.ListFilter{
		Status:   reconciliation.Status(q.Get("status")),
		Category: reconciliation.VarianceCategory(q.Get("category")),
	}

	var err error

	if filter.BranchID, err = respond.QueryID(r, "branch_id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.CashierID, err = respond.QueryID(r, "cashier_id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.StartDate, err = respond.QueryDate(r, "start_date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.EndDate, err = respond.QueryDate(r, "end_date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.BranchID = guard.Caller(r).ScopeBranch(filter.BranchID)

	recs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(recs))
}

// load fetches the reconciliation named in the URL, hiding other branches'
// records from non-managers.
func (h *Handler) load(r *http.Request) (*reconciliation.Reconciliation, error) {
	id, err := respond.ID(r, "id")
	if err != nil {
		return nil, err
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if !guard.CanSee(guard.Caller(r), &rec.BranchID) {
		return nil, apperr.NotFound("reconciliation %s not found", id)
	}

	return rec, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) retire(w http.ResponseWriter, r *http.Request) {
	rec, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rec, err = h.svc.Retire(r.Context(), rec.ID, guard.Caller(r).UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleReconciliation, "RETIRE", rec.SerialNumber))

	respond.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rec, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleReconciliation, "DELETE", rec.SerialNumber))

	w.WriteHeader(http.StatusNoContent)
}
