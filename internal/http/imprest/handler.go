package imprest

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
	"github.com/MrJamesThe3rd/findules/internal/imprest"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc   *imprest.Service
	audit guard.Auditor
}

func NewHandler(svc *imprest.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(guard.RequireRole(user.RoleManager, user.RoleBranchAdmin)).Post("/", h.issue)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/retire", h.retire)
	r.With(guard.RequireRole(user.RoleManager)).Delete("/{id}", h.delete)
}

type issueRequest struct {
	BranchID   *uuid.UUID      `json:"branch_id"`
	StaffName  string          `json:"staff_name" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Purpose    string          `json:"purpose" validate:"required"`
	DateIssued string          `json:"date_issued" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	caller := guard.Caller(r)

	params := imprest.IssueParams{
		BranchID:  req.BranchID,
		StaffName: req.StaffName,
		Amount:    req.Amount,
		Category:  req.Category,
		Purpose:   req.Purpose,
		IssuedBy:  caller.UserID,
	}

	if caller.Role != user.RoleManager {
		params.BranchID = caller.BranchID
	}

	if req.DateIssued != "" {
		t, err := time.Parse(time.DateOnly, req.DateIssued)
		if err != nil {
			respond.Error(w, r, apperr.Validation("invalid date_issued %q", req.DateIssued))
			return
		}

		params.DateIssued = t
	}

	im, err := h.svc.Issue(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleImprest, "ISSUE",
		fmt.Sprintf("%s: %s to %s for %s", im.Number, im.Amount.StringFixed(2), im.StaffName, im.Category)))

	respond.JSON(w, http.StatusCreated, toResponse(im))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := imprest.ListFilter{
		Status:    imprest.Status(q.Get("status")),
		Category:  q.Get("category"),
		StaffName: q.Get("staff_name"),
	}

	var err error

	if filter.BranchID, err = respond.QueryID(r, "branch_id"); err != nil {
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

	imps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(imps))
}

func (h *Handler) load(r *http.Request) (*imprest.Imprest, error) {
	id, err := respond.ID(r, "id")
	if err != nil {
		return nil, err
	}

	im, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if !guard.CanSee(guard.Caller(r), im.BranchID) {
		return nil, apperr.NotFound("imprest %s not found", id)
	}

	return im, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	im, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(im))
}

type retireRequest struct {
	AmountSpent *decimal.Decimal `json:"amount_spent"`
	DateRetired *time.Time       `json:"date_retired"`
	Receipts    string           `json:"receipts"`
	Notes       string           `json:"retirement_notes"`
}

func (h *Handler) retire(w http.ResponseWriter, r *http.Request) {
	var req retireRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	// Retirement is final, so a missing amount is never read as zero.
	if req.AmountSpent == nil {
		respond.Error(w, r, apperr.Validation("amount_spent is required"))
		return
	}

	im, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	im, err = h.svc.Retire(r.Context(), im.ID, imprest.RetireParams{
		AmountSpent: *req.AmountSpent,
		DateRetired: req.DateRetired,
		Receipts:    req.Receipts,
		Notes:       req.Notes,
		RetiredBy:   guard.Caller(r).UserID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleImprest, "RETIRE",
		fmt.Sprintf("%s: spent %s, balance %s", im.Number, im.AmountSpent.Decimal.StringFixed(2), im.Balance.Decimal.StringFixed(2))))

	respond.JSON(w, http.StatusOK, toResponse(im))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	im, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleImprest, "DELETE", im.Number))

	w.WriteHeader(http.StatusNoContent)
}
