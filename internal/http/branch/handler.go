package branch

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc   *branch.Service
	audit guard.Auditor
}

func NewHandler(svc *branch.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

// Routes mounts branches; CashierRoutes mounts cashiers.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.listBranches)
	r.Get("/{id}", h.getBranch)
	r.With(guard.RequireRole(user.RoleManager)).Post("/", h.createBranch)
}

func (h *Handler) CashierRoutes(r chi.Router) {
	r.Get("/", h.listCashiers)
	r.With(guard.RequireRole(user.RoleManager, user.RoleBranchAdmin)).Post("/", h.createCashier)
}

type branchResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type cashierResponse struct {
	ID        uuid.UUID `json:"id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toBranch(b *branch.Branch) branchResponse {
	return branchResponse{ID: b.ID, Code: b.Code, Name: b.Name, CreatedAt: b.CreatedAt}
}

func toCashier(c *branch.Cashier) cashierResponse {
	return cashierResponse{ID: c.ID, BranchID: c.BranchID, Name: c.Name, Active: c.Active, CreatedAt: c.CreatedAt}
}

type createBranchRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createBranch(w http.ResponseWriter, r *http.Request) {
	var req createBranchRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.CreateBranch(r.Context(), req.Code, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleBranches, "CREATE", b.Code+" "+b.Name))

	respond.JSON(w, http.StatusCreated, toBranch(b))
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.svc.ListBranches(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]branchResponse, len(branches))
	for i, b := range branches {
		resp[i] = toBranch(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getBranch(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.GetBranch(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBranch(b))
}

type createCashierRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
	Name     string     `json:"name" validate:"required"`
}

func (h *Handler) createCashier(w http.ResponseWriter, r *http.Request) {
	var req createCashierRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	branchID := guard.Caller(r).ScopeBranch(req.BranchID)
	if branchID == nil {
		respond.Error(w, r, apperr.Validation("branch_id is required"))
		return
	}

	c, err := h.svc.CreateCashier(r.Context(), *branchID, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleBranches, "CREATE_CASHIER", c.Name))

	respond.JSON(w, http.StatusCreated, toCashier(c))
}

func (h *Handler) listCashiers(w http.ResponseWriter, r *http.Request) {
	branchID, err := respond.QueryID(r, "branch_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	cashiers, err := h.svc.ListCashiers(r.Context(), guard.Caller(r).ScopeBranch(branchID))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]cashierResponse, len(cashiers))
	for i, c := range cashiers {
		resp[i] = toCashier(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}
