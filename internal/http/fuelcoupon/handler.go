package fuelcoupon

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/export"
	"github.com/MrJamesThe3rd/findules/internal/fuelcoupon"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc     *fuelcoupon.Service
	audit   guard.Auditor
	orgName string
}

func NewHandler(svc *fuelcoupon.Service, auditor guard.Auditor, orgName string) *Handler {
	return &Handler{svc: svc, audit: auditor, orgName: orgName}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(guard.RequireRole(user.RoleManager, user.RoleBranchAdmin)).Post("/", h.generate)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/pdf", h.pdf)
}

type couponResponse struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"coupon_number"`
	BranchID      uuid.UUID           `json:"branch_id"`
	BranchName    string              `json:"branch_name"`
	VehicleNumber string              `json:"vehicle_number"`
	DriverName    string              `json:"driver_name"`
	FuelType      fuelcoupon.FuelType `json:"fuel_type"`
	Litres        decimal.Decimal     `json:"litres"`
	PricePerLitre decimal.Decimal     `json:"price_per_litre"`
	Amount        decimal.Decimal     `json:"amount"`
	IssueDate     string              `json:"issue_date"`
	IssuedBy      uuid.UUID           `json:"issued_by"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toResponse(c *fuelcoupon.Coupon) couponResponse {
	return couponResponse{
		ID:            c.ID,
		Number:        c.Number,
		BranchID:      c.BranchID,
		BranchName:    c.BranchName,
		VehicleNumber: c.VehicleNumber,
		DriverName:    c.DriverName,
		FuelType:      c.FuelType,
		Litres:        c.Litres,
		PricePerLitre: c.PricePerLitre,
		Amount:        c.Amount,
		IssueDate:     c.IssueDate.Format(time.DateOnly),
		IssuedBy:      c.IssuedBy,
		CreatedAt:     c.CreatedAt,
	}
}

type generateRequest struct {
	BranchID      *uuid.UUID          `json:"branch_id"`
	VehicleNumber string              `json:"vehicle_number" validate:"required"`
	DriverName    string              `json:"driver_name" validate:"required"`
	FuelType      fuelcoupon.FuelType `json:"fuel_type" validate:"required"`
	Litres        decimal.Decimal     `json:"litres"`
	PricePerLitre decimal.Decimal     `json:"price_per_litre"`
	IssueDate     string              `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	caller := guard.Caller(r)

	branchID := caller.ScopeBranch(req.BranchID)
	if branchID == nil {
		respond.Error(w, r, apperr.Validation("branch_id is required"))
		return
	}

	params := fuelcoupon.GenerateParams{
		BranchID:      *branchID,
		VehicleNumber: req.VehicleNumber,
		DriverName:    req.DriverName,
		FuelType:      req.FuelType,
		Litres:        req.Litres,
		PricePerLitre: req.PricePerLitre,
		IssuedBy:      caller.UserID,
	}

	if req.IssueDate != "" {
		t, err := time.Parse(time.DateOnly, req.IssueDate)
		if err != nil {
			respond.Error(w, r, apperr.Validation("invalid issue_date %q", req.IssueDate))
			return
		}

		params.IssueDate = t
	}

	c, err := h.svc.Generate(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleFuelCoupon, "GENERATE",
		fmt.Sprintf("%s: %s L %s for %s", c.Number, c.Litres.String(), c.FuelType, c.VehicleNumber)))

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := fuelcoupon.ListFilter{
		FuelType: fuelcoupon.FuelType(r.URL.Query().Get("fuel_type")),
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

	coupons, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]couponResponse, len(coupons))
	for i, c := range coupons {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) load(r *http.Request) (*fuelcoupon.Coupon, error) {
	id, err := respond.ID(r, "id")
	if err != nil {
		return nil, err
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if !guard.CanSee(guard.Caller(r), &c.BranchID) {
		return nil, apperr.NotFound("fuel coupon %s not found", id)
	}

	return c, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	c, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCouponPDF(&buf, c, h.orgName); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Attachment(w, export.FormatPDF.ContentType(), c.Number+".pdf")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write coupon pdf", "error", err)
	}
}
