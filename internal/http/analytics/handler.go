package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/analytics"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
}

type varianceResponse struct {
	Count         int                                     `json:"count"`
	ByCategory    map[reconciliation.VarianceCategory]int `json:"by_category"`
	TotalShortage decimal.Decimal                         `json:"total_shortage"`
	TotalOverage  decimal.Decimal                         `json:"total_overage"`
	NetVariance   decimal.Decimal                         `json:"net_variance"`
	TotalSales    decimal.Decimal                         `json:"total_sales"`
}

type dayResponse struct {
	Date        string          `json:"date"`
	Count       int             `json:"count"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	NetVariance decimal.Decimal `json:"net_variance"`
}

type imprestResponse struct {
	Count        int                        `json:"count"`
	TotalIssued  decimal.Decimal            `json:"total_issued"`
	TotalSpent   decimal.Decimal            `json:"total_spent"`
	TotalBalance decimal.Decimal            `json:"total_balance"`
	Outstanding  decimal.Decimal            `json:"outstanding"`
	IssuedCount  int                        `json:"issued_count"`
	RetiredCount int                        `json:"retired_count"`
	OverdueCount int                        `json:"overdue_count"`
	ByCategory   map[string]decimal.Decimal `json:"by_category"`
}

type overviewResponse struct {
	Variance varianceResponse `json:"variance"`
	Trend    []dayResponse    `json:"trend"`
	Imprests imprestResponse  `json:"imprests"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	var (
		filter analytics.Filter
		err    error
	)

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

	ov, err := h.svc.Overview(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	trend := make([]dayResponse, len(ov.Trend))
	for i, p := range ov.Trend {
		trend[i] = dayResponse{
			Date:        p.Date.Format("2006-01-02"),
			Count:       p.Count,
			TotalSales:  p.TotalSales,
			NetVariance: p.NetVariance,
		}
	}

	respond.JSON(w, http.StatusOK, overviewResponse{
		Variance: varianceResponse{
			Count:         ov.Variance.Count,
			ByCategory:    ov.Variance.ByCategory,
			TotalShortage: ov.Variance.TotalShortage,
			TotalOverage:  ov.Variance.TotalOverage,
			NetVariance:   ov.Variance.NetVariance,
			TotalSales:    ov.Variance.TotalSales,
		},
		Trend: trend,
		Imprests: imprestResponse{
			Count:        ov.Imprests.Count,
			TotalIssued:  ov.Imprests.TotalIssued,
			TotalSpent:   ov.Imprests.TotalSpent,
			TotalBalance: ov.Imprests.TotalBalance,
			Outstanding:  ov.Imprests.Outstanding,
			IssuedCount:  ov.Imprests.IssuedCount,
			RetiredCount: ov.Imprests.RetiredCount,
			OverdueCount: ov.Imprests.OverdueCount,
			ByCategory:   ov.Imprests.ByCategory,
		},
	})
}
