package category

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/category"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc   *category.Service
	audit guard.Auditor
}

func NewHandler(svc *category.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.With(guard.RequireRole(user.RoleManager)).Post("/", h.create)
}

type ruleResponse struct {
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type suggestResponse struct {
	Category string `json:"category"`
	Matched  bool   `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Suggest(r.Context(), r.URL.Query().Get("purpose"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Category: c, Matched: c != ""})
}

type createRequest struct {
	Pattern  string `json:"pattern" validate:"required"`
	Category string `json:"category" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rule, err := h.svc.Learn(r.Context(), req.Pattern, req.Category)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleCategory, "CREATE", rule.Pattern+" -> "+rule.Category))

	respond.JSON(w, http.StatusCreated, ruleResponse{Pattern: rule.Pattern, Category: rule.Category, CreatedAt: rule.CreatedAt})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = ruleResponse{Pattern: rule.Pattern, Category: rule.Category, CreatedAt: rule.CreatedAt}
	}

	respond.JSON(w, http.StatusOK, resp)
}
