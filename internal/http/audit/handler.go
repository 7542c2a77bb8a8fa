package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
)

type Handler struct {
	svc *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type entryResponse struct {
	ID        int64      `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Action    string     `json:"action"`
	Module    string     `json:"module"`
	Details   string     `json:"details,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.ListFilter{Module: q.Get("module")}

	var err error

	if filter.UserID, err = respond.QueryID(r, "user_id"); err != nil {
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

	if s := q.Get("limit"); s != "" {
		if filter.Limit, err = strconv.Atoi(s); err != nil {
			respond.Error(w, r, apperr.Validation("invalid limit %q", s))
			return
		}
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = entryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Module:    e.Module,
			Details:   e.Details,
			IPAddress: e.IPAddress,
			CreatedAt: e.CreatedAt,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
