package user

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	svc   *user.Service
	audit guard.Auditor
}

func NewHandler(svc *user.Service, auditor guard.Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Use(guard.RequireRole(user.RoleManager))
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type Response struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	Role      user.Role  `json:"role"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToResponse(u *user.User) Response {
	return Response{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt,
	}
}

type createRequest struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	FullName string     `json:"full_name" validate:"required"`
	Role     user.Role  `json:"role" validate:"required,oneof=MANAGER BRANCH_ADMIN STAFF"`
	BranchID *uuid.UUID `json:"branch_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.svc.Create(r.Context(), user.CreateParams{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		BranchID: req.BranchID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleUsers, "CREATE", u.Username+" as "+string(u.Role)))

	respond.JSON(w, http.StatusCreated, ToResponse(u))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]Response, len(users))
	for i, u := range users {
		resp[i] = ToResponse(u)
	}

	respond.JSON(w, http.StatusOK, resp)
}
