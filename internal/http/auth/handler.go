package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	userHandler "github.com/MrJamesThe3rd/findules/internal/http/user"
	"github.com/MrJamesThe3rd/findules/internal/ratelimit"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Handler struct {
	users   *user.Service
	issuer  *auth.Issuer
	limiter *ratelimit.Limiter
	audit   guard.Auditor
}

func NewHandler(users *user.Service, issuer *auth.Issuer, limiter *ratelimit.Limiter, auditor guard.Auditor) *Handler {
	return &Handler{users: users, issuer: issuer, limiter: limiter, audit: auditor}
}

// Routes is mounted outside the authenticated group; only /me checks the token.
func (h *Handler) Routes(r chi.Router) {
	r.With(guard.RateLimit(h.limiter)).Post("/login", h.login)
	r.With(guard.Authenticate(h.issuer)).Get("/me", h.me)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      userHandler.Response `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			h.audit.Record(r.Context(), guard.Entry(r, audit.ModuleAuth, "LOGIN_FAILED", req.Username))
		}

		respond.Error(w, r, err)

		return
	}

	token, exp, err := h.issuer.Issue(u)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	entry := guard.Entry(r, audit.ModuleAuth, "LOGIN", u.Username)
	entry.UserID = &u.ID
	h.audit.Record(r.Context(), entry)

	respond.JSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp, User: userHandler.ToResponse(u)})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), guard.Caller(r).UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, userHandler.ToResponse(u))
}
