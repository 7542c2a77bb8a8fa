// Package guard holds the authentication, authorisation and rate limiting
// middleware of the API.
package guard

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
	"github.com/MrJamesThe3rd/findules/internal/ratelimit"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// Authenticate requires a valid bearer token and stores the caller's
// identity in the request context.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, r, apperr.Unauthorized("missing bearer token"))
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole lets through callers holding any of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				respond.Error(w, r, apperr.Unauthorized("not authenticated"))
				return
			}

			if !id.HasRole(roles...) {
				respond.Error(w, r, apperr.Forbidden("insufficient role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects callers that exceed l, keyed by client IP.
func RateLimit(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := l.Allow(r.Context(), ClientIP(r))
			if !d.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
				respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts, try again later"})

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already applied any forwarding headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// Caller returns the identity Authenticate stored.
func Caller(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// CanSee reports whether the caller may read a record owned by branchID.
func CanSee(id auth.Identity, branchID *uuid.UUID) bool {
	if id.Role == user.RoleManager {
		return true
	}

	return id.BranchID != nil && branchID != nil && *id.BranchID == *branchID
}

// Auditor records entries in the audit trail.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Entry builds an audit entry for the caller of r.
func Entry(r *http.Request, module, action, details string) audit.Entry {
	e := audit.Entry{
		Action:    action,
		Module:    module,
		Details:   details,
		IPAddress: ClientIP(r),
	}

	if id, ok := auth.FromContext(r.Context()); ok {
		e.UserID = &id.UserID
	}

	return e
}
