package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/findules/internal/http/analytics"
	"github.com/MrJamesThe3rd/findules/internal/http/audit"
	"github.com/MrJamesThe3rd/findules/internal/http/auth"
	"github.com/MrJamesThe3rd/findules/internal/http/branch"
	"github.com/MrJamesThe3rd/findules/internal/http/branchbalance"
	"github.com/MrJamesThe3rd/findules/internal/http/category"
	"github.com/MrJamesThe3rd/findules/internal/http/export"
	"github.com/MrJamesThe3rd/findules/internal/http/fuelcoupon"
	"github.com/MrJamesThe3rd/findules/internal/http/guard"
	"github.com/MrJamesThe3rd/findules/internal/http/importcsv"
	"github.com/MrJamesThe3rd/findules/internal/http/imprest"
	"github.com/MrJamesThe3rd/findules/internal/http/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/http/user"
	domainUser "github.com/MrJamesThe3rd/findules/internal/user"
)

type Handlers struct {
	Auth            *auth.Handler
	Users           *user.Handler
	Branches        *branch.Handler
	BranchBalances  *branchbalance.Handler
	Reconciliations *reconciliation.Handler
	Imprests        *imprest.Handler
	Categories      *category.Handler
	FuelCoupons     *fuelcoupon.Handler
	Audit           *audit.Handler
	Analytics       *analytics.Handler
	Export          *export.Handler
	Import          *importcsv.Handler
}

func New(h Handlers, verifier guard.Verifier, corsOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate(verifier))

			r.Route("/users", h.Users.Routes)
			r.Route("/branches", h.Branches.Routes)
			r.Route("/cashiers", h.Branches.CashierRoutes)
			r.Route("/branch-balances", h.BranchBalances.Routes)
			r.Route("/reconciliations", h.Reconciliations.Routes)
			r.Route("/imprests", h.Imprests.Routes)
			r.Route("/categories", h.Categories.Routes)
			r.Route("/fuel-coupons", h.FuelCoupons.Routes)

			r.Route("/audit-logs", func(r chi.Router) {
				r.Use(guard.RequireRole(domainUser.RoleManager))
				h.Audit.Routes(r)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Use(guard.RequireRole(domainUser.RoleManager, domainUser.RoleBranchAdmin))
				h.Analytics.Routes(r)
			})

			r.Route("/export", func(r chi.Router) {
				r.Use(guard.RequireRole(domainUser.RoleManager, domainUser.RoleBranchAdmin))
				h.Export.Routes(r)
			})

			r.Route("/import", h.Import.Routes)
		})
	})

	return router
}
