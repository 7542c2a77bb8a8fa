package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/findules/internal/analytics"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	auditStore "github.com/MrJamesThe3rd/findules/internal/audit/store"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	branchStore "github.com/MrJamesThe3rd/findules/internal/branch/store"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
	balanceStore "github.com/MrJamesThe3rd/findules/internal/branchbalance/store"
	"github.com/MrJamesThe3rd/findules/internal/category"
	categoryStore "github.com/MrJamesThe3rd/findules/internal/category/store"
	"github.com/MrJamesThe3rd/findules/internal/config"
	"github.com/MrJamesThe3rd/findules/internal/database"
	"github.com/MrJamesThe3rd/findules/internal/export"
	"github.com/MrJamesThe3rd/findules/internal/fuelcoupon"
	couponStore "github.com/MrJamesThe3rd/findules/internal/fuelcoupon/store"
	findulesHttp "github.com/MrJamesThe3rd/findules/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/findules/internal/http/analytics"
	auditHandler "github.com/MrJamesThe3rd/findules/internal/http/audit"
	authHandler "github.com/MrJamesThe3rd/findules/internal/http/auth"
	branchHandler "github.com/MrJamesThe3rd/findules/internal/http/branch"
	balanceHandler "github.com/MrJamesThe3rd/findules/internal/http/branchbalance"
	categoryHandler "github.com/MrJamesThe3rd/findules/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/findules/internal/http/export"
	couponHandler "github.com/MrJamesThe3rd/findules/internal/http/fuelcoupon"
	importHandler "github.com/MrJamesThe3rd/findules/internal/http/importcsv"
	imprestHandler "github.com/MrJamesThe3rd/findules/internal/http/imprest"
	recHandler "github.com/MrJamesThe3rd/findules/internal/http/reconciliation"
	userHandler "github.com/MrJamesThe3rd/findules/internal/http/user"
	"github.com/MrJamesThe3rd/findules/internal/importer"
	"github.com/MrJamesThe3rd/findules/internal/imprest"
	imprestStore "github.com/MrJamesThe3rd/findules/internal/imprest/store"
	"github.com/MrJamesThe3rd/findules/internal/ratelimit"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	recStore "github.com/MrJamesThe3rd/findules/internal/reconciliation/store"
	"github.com/MrJamesThe3rd/findules/internal/user"
	userStore "github.com/MrJamesThe3rd/findules/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var counter ratelimit.Counter

	rdb, err := ratelimit.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	switch {
	case err != nil:
		slog.Warn("redis unavailable, login rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
	case rdb != nil:
		defer rdb.Close()

		counter = rdb
	}

	var (
		auditService    = audit.NewService(auditStore.New(db))
		userService     = user.NewService(userStore.New(db))
		branchService   = branch.NewService(branchStore.New(db))
		balanceService  = branchbalance.NewService(balanceStore.New(db), branchService)
		recService      = reconciliation.NewService(recStore.New(db), branchService)
		categoryService = category.NewService(categoryStore.New(db))
		imprestService  = imprest.NewService(imprestStore.New(db), categoryService, cfg.Imprest.OverdueAfter)
		couponService   = fuelcoupon.NewService(couponStore.New(db), branchService)
		analyticsSvc    = analytics.NewService(recService, imprestService)
		exportService   = export.NewService(recService, imprestService)
		importService   = importer.NewService(recService)
		issuer          = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TTL)
		loginLimiter    = ratelimit.New(counter, "login", cfg.RateLimit.Login, cfg.RateLimit.Window)
	)

	if err := ensureManager(ctx, userService, cfg); err != nil {
		slog.Error("failed to bootstrap manager account", "error", err)
		os.Exit(1)
	}

	router := findulesHttp.New(findulesHttp.Handlers{
		Auth:            authHandler.NewHandler(userService, issuer, loginLimiter, auditService),
		Users:           userHandler.NewHandler(userService, auditService),
		Branches:        branchHandler.NewHandler(branchService, auditService),
		BranchBalances:  balanceHandler.NewHandler(balanceService, auditService),
		Reconciliations: recHandler.NewHandler(recService, auditService),
		Imprests:        imprestHandler.NewHandler(imprestService, auditService),
		Categories:      categoryHandler.NewHandler(categoryService, auditService),
		FuelCoupons:     couponHandler.NewHandler(couponService, auditService, cfg.App.Name),
		Audit:           auditHandler.NewHandler(auditService),
		Analytics:       analyticsHandler.NewHandler(analyticsSvc),
		Export:          exportHandler.NewHandler(exportService, auditService),
		Import:          importHandler.NewHandler(importService, auditService),
	}, issuer, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// ensureManager creates the bootstrap manager on an empty database.
func ensureManager(ctx context.Context, users *user.Service, cfg *config.Config) error {
	existing, err := users.List(ctx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return nil
	}

	if cfg.Bootstrap.Password == "" {
		slog.Warn("no users exist; set BOOTSTRAP_PASSWORD to create the first manager")
		return nil
	}

	u, err := users.Create(ctx, user.CreateParams{
		Username: cfg.Bootstrap.Username,
		Password: cfg.Bootstrap.Password,
		FullName: "Administrator",
		Role:     user.RoleManager,
	})
	if err != nil {
		return err
	}

	slog.Info("created bootstrap manager", "username", u.Username)

	return nil
}
