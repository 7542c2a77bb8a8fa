package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/export"
	exportHandler "github.com/MrJamesThe3rd/findules/internal/http/export"
	"github.com/MrJamesThe3rd/findules/internal/imprest"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type recorder struct {
	entries []audit.Entry
}

func (r *recorder) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

type recLister func(ctx context.Context, filter reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error)

func (f recLister) List(ctx context.Context, filter reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
	return f(ctx, filter)
}

type imprestLister func(ctx context.Context, filter imprest.ListFilter) ([]*imprest.Imprest, error)

func (f imprestLister) List(ctx context.Context, filter imprest.ListFilter) ([]*imprest.Imprest, error) {
	return f(ctx, filter)
}

func noImprests(context.Context, imprest.ListFilter) ([]*imprest.Imprest, error) {
	return nil, nil
}

func newRouter(caller auth.Identity, recs recLister, imps imprestLister) (chi.Router, *recorder) {
	rec := &recorder{}
	h := exportHandler.NewHandler(export.NewService(recs, imps), rec)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), caller)))
		})
	})
	r.Route("/export", h.Routes)

	return r, rec
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHandler_Reconciliations(t *testing.T) {
	manager := auth.Identity{UserID: uuid.New(), Role: user.RoleManager}

	t.Run("CSV", func(t *testing.T) {
		router, audits := newRouter(manager, func(_ context.Context, f reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
			require.NotNil(t, f.StartDate)
			assert.Equal(t, "2026-03-01", f.StartDate.Format("2006-01-02"))
			assert.Nil(t, f.BranchID)

			return nil, nil
		}, noImprests)

		rec := get(router, "/export/reconciliations?format=csv&start_date=2026-03-01")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "reconciliations_")
		assert.True(t, strings.HasPrefix(rec.Body.String(), export.HeaderSerial))

		require.Len(t, audits.entries, 1)
		assert.Equal(t, audit.ModuleExport, audits.entries[0].Module)
	})

	t.Run("ScopedToOwnBranch", func(t *testing.T) {
		own := uuid.New()
		admin := auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &own}

		router, _ := newRouter(admin, func(_ context.Context, f reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
			require.NotNil(t, f.BranchID)
			assert.Equal(t, own, *f.BranchID)

			return nil, nil
		}, noImprests)

		rec := get(router, "/export/reconciliations?branch_id="+uuid.NewString())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		router, audits := newRouter(manager, nil, noImprests)

		rec := get(router, "/export/reconciliations?format=doc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, audits.entries)
	})

	t.Run("BadDate", func(t *testing.T) {
		router, _ := newRouter(manager, nil, noImprests)

		rec := get(router, "/export/reconciliations?end_date=14-03-2026")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListerFails", func(t *testing.T) {
		router, _ := newRouter(manager, func(context.Context, reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
			return nil, errors.New("connection reset")
		}, noImprests)

		rec := get(router, "/export/reconciliations")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestHandler_Bundle(t *testing.T) {
	manager := auth.Identity{UserID: uuid.New(), Role: user.RoleManager}

	router, audits := newRouter(manager, func(context.Context, reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
		return nil, nil
	}, noImprests)

	rec := get(router, "/export/bundle")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Contains(t, names, "summary.txt")
	require.Len(t, audits.entries, 1)
	assert.Equal(t, "bundle", audits.entries[0].Details)
}
