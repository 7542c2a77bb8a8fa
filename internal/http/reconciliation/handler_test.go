package reconciliation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	recHandler "github.com/MrJamesThe3rd/findules/internal/http/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type recorder struct {
	entries []audit.Entry
}

func (r *recorder) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

type fixture struct {
	repo     *reconciliation.MockRepository
	cashiers *reconciliation.MockCashierResolver
	audit    *recorder
	router   chi.Router
}

func newFixture(t *testing.T, caller auth.Identity) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     reconciliation.NewMockRepository(ctrl),
		cashiers: reconciliation.NewMockCashierResolver(ctrl),
		audit:    &recorder{},
		router:   chi.NewRouter(),
	}

	h := recHandler.NewHandler(reconciliation.NewService(f.repo, f.cashiers), f.audit)

	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
		})
	})
	f.router.Route("/reconciliations", h.Routes)

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

const exampleInput = `"actual_opening_balance":"10000","total_sales":"50000","pos_transactions_amount":"20000",` +
	`"cash_transaction":"7000","discounts_given":"1000","refunds_issued":"500","cash_withdrawn":"5000","cash_at_hand":"33400"`

func TestHandler_Create(t *testing.T) {
	branchID := uuid.New()
	cashier := &branch.Cashier{ID: uuid.New(), BranchID: branchID, Name: "Bola", Active: true}
	admin := auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &branchID}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, admin)

		f.cashiers.EXPECT().GetCashier(gomock.Any(), cashier.ID).Return(cashier, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *reconciliation.Reconciliation) error {
				assert.Equal(t, admin.UserID, r.CreatedBy)
				r.ID = uuid.New()
				r.SerialNumber = "REC-2026-03-0001"
				r.CreatedAt = time.Now()

				return nil
			})

		rec := f.do(http.MethodPost, "/reconciliations/",
			`{"cashier_id":"`+cashier.ID.String()+`","date":"2026-03-14",`+exampleInput+`}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

		assert.Equal(t, "REC-2026-03-0001", body["serial_number"])
		assert.Equal(t, "2026-03-14", body["date"])
		assert.Equal(t, "60000", body["turn_over"])
		assert.Equal(t, "33500", body["expected_closing_balance"])
		assert.Equal(t, "-100", body["overage_shortage"])
		assert.Equal(t, string(reconciliation.MajorShortage), body["variance_category"])

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, audit.ModuleReconciliation, f.audit.entries[0].Module)
		assert.Equal(t, "CREATE", f.audit.entries[0].Action)
	})

	t.Run("CashierOfAnotherBranch", func(t *testing.T) {
		f := newFixture(t, admin)

		foreign := &branch.Cashier{ID: uuid.New(), BranchID: uuid.New(), Name: "Tunde", Active: true}
		f.cashiers.EXPECT().GetCashier(gomock.Any(), foreign.ID).Return(foreign, nil)

		rec := f.do(http.MethodPost, "/reconciliations/",
			`{"cashier_id":"`+foreign.ID.String()+`","date":"2026-03-14",`+exampleInput+`}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("MissingFields", func(t *testing.T) {
		f := newFixture(t, admin)

		rec := f.do(http.MethodPost, "/reconciliations/", `{`+exampleInput+`}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		f := newFixture(t, admin)

		rec := f.do(http.MethodPost, "/reconciliations/",
			`{"cashier_id":"`+cashier.ID.String()+`","date":"2026-03-14","total_sales":"-1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Preview(t *testing.T) {
	f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleStaff})

	rec := f.do(http.MethodPost, "/reconciliations/preview", `{`+exampleInput+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "33500", body["expected_closing_balance"])
	assert.Equal(t, string(reconciliation.MajorShortage), body["variance_category"])
}

func TestHandler_Retire(t *testing.T) {
	branchID := uuid.New()
	id := uuid.New()
	stored := func() *reconciliation.Reconciliation {
		return &reconciliation.Reconciliation{ID: id, SerialNumber: "REC-2026-03-0004", BranchID: branchID, Status: reconciliation.StatusActive}
	}

	t.Run("StaffForbidden", func(t *testing.T) {
		f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleStaff, BranchID: &branchID})

		rec := f.do(http.MethodPatch, "/reconciliations/"+id.String()+"/retire", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminOfAnotherBranch", func(t *testing.T) {
		other := uuid.New()
		f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &other})

		f.repo.EXPECT().Get(gomock.Any(), id).Return(stored(), nil)

		rec := f.do(http.MethodPatch, "/reconciliations/"+id.String()+"/retire", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("AlreadyRetired", func(t *testing.T) {
		f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleManager})
		ctrl := gomock.NewController(t)
		tx := reconciliation.NewMockUpdateTx(ctrl)

		retired := stored()
		retired.Status = reconciliation.StatusRetired

		f.repo.EXPECT().Get(gomock.Any(), id).Return(retired, nil)
		f.repo.EXPECT().BeginUpdate(gomock.Any(), id).Return(tx, nil)
		tx.EXPECT().Load(gomock.Any()).Return(retired, nil)
		tx.EXPECT().Rollback().Return(nil)

		rec := f.do(http.MethodPatch, "/reconciliations/"+id.String()+"/retire", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_List_ScopesNonManagers(t *testing.T) {
	own := uuid.New()
	f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleStaff, BranchID: &own})

	f.repo.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
			require.NotNil(t, filter.BranchID)
			assert.Equal(t, own, *filter.BranchID)
			require.NotNil(t, filter.StartDate)

			return nil, nil
		})

	rec := f.do(http.MethodGet, "/reconciliations/?branch_id="+uuid.NewString()+"&start_date=2026-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("ManagerDeletes", func(t *testing.T) {
		f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleManager})
		ctrl := gomock.NewController(t)
		tx := reconciliation.NewMockUpdateTx(ctrl)

		f.repo.EXPECT().BeginUpdate(gomock.Any(), id).Return(tx, nil)
		tx.EXPECT().Load(gomock.Any()).Return(&reconciliation.Reconciliation{ID: id, SerialNumber: "REC-2026-03-0002", Status: reconciliation.StatusActive}, nil)
		tx.EXPECT().Delete(gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		rec := f.do(http.MethodDelete, "/reconciliations/"+id.String(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, "REC-2026-03-0002", f.audit.entries[0].Details)
	})

	t.Run("BranchAdminForbidden", func(t *testing.T) {
		branchID := uuid.New()
		f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &branchID})

		rec := f.do(http.MethodDelete, "/reconciliations/"+id.String(), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
