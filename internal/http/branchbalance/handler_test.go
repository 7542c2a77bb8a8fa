package branchbalance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
	bbHandler "github.com/MrJamesThe3rd/findules/internal/http/branchbalance"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type recorder struct {
	entries []audit.Entry
}

func (r *recorder) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

type fixture struct {
	ctrl     *gomock.Controller
	repo     *branchbalance.MockRepository
	branches *branchbalance.MockBranchLookup
	audit    *recorder
	router   chi.Router
}

func newFixture(t *testing.T, caller auth.Identity) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		ctrl:     ctrl,
		repo:     branchbalance.NewMockRepository(ctrl),
		branches: branchbalance.NewMockBranchLookup(ctrl),
		audit:    &recorder{},
		router:   chi.NewRouter(),
	}

	h := bbHandler.NewHandler(branchbalance.NewService(f.repo, f.branches), f.audit)

	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
		})
	})
	f.router.Route("/branch-balances", h.Routes)

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_TopUp(t *testing.T) {
	br := &branch.Branch{ID: uuid.New(), Code: "LOS", Name: "Lagos"}
	manager := auth.Identity{UserID: uuid.New(), Role: user.RoleManager}

	t.Run("OpensBalance", func(t *testing.T) {
		f := newFixture(t, manager)
		tx := branchbalance.NewMockTopUpTx(f.ctrl)

		f.branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
		f.repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
		tx.EXPECT().Current(gomock.Any()).Return(nil, nil)
		tx.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		rec := f.do(http.MethodPost, "/branch-balances/"+br.ID.String()+"/top-up", `{"amount":"5000","notes":"float"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var body struct {
			Balance struct {
				CurrentBalance string `json:"current_balance"`
				OpeningBalance string `json:"opening_balance"`
				BranchName     string `json:"branch_name"`
			} `json:"balance"`
			Transaction struct {
				Type          string `json:"transaction_type"`
				BalanceBefore string `json:"balance_before"`
				BalanceAfter  string `json:"balance_after"`
			} `json:"transaction"`
			Created bool `json:"created"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

		assert.True(t, body.Created)
		assert.Equal(t, "5000", body.Balance.CurrentBalance)
		assert.Equal(t, "5000", body.Balance.OpeningBalance)
		assert.Equal(t, "Lagos", body.Balance.BranchName)
		assert.Equal(t, string(branchbalance.TypeOpeningBalance), body.Transaction.Type)
		assert.Equal(t, "0", body.Transaction.BalanceBefore)
		assert.Equal(t, "5000", body.Transaction.BalanceAfter)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, audit.ModuleBranchBalance, f.audit.entries[0].Module)
	})

	t.Run("ExistingBalance", func(t *testing.T) {
		f := newFixture(t, manager)
		tx := branchbalance.NewMockTopUpTx(f.ctrl)

		f.branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
		f.repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
		tx.EXPECT().Current(gomock.Any()).Return(&branchbalance.Balance{
			ID: uuid.New(), BranchID: br.ID, OpeningBalance: decimal.NewFromInt(5000), CurrentBalance: decimal.NewFromInt(5000),
		}, nil)
		tx.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		rec := f.do(http.MethodPost, "/branch-balances/"+br.ID.String()+"/top-up", `{"amount":"2000"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"current_balance":"7000"`)
		assert.Contains(t, rec.Body.String(), `"transaction_type":"TOP_UP"`)
	})

	t.Run("ZeroTopUpRejected", func(t *testing.T) {
		f := newFixture(t, manager)
		tx := branchbalance.NewMockTopUpTx(f.ctrl)

		f.branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
		f.repo.EXPECT().BeginTopUp(gomock.Any(), br.ID).Return(tx, nil)
		tx.EXPECT().Current(gomock.Any()).Return(&branchbalance.Balance{ID: uuid.New(), BranchID: br.ID}, nil)
		tx.EXPECT().Rollback().Return(nil)

		rec := f.do(http.MethodPost, "/branch-balances/"+br.ID.String()+"/top-up", `{"amount":"0"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BranchAdminForbidden", func(t *testing.T) {
		f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &br.ID})

		rec := f.do(http.MethodPost, "/branch-balances/"+br.ID.String()+"/top-up", `{"amount":"10"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_List_FiltersByBranch(t *testing.T) {
	own := uuid.New()
	f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &own})

	f.repo.EXPECT().ListBalances(gomock.Any()).Return([]*branchbalance.Balance{
		{ID: uuid.New(), BranchID: own, BranchName: "Lagos"},
		{ID: uuid.New(), BranchID: uuid.New(), BranchName: "Abuja"},
	}, nil)

	rec := f.do(http.MethodGet, "/branch-balances/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Lagos", body[0]["branch_name"])
}

func TestHandler_Get_OtherBranchForbidden(t *testing.T) {
	own := uuid.New()
	f := newFixture(t, auth.Identity{UserID: uuid.New(), Role: user.RoleStaff, BranchID: &own})

	rec := f.do(http.MethodGet, "/branch-balances/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
