package reconciliation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

func TestService_Create(t *testing.T) {
	branchID := uuid.New()
	cashier := &branch.Cashier{ID: uuid.New(), BranchID: branchID, Name: "Bola", Active: true}
	date := time.Date(2026, 3, 14, 17, 30, 0, 0, time.UTC)
	otherBranch := uuid.New()

	type testCase struct {
		name      string
		params    reconciliation.CreateParams
		setupMock func(repo *reconciliation.MockRepository, cashiers *reconciliation.MockCashierResolver)
		wantKind  apperr.Kind
	}

	tests := []testCase{
		{
			name:   "Success",
			params: reconciliation.CreateParams{CashierID: cashier.ID, Date: date, Input: sampleInput(), CreatedBy: uuid.New()},
			setupMock: func(repo *reconciliation.MockRepository, cashiers *reconciliation.MockCashierResolver) {
				cashiers.EXPECT().GetCashier(gomock.Any(), cashier.ID).Return(cashier, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *reconciliation.Reconciliation) error {
						assert.Equal(t, branchID, r.BranchID)
						assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), r.Date)
						assert.Equal(t, reconciliation.StatusActive, r.Status)
						assert.True(t, r.ExpectedClosingBalance.Equal(d("33500")))
						r.SerialNumber = "REC-2026-03-0001"
						return nil
					})
			},
		},
		{
			name:     "MissingCashier",
			params:   reconciliation.CreateParams{Date: date, Input: sampleInput()},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "MissingDate",
			params:   reconciliation.CreateParams{CashierID: cashier.ID, Input: sampleInput()},
			wantKind: apperr.KindValidation,
		},
		{
			name: "NegativeInput",
			params: reconciliation.CreateParams{
				CashierID: cashier.ID, Date: date, Input: reconciliation.Input{TotalSales: d("-5")},
			},
			wantKind: apperr.KindValidation,
		},
		{
			name:   "UnknownCashierIsValidation",
			params: reconciliation.CreateParams{CashierID: cashier.ID, Date: date, Input: sampleInput()},
			setupMock: func(_ *reconciliation.MockRepository, cashiers *reconciliation.MockCashierResolver) {
				cashiers.EXPECT().GetCashier(gomock.Any(), cashier.ID).Return(nil, apperr.NotFound("cashier not found"))
			},
			wantKind: apperr.KindValidation,
		},
		{
			name: "OtherBranch",
			params: reconciliation.CreateParams{
				CashierID: cashier.ID, Date: date, Input: sampleInput(), BranchScope: &otherBranch,
			},
			setupMock: func(_ *reconciliation.MockRepository, cashiers *reconciliation.MockCashierResolver) {
				cashiers.EXPECT().GetCashier(gomock.Any(), cashier.ID).Return(cashier, nil)
			},
			wantKind: apperr.KindForbidden,
		},
		{
			name:   "DuplicateDay",
			params: reconciliation.CreateParams{CashierID: cashier.ID, Date: date, Input: sampleInput()},
			setupMock: func(repo *reconciliation.MockRepository, cashiers *reconciliation.MockCashierResolver) {
				cashiers.EXPECT().GetCashier(gomock.Any(), cashier.ID).Return(cashier, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperr.Conflict("already reconciled"))
			},
			wantKind: apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := reconciliation.NewMockRepository(ctrl)
			cashiers := reconciliation.NewMockCashierResolver(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, cashiers)
			}

			got, err := reconciliation.NewService(repo, cashiers).Create(context.Background(), tt.params)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "REC-2026-03-0001", got.SerialNumber)
			assert.Equal(t, "Bola", got.CashierName)
		})
	}
}

func TestService_Retire(t *testing.T) {
	id := uuid.New()
	by := uuid.New()

	t.Run("Active", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := reconciliation.NewMockRepository(ctrl)
		tx := reconciliation.NewMockUpdateTx(ctrl)

		stored := &reconciliation.Reconciliation{ID: id, Status: reconciliation.StatusActive, Figures: reconciliation.Compute(sampleInput())}

		repo.EXPECT().BeginUpdate(gomock.Any(), id).Return(tx, nil)
		tx.EXPECT().Load(gomock.Any()).Return(stored, nil)
		tx.EXPECT().Save(gomock.Any(), stored).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		got, err := reconciliation.NewService(repo, nil).Retire(context.Background(), id, by)
		require.NoError(t, err)
		assert.Equal(t, reconciliation.StatusRetired, got.Status)
		assert.Equal(t, by, *got.RetiredBy)
		assert.NotNil(t, got.RetiredAt)
		assert.True(t, got.OverageShortage.Equal(d("-100")))
	})

	t.Run("AlreadyRetired", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := reconciliation.NewMockRepository(ctrl)
		tx := reconciliation.NewMockUpdateTx(ctrl)

		repo.EXPECT().BeginUpdate(gomock.Any(), id).Return(tx, nil)
		tx.EXPECT().Load(gomock.Any()).Return(&reconciliation.Reconciliation{ID: id, Status: reconciliation.StatusRetired}, nil)
		tx.EXPECT().Rollback().Return(nil)

		_, err := reconciliation.NewService(repo, nil).Retire(context.Background(), id, by)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := reconciliation.NewMockRepository(ctrl)
		tx := reconciliation.NewMockUpdateTx(ctrl)

		repo.EXPECT().BeginUpdate(gomock.Any(), id).Return(tx, nil)
		tx.EXPECT().Load(gomock.Any()).Return(nil, apperr.NotFound("reconciliation not found"))
		tx.EXPECT().Rollback().Return(nil)

		_, err := reconciliation.NewService(repo, nil).Retire(context.Background(), id, by)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		status   reconciliation.Status
		wantKind apperr.Kind
	}{
		{name: "Active", status: reconciliation.StatusActive},
		{name: "Retired", status: reconciliation.StatusRetired, wantKind: apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := reconciliation.NewMockRepository(ctrl)
			tx := reconciliation.NewMockUpdateTx(ctrl)

			repo.EXPECT().BeginUpdate(gomock.Any(), id).Return(tx, nil)
			tx.EXPECT().Load(gomock.Any()).Return(&reconciliation.Reconciliation{ID: id, Status: tt.status}, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.wantKind == "" {
				tx.EXPECT().Delete(gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			}

			_, err := reconciliation.NewService(repo, nil).Delete(context.Background(), id)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_List_RejectsBadFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := reconciliation.NewService(reconciliation.NewMockRepository(ctrl), nil)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	filters := []reconciliation.ListFilter{
		{Category: "TERRIBLE"},
		{Status: "PENDING"},
		{StartDate: &start, EndDate: &end},
	}

	for _, f := range filters {
		_, err := svc.List(context.Background(), f)
		assert.True(t, apperr.IsValidation(err))
	}
}

func TestService_Preview(t *testing.T) {
	svc := reconciliation.NewService(nil, nil)

	got, err := svc.Preview(sampleInput())
	require.NoError(t, err)
	assert.True(t, got.TurnOver.Equal(d("60000")))

	_, err = svc.Preview(reconciliation.Input{CashAtHand: d("-1")})
	assert.True(t, apperr.IsValidation(err))
}
