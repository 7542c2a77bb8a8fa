package branch_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
)

func TestService_CreateBranch(t *testing.T) {
	type args struct {
		code string
		name string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *branch.MockRepository)
		wantCode  string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "NormalisesCode",
			args: args{code: " lag01 ", name: "Lagos Island"},
			setupMock: func(m *branch.MockRepository) {
				m.EXPECT().
					CreateBranch(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *branch.Branch) error {
						b.ID = uuid.New()
						return nil
					})
			},
			wantCode: "LAG01",
		},
		{
			name:    "MissingName",
			args:    args{code: "ABJ01", name: "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := branch.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := branch.NewService(repo).CreateBranch(context.Background(), tt.args.code, tt.args.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_CreateCashier_UnknownBranch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := branch.NewMockRepository(ctrl)

	branchID := uuid.New()
	repo.EXPECT().GetBranch(gomock.Any(), branchID).Return(nil, apperr.NotFound("branch not found"))

	_, err := branch.NewService(repo).CreateCashier(context.Background(), branchID, "Ada")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_CreateCashier(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := branch.NewMockRepository(ctrl)

	branchID := uuid.New()
	repo.EXPECT().GetBranch(gomock.Any(), branchID).Return(&branch.Branch{ID: branchID}, nil)
	repo.EXPECT().CreateCashier(gomock.Any(), gomock.Any()).Return(nil)

	got, err := branch.NewService(repo).CreateCashier(context.Background(), branchID, " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.True(t, got.Active)
	assert.Equal(t, branchID, got.BranchID)
}
