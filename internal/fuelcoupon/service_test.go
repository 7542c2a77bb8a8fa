package fuelcoupon_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/fuelcoupon"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCost(t *testing.T) {
	tests := []struct {
		litres, price, want string
	}{
		{"20", "617", "12340"},
		{"12.5", "617.35", "7716.88"},
		{"0.333", "3", "1"},
	}

	for _, tt := range tests {
		got := fuelcoupon.Cost(d(tt.litres), d(tt.price))
		assert.True(t, got.Equal(d(tt.want)), "%s x %s = %s, want %s", tt.litres, tt.price, got, tt.want)
	}
}

func TestService_Generate(t *testing.T) {
	br := &branch.Branch{ID: uuid.New(), Code: "KAN", Name: "Kano"}
	valid := fuelcoupon.GenerateParams{
		BranchID:      br.ID,
		VehicleNumber: " abc-123-xy ",
		DriverName:    "Musa",
		FuelType:      "diesel",
		Litres:        d("40"),
		PricePerLitre: d("1050.25"),
		IssueDate:     time.Date(2026, 4, 2, 16, 0, 0, 0, time.UTC),
	}

	type testCase struct {
		name      string
		mutate    func(p *fuelcoupon.GenerateParams)
		setupMock func(repo *fuelcoupon.MockRepository, branches *fuelcoupon.MockBranchLookup)
		wantKind  apperr.Kind
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(repo *fuelcoupon.MockRepository, branches *fuelcoupon.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(br, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *fuelcoupon.Coupon) error {
						c.Number = "FC-20260402-0001"
						return nil
					})
			},
		},
		{name: "BadFuel", mutate: func(p *fuelcoupon.GenerateParams) { p.FuelType = "KEROSENE" }, wantKind: apperr.KindValidation},
		{name: "NoVehicle", mutate: func(p *fuelcoupon.GenerateParams) { p.VehicleNumber = " " }, wantKind: apperr.KindValidation},
		{name: "NoDriver", mutate: func(p *fuelcoupon.GenerateParams) { p.DriverName = "" }, wantKind: apperr.KindValidation},
		{name: "ZeroLitres", mutate: func(p *fuelcoupon.GenerateParams) { p.Litres = decimal.Zero }, wantKind: apperr.KindValidation},
		{name: "NegativePrice", mutate: func(p *fuelcoupon.GenerateParams) { p.PricePerLitre = d("-1") }, wantKind: apperr.KindValidation},
		{
			name: "UnknownBranch",
			setupMock: func(_ *fuelcoupon.MockRepository, branches *fuelcoupon.MockBranchLookup) {
				branches.EXPECT().GetBranch(gomock.Any(), br.ID).Return(nil, apperr.NotFound("branch not found"))
			},
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := fuelcoupon.NewMockRepository(ctrl)
			branches := fuelcoupon.NewMockBranchLookup(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, branches)
			}

			params := valid
			if tt.mutate != nil {
				tt.mutate(&params)
			}

			got, err := fuelcoupon.NewService(repo, branches).Generate(context.Background(), params)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ABC-123-XY", got.VehicleNumber)
			assert.Equal(t, fuelcoupon.FuelDiesel, got.FuelType)
			assert.True(t, got.Amount.Equal(d("42010")))
			assert.Equal(t, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), got.IssueDate)
			assert.Equal(t, "Kano", got.BranchName)
		})
	}
}
