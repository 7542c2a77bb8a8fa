package category_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/category"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	repo.EXPECT().ListRules(gomock.Any()).Return([]*category.Rule{
		{Pattern: "diesel", Category: "Fuel"},
		{Pattern: "generator", Category: "Maintenance"},
	}, nil)

	svc := category.NewService(repo)

	got, err := svc.Suggest(context.Background(), "  Diesel for generator ")
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Suggest_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	repo.EXPECT().ListRules(gomock.Any()).Return(nil, apperr.Persistence("listing category rules", errors.New("conn refused")))

	_, err := category.NewService(repo).Suggest(context.Background(), "diesel")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	older := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	rules := []*category.Rule{
		{Pattern: "diesel", Category: "Fuel", CreatedAt: older},
		{Pattern: "Diesel Pump", Category: "Maintenance", CreatedAt: older},
		{Pattern: "100%", Category: "Bonus", CreatedAt: older},
		{Pattern: "a_b", Category: "Underscore", CreatedAt: older},
		{Pattern: "water", Category: "Utilities", CreatedAt: older},
		{Pattern: "WATER", Category: "Drinks", CreatedAt: newer},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "CaseInsensitive", text: "DIESEL for generator", want: "Fuel"},
		{name: "LongestWins", text: "repair diesel pump", want: "Maintenance"},
		{name: "NewestWinsTie", text: "bottled water", want: "Drinks"},
		{name: "PercentIsLiteral", text: "100% refund", want: "Bonus"},
		{name: "PercentNotWildcard", text: "1000 naira", want: ""},
		{name: "UnderscoreIsLiteral", text: "item a_b", want: "Underscore"},
		{name: "UnderscoreNotWildcard", text: "item axb", want: ""},
		{name: "NoMatch", text: "stationery", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, category.Match(rules, tt.text))
		})
	}
}

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern  string
		category string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *category.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{pattern: " diesel ", category: "Fuel"},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), &category.Rule{Pattern: "diesel", Category: "Fuel"}).Return(nil)
			},
		},
		{name: "EmptyPattern", args: args{category: "Fuel"}, wantErr: true},
		{name: "EmptyCategory", args: args{pattern: "diesel"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rule, err := category.NewService(repo).Learn(context.Background(), tt.args.pattern, tt.args.category)
			if tt.wantErr {
				assert.True(t, apperr.IsValidation(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "diesel", rule.Pattern)
		})
	}
}
