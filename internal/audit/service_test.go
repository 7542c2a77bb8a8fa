package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/audit"
)

func TestService_Record(t *testing.T) {
	userID := uuid.New()
	entry := audit.Entry{UserID: &userID, Action: "RETIRE", Module: audit.ModuleImprest, IPAddress: "10.0.0.1"}

	t.Run("Writes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := audit.NewMockRepository(ctrl)

		repo.EXPECT().Insert(gomock.Any(), &entry).Return(nil)

		audit.NewService(repo).Record(context.Background(), entry)
	})

	t.Run("SwallowsFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := audit.NewMockRepository(ctrl)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database is down"))

		assert.NotPanics(t, func() {
			audit.NewService(repo).Record(context.Background(), entry)
		})
	})
}

func TestService_List_CapsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "Default", limit: 0, want: 200},
		{name: "TooLarge", limit: 5000, want: 200},
		{name: "Small", limit: 25, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := audit.NewMockRepository(ctrl)

			repo.EXPECT().List(gomock.Any(), audit.ListFilter{Module: audit.ModuleAuth, Limit: tt.want}).Return(nil, nil)

			_, err := audit.NewService(repo).List(context.Background(), audit.ListFilter{Module: audit.ModuleAuth, Limit: tt.limit})
			require.NoError(t, err)
		})
	}
}
