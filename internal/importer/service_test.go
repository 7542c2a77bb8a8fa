package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/importer"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	recs := importer.NewMockCreator(ctrl)

	svc := importer.NewService(recs)

	userID := uuid.New()
	scope := uuid.New()
	createdID := uuid.New()

	csv := "cashier_id,date,cash_at_hand\n" +
		cashierID + ",2026-03-14,10\n" +
		"bad,2026-03-14,10\n" +
		cashierID + ",2026-03-15,20\n"

	gomock.InOrder(
		recs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p reconciliation.CreateParams) (*reconciliation.Reconciliation, error) {
				assert.Equal(t, userID, p.CreatedBy)
				require.NotNil(t, p.BranchScope)
				assert.Equal(t, scope, *p.BranchScope)

				return &reconciliation.Reconciliation{ID: createdID, SerialNumber: "REC-000007"}, nil
			}),
		recs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperr.Conflict("reconciliation already exists for this cashier and date")),
	)

	res, err := svc.Import(context.Background(), strings.NewReader(csv), importer.Options{CreatedBy: userID, BranchScope: &scope})
	require.NoError(t, err)

	assert.Equal(t, "legacy", res.Profile)
	require.Len(t, res.Created, 1)
	assert.Equal(t, importer.Created{Line: 2, ID: createdID, SerialNumber: "REC-000007"}, res.Created[0])

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Equal(t, 4, res.Errors[1].Line)
	assert.Contains(t, res.Errors[1].Message, "already exists")
}

func TestService_Import_BadFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := importer.NewService(importer.NewMockCreator(ctrl))

	_, err := svc.Import(context.Background(), strings.NewReader("nothing useful\n"), importer.Options{})
	assert.True(t, apperr.IsValidation(err))
}
