package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
	"github.com/MrJamesThe3rd/findules/internal/auth"
	"github.com/MrJamesThe3rd/findules/internal/http/importcsv"
	"github.com/MrJamesThe3rd/findules/internal/importer"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

type recorder struct {
	entries []audit.Entry
}

func (r *recorder) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

func newRouter(t *testing.T, caller auth.Identity) (chi.Router, *importer.MockCreator, *recorder) {
	ctrl := gomock.NewController(t)
	creator := importer.NewMockCreator(ctrl)
	rec := &recorder{}

	h := importcsv.NewHandler(importer.NewService(creator), rec)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), caller)))
		})
	})
	r.Route("/import", h.Routes)

	return r, creator, rec
}

func upload(t *testing.T, router http.Handler, field, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "sheet.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/reconciliations", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

type importBody struct {
	Profile  string `json:"profile"`
	Imported int    `json:"imported"`
	Created  []struct {
		Line         int    `json:"line"`
		SerialNumber string `json:"serial_number"`
	} `json:"created"`
	Errors []struct {
		Line  int    `json:"line"`
		Error string `json:"error"`
	} `json:"errors"`
}

func TestHandler_Import(t *testing.T) {
	cashierID := uuid.New().String()
	manager := auth.Identity{UserID: uuid.New(), Role: user.RoleManager}

	t.Run("Created", func(t *testing.T) {
		router, creator, audits := newRouter(t, manager)

		creator.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p reconciliation.CreateParams) (*reconciliation.Reconciliation, error) {
				assert.Nil(t, p.BranchScope)
				assert.Equal(t, manager.UserID, p.CreatedBy)

				return &reconciliation.Reconciliation{ID: uuid.New(), SerialNumber: "REC-2026-03-0001"}, nil
			})

		rec := upload(t, router, "file", "cashier_id,date,cash_at_hand\n"+cashierID+",2026-03-14,150\n")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got importBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "legacy", got.Profile)
		assert.Equal(t, 1, got.Imported)
		require.Len(t, got.Created, 1)
		assert.Equal(t, 2, got.Created[0].Line)
		assert.Equal(t, "REC-2026-03-0001", got.Created[0].SerialNumber)
		assert.Empty(t, got.Errors)

		require.Len(t, audits.entries, 1)
		assert.Equal(t, "IMPORT", audits.entries[0].Action)
	})

	t.Run("NothingCreated", func(t *testing.T) {
		router, creator, _ := newRouter(t, manager)

		creator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperr.Validation("cashier not found"))

		rec := upload(t, router, "file", "cashier_id,date,cash_at_hand\n"+cashierID+",2026-03-14,150\n")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var got importBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 0, got.Imported)
		require.Len(t, got.Errors, 1)
		assert.Contains(t, got.Errors[0].Error, "cashier not found")
	})

	t.Run("MissingFile", func(t *testing.T) {
		router, _, _ := newRouter(t, manager)

		rec := upload(t, router, "attachment", "whatever")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("StaffWithoutBranch", func(t *testing.T) {
		router, _, _ := newRouter(t, auth.Identity{UserID: uuid.New(), Role: user.RoleStaff})

		rec := upload(t, router, "file", "cashier_id,date,cash_at_hand\n"+cashierID+",2026-03-14,150\n")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ScopedToBranch", func(t *testing.T) {
		branchID := uuid.New()
		router, creator, _ := newRouter(t, auth.Identity{UserID: uuid.New(), Role: user.RoleBranchAdmin, BranchID: &branchID})

		creator.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p reconciliation.CreateParams) (*reconciliation.Reconciliation, error) {
				require.NotNil(t, p.BranchScope)
				assert.Equal(t, branchID, *p.BranchScope)

				return &reconciliation.Reconciliation{ID: uuid.New(), SerialNumber: "REC-2026-03-0002"}, nil
			})

		rec := upload(t, router, "file", "cashier_id,date,cash_at_hand\n"+cashierID+",2026-03-14,150\n")
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}
