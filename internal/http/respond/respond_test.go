package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/http/respond"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "Validation", err: apperr.Validation("amount must be greater than zero"), wantStatus: http.StatusBadRequest, wantMsg: "amount must be greater than zero"},
		{name: "NotFound", err: apperr.NotFound("imprest not found"), wantStatus: http.StatusNotFound, wantMsg: "imprest not found"},
		{name: "Conflict", err: apperr.Conflict("already retired"), wantStatus: http.StatusConflict, wantMsg: "already retired"},
		{name: "Unauthorized", err: apperr.Unauthorized("token expired"), wantStatus: http.StatusUnauthorized, wantMsg: "token expired"},
		{name: "Forbidden", err: apperr.Forbidden("insufficient role"), wantStatus: http.StatusForbidden, wantMsg: "insufficient role"},
		{name: "PersistenceHidden", err: apperr.Persistence("querying imprests", errors.New("pq: relation does not exist")), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
		{name: "Unclassified", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

type sample struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"omitempty,oneof=A B"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "Valid", body: `{"name":"x","kind":"A"}`},
		{name: "Malformed", body: `{"name":`, wantErr: "invalid request body"},
		{name: "UnknownField", body: `{"name":"x","extra":1}`, wantErr: "invalid request body"},
		{name: "MissingRequired", body: `{}`, wantErr: "name is required"},
		{name: "NotOneOf", body: `{"name":"x","kind":"C"}`, wantErr: "kind must be one of [A B]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var v sample

			err := respond.Decode(req, &v)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "x", v.Name)

				return
			}

			assert.True(t, apperr.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQueryDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start_date=2026-03-01&end_date=yesterday", nil)

	start, err := respond.QueryDate(req, "start_date")
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, "2026-03-01", start.Format("2006-01-02"))

	_, err = respond.QueryDate(req, "end_date")
	assert.True(t, apperr.IsValidation(err))

	missing, err := respond.QueryDate(req, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
