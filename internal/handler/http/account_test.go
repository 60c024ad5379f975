package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-user-prefs/internal/service"
	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// updatePassword
// ─────────────────────────────────────────────

func TestUpdatePassword_Success(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		updatePasswordFn: func(_ context.Context, userID int64, req models.PasswordUpdateRequest) (models.TokenPair, error) {
			assert.Equal(t, int64(42), userID)
			assert.Equal(t, "old-secret-pass", req.CurrentPassword)
			assert.Equal(t, "new-secret-pass", req.NewPassword)
			return models.TokenPair{Access: "new-access", Refresh: "new-refresh"}, nil
		},
	})

	rr := executeAsUser(t, h.updatePassword, 42, http.MethodPut, "/api/v1/account/password",
		`{"currentPassword":"old-secret-pass","newPassword":"new-secret-pass"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var body models.PasswordUpdateResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Password updated successfully.", body.Message)
	assert.Equal(t, "new-access", body.Access)
	assert.Equal(t, "new-refresh", body.Refresh)
}

func TestUpdatePassword_WrongCurrentPassword(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		updatePasswordFn: func(_ context.Context, _ int64, _ models.PasswordUpdateRequest) (models.TokenPair, error) {
			return models.TokenPair{}, service.ErrWrongPassword
		},
	})

	rr := executeAsUser(t, h.updatePassword, 42, http.MethodPut, "/api/v1/account/password",
		`{"currentPassword":"wrong","newPassword":"new-secret-pass"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdatePassword_ValidationErrors(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		updatePasswordFn: func(_ context.Context, _ int64, _ models.PasswordUpdateRequest) (models.TokenPair, error) {
			return models.TokenPair{}, &service.ValidationError{Errors: models.ValidationErrors{
				"newPassword": "This field is required.",
			}}
		},
	})

	rr := executeAsUser(t, h.updatePassword, 42, http.MethodPut, "/api/v1/account/password",
		`{"currentPassword":"old-secret-pass"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body models.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "This field is required.", body.Errors["newPassword"])
}

func TestUpdatePassword_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{})

	rr := executeAsUser(t, h.updatePassword, 42, http.MethodPut, "/api/v1/account/password", `{`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid JSON was passed")
}

func TestUpdatePassword_NoUserIDInContext(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/account/password", nil)
	req = injectNopLogger(req)
	rr := httptest.NewRecorder()
	h.updatePassword(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
