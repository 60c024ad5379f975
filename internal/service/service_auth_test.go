package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-user-prefs/internal/config"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/mock"
	"github.com/MKhiriev/go-user-prefs/internal/store"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testHashKey    = "test-hash-key"
	testSignKey    = "test-sign-key"
	testIssuer     = "go-user-prefs-test"
	strongPassword = "correct-horse-battery"
)

// newTestAuthSvc builds an *authService backed by gomock repositories.
func newTestAuthSvc(
	t *testing.T,
	ctrl *gomock.Controller,
) (
	*authService,
	*mock.MockUserRepository,
	*mock.MockPreferencesRepository,
	*mock.MockTokenRepository,
) {
	t.Helper()
	mockUsers := mock.NewMockUserRepository(ctrl)
	mockPrefs := mock.NewMockPreferencesRepository(ctrl)
	mockTokens := mock.NewMockTokenRepository(ctrl)

	storages := &store.Storages{
		UserRepository:        mockUsers,
		PreferencesRepository: mockPrefs,
		TokenRepository:       mockTokens,
	}
	cfg := config.App{
		TokenSignKey:    testSignKey,
		TokenIssuer:     testIssuer,
		TokenDuration:   time.Hour,
		RefreshDuration: 24 * time.Hour,
		HashKey:         testHashKey,
	}

	svc := NewAuthService(storages, cfg, logger.Nop()).(*authService)

	return svc, mockUsers, mockPrefs, mockTokens
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// ── RegisterUser ─────────────────────────────────────────────────────────────

func TestAuthService_RegisterUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockPrefs, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	request := models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strongPassword,
	}

	gomock.InOrder(
		mockUsers.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u models.User) (models.User, error) {
				assert.Equal(t, "alice", u.Username)
				assert.Equal(t, "alice@example.com", u.Email)
				assert.NotEqual(t, strongPassword, u.PasswordHash, "password must never be stored in plaintext")
				assert.True(t, utils.CheckPassword(u.PasswordHash, strongPassword))
				u.UserID = 42
				return u, nil
			},
		),
		mockPrefs.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, prefs models.Preferences) (models.Preferences, error) {
				assert.Equal(t, int64(42), prefs.UserID)
				assert.Equal(t, "alice", prefs.Account.Username)
				assert.Equal(t, "daily", prefs.Notifications.Frequency)
				return prefs, nil
			},
		),
	)

	registered, err := svc.RegisterUser(ctx, request)

	require.NoError(t, err)
	assert.Equal(t, int64(42), registered.UserID)
}

func TestAuthService_RegisterUser_WeakPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "password")
}

func TestAuthService_RegisterUser_LoginAlreadyTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockUsers.EXPECT().CreateUser(ctx, gomock.Any()).
		Return(models.User{}, store.ErrLoginAlreadyExists)

	_, err := svc.RegisterUser(ctx, models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strongPassword,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

func TestAuthService_RegisterUser_ToleratesProvisioningRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockPrefs, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockUsers.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			u.UserID = 42
			return u, nil
		},
	)
	mockPrefs.EXPECT().Create(ctx, gomock.Any()).
		Return(models.Preferences{}, store.ErrPreferencesAlreadyExist)

	registered, err := svc.RegisterUser(ctx, models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strongPassword,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), registered.UserID)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	stored := models.User{
		UserID:       42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: mustHashPassword(t, strongPassword),
	}

	mockUsers.EXPECT().FindUserByLogin(ctx, "alice").Return(stored, nil)

	got, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: strongPassword})

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockUsers.EXPECT().FindUserByLogin(ctx, "ghost").
		Return(models.User{}, store.ErrNoUserWasFound)

	// unknown account and wrong password are indistinguishable
	_, err := svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: strongPassword})

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	stored := models.User{
		UserID:       42,
		Username:     "alice",
		PasswordHash: mustHashPassword(t, strongPassword),
	}

	mockUsers.EXPECT().FindUserByLogin(ctx, "alice").Return(stored, nil)

	_, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "incorrect-guess"})

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "password")
}

// ── CreateToken / ParseToken ─────────────────────────────────────────────────

func TestAuthService_CreateToken_ParseToken_Roundtrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	issued, err := svc.CreateToken(ctx, models.User{UserID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, issued.SignedString)

	parsed, err := svc.ParseToken(ctx, issued.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.ParseToken(context.Background(), "not.a.jwt")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ParseToken_WrongIssuer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	foreign, err := utils.GenerateJWTToken("some-other-service", 42, time.Hour, testSignKey)
	require.NoError(t, err)

	_, err = svc.ParseToken(ctx, foreign.SignedString)

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

// ── CreateRefreshToken ───────────────────────────────────────────────────────

func TestAuthService_CreateRefreshToken_StoresDigestOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	var storedRecord models.RefreshToken
	mockTokens.EXPECT().Store(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, token models.RefreshToken) (models.RefreshToken, error) {
			storedRecord = token
			return token, nil
		},
	)

	raw, err := svc.CreateRefreshToken(ctx, models.User{UserID: 42})

	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, int64(42), storedRecord.UserID)
	assert.NotEqual(t, raw, storedRecord.TokenHash, "raw token must never be persisted")
	assert.Equal(t, utils.HashString(raw, testHashKey), storedRecord.TokenHash)
	assert.True(t, storedRecord.ExpiresAt.After(time.Now()))
}

func TestAuthService_CreateRefreshToken_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockTokens.EXPECT().Store(ctx, gomock.Any()).
		Return(models.RefreshToken{}, errors.New("connection refused"))

	_, err := svc.CreateRefreshToken(ctx, models.User{UserID: 42})

	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

// ── Refresh ──────────────────────────────────────────────────────────────────

func TestAuthService_Refresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	raw := "opaque-refresh-value"
	record := models.RefreshToken{
		ID:        7,
		UserID:    42,
		TokenHash: utils.HashString(raw, testHashKey),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := models.User{UserID: 42, Username: "alice", Email: "alice@example.com"}

	gomock.InOrder(
		mockTokens.EXPECT().FindByHash(ctx, record.TokenHash).Return(record, nil),
		mockUsers.EXPECT().FindUserByID(ctx, int64(42)).Return(user, nil),
		mockTokens.EXPECT().RevokeAllForUser(ctx, int64(42)).Return(nil),
		// rotation mints a new refresh token
		mockTokens.EXPECT().Store(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, token models.RefreshToken) (models.RefreshToken, error) {
				assert.NotEqual(t, record.TokenHash, token.TokenHash)
				return token, nil
			},
		),
	)

	pair, err := svc.Refresh(ctx, raw)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, raw, pair.Refresh, "redeemed token must not be reissued")
}

func TestAuthService_Refresh_EmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Refresh(context.Background(), "")

	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockTokens.EXPECT().FindByHash(ctx, gomock.Any()).
		Return(models.RefreshToken{}, store.ErrTokenNotFound)

	_, err := svc.Refresh(ctx, "never-issued")

	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockTokens.EXPECT().FindByHash(ctx, gomock.Any()).Return(models.RefreshToken{
		UserID:    42,
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	_, err := svc.Refresh(ctx, "stale-token")

	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockTokens.EXPECT().FindByHash(ctx, gomock.Any()).Return(models.RefreshToken{
		UserID:    42,
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}, nil)

	_, err := svc.Refresh(ctx, "revoked-token")

	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

// ── UpdatePassword ───────────────────────────────────────────────────────────

func TestAuthService_UpdatePassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, mockTokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	newPassword := "even-stronger-secret"
	stored := models.User{
		UserID:       42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: mustHashPassword(t, strongPassword),
	}

	gomock.InOrder(
		mockUsers.EXPECT().FindUserByID(ctx, int64(42)).Return(stored, nil),
		mockUsers.EXPECT().UpdatePassword(ctx, int64(42), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int64, passwordHash string) error {
				assert.True(t, utils.CheckPassword(passwordHash, newPassword))
				return nil
			},
		),
		// every pre-change session loses its refresh tokens
		mockTokens.EXPECT().RevokeAllForUser(ctx, int64(42)).Return(nil),
		mockTokens.EXPECT().Store(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, token models.RefreshToken) (models.RefreshToken, error) {
				return token, nil
			},
		),
	)

	pair, err := svc.UpdatePassword(ctx, 42, models.PasswordUpdateRequest{
		CurrentPassword: strongPassword,
		NewPassword:     newPassword,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestAuthService_UpdatePassword_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	tests := []struct {
		name    string
		request models.PasswordUpdateRequest
		fields  []string
	}{
		{
			name:    "missing current password",
			request: models.PasswordUpdateRequest{NewPassword: "even-stronger-secret"},
			fields:  []string{"currentPassword"},
		},
		{
			name:    "missing new password",
			request: models.PasswordUpdateRequest{CurrentPassword: strongPassword},
			fields:  []string{"newPassword"},
		},
		{
			name:    "both missing",
			request: models.PasswordUpdateRequest{},
			fields:  []string{"currentPassword", "newPassword"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdatePassword(ctx, 42, tt.request)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Len(t, validationErr.Errors, len(tt.fields))
			for _, field := range tt.fields {
				assert.Equal(t, "This field is required.", validationErr.Errors[field])
			}
		})
	}
}

func TestAuthService_UpdatePassword_WrongCurrentPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockUsers.EXPECT().FindUserByID(ctx, int64(42)).Return(models.User{
		UserID:       42,
		PasswordHash: mustHashPassword(t, strongPassword),
	}, nil)

	_, err := svc.UpdatePassword(ctx, 42, models.PasswordUpdateRequest{
		CurrentPassword: "incorrect-guess",
		NewPassword:     "even-stronger-secret",
	})

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_UpdatePassword_WeakNewPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockUsers.EXPECT().FindUserByID(ctx, int64(42)).Return(models.User{
		UserID:       42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: mustHashPassword(t, strongPassword),
	}, nil)

	_, err := svc.UpdatePassword(ctx, 42, models.PasswordUpdateRequest{
		CurrentPassword: strongPassword,
		NewPassword:     "12345678",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "newPassword")
}

func TestAuthService_UpdatePassword_NewPasswordSimilarToUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockUsers.EXPECT().FindUserByID(ctx, int64(42)).Return(models.User{
		UserID:       42,
		Username:     "alexandra",
		Email:        "alexandra@example.com",
		PasswordHash: mustHashPassword(t, strongPassword),
	}, nil)

	_, err := svc.UpdatePassword(ctx, 42, models.PasswordUpdateRequest{
		CurrentPassword: strongPassword,
		NewPassword:     "alexandra1",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "newPassword")
}
