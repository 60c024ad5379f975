// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct horse battery staple",
	}
}

func validLoginRequest() models.LoginRequest {
	return models.LoginRequest{
		Username: "bob",
		Password: "correct horse battery staple",
	}
}

// ---------------------------------------------------------------------------
// TestNewCredentialsValidator
// ---------------------------------------------------------------------------

func TestNewCredentialsValidator(t *testing.T) {
	v := NewCredentialsValidator()
	require.NotNil(t, v)
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewCredentialsValidator()
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		err := v.Validate(ctx, 42)
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("RegisterRequest value", func(t *testing.T) {
		r := validRegisterRequest()
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("RegisterRequest pointer", func(t *testing.T) {
		r := validRegisterRequest()
		require.NoError(t, v.Validate(ctx, &r))
	})

	t.Run("LoginRequest value", func(t *testing.T) {
		r := validLoginRequest()
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("LoginRequest pointer", func(t *testing.T) {
		r := validLoginRequest()
		require.NoError(t, v.Validate(ctx, &r))
	})
}

// ---------------------------------------------------------------------------
// TestValidateRegisterRequest
// ---------------------------------------------------------------------------

func TestValidateRegisterRequest(t *testing.T) {
	v := NewCredentialsValidator()
	ctx := context.Background()

	t.Run("valid with defaults", func(t *testing.T) {
		r := validRegisterRequest()
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("empty username", func(t *testing.T) {
		r := validRegisterRequest()
		r.Username = ""
		require.ErrorIs(t, v.Validate(ctx, r, FieldUsername), ErrEmptyUsername)
	})

	t.Run("empty email", func(t *testing.T) {
		r := validRegisterRequest()
		r.Email = ""
		require.ErrorIs(t, v.Validate(ctx, r, FieldEmail), ErrEmptyEmail)
	})

	t.Run("malformed email", func(t *testing.T) {
		r := validRegisterRequest()
		r.Email = "not-an-email"
		require.ErrorIs(t, v.Validate(ctx, r, FieldEmail), ErrInvalidEmail)
	})

	t.Run("empty password", func(t *testing.T) {
		r := validRegisterRequest()
		r.Password = ""
		require.ErrorIs(t, v.Validate(ctx, r, FieldPassword), ErrEmptyPassword)
	})

	t.Run("short password", func(t *testing.T) {
		r := validRegisterRequest()
		r.Password = "short"
		require.ErrorIs(t, v.Validate(ctx, r, FieldPassword), ErrPasswordTooShort)
	})

	t.Run("numeric password", func(t *testing.T) {
		r := validRegisterRequest()
		r.Password = "84927561039"
		require.ErrorIs(t, v.Validate(ctx, r, FieldPassword), ErrPasswordEntirelyNumeric)
	})

	t.Run("password similar to username", func(t *testing.T) {
		r := validRegisterRequest()
		r.Username = "bobbytables"
		r.Password = "bobbytables"
		require.ErrorIs(t, v.Validate(ctx, r, FieldPassword), ErrPasswordTooSimilar)
	})

	t.Run("password similar to email", func(t *testing.T) {
		r := validRegisterRequest()
		r.Email = "catherine@example.com"
		r.Password = "catherine1"
		require.ErrorIs(t, v.Validate(ctx, r, FieldPassword), ErrPasswordTooSimilar)
	})

	t.Run("common password", func(t *testing.T) {
		r := validRegisterRequest()
		r.Password = "password123"
		require.ErrorIs(t, v.Validate(ctx, r, FieldPassword), ErrPasswordTooCommon)
	})

	t.Run("unknown field", func(t *testing.T) {
		r := validRegisterRequest()
		require.ErrorIs(t, v.Validate(ctx, r, "nonexistent"), ErrUnknownField)
	})
}

// ---------------------------------------------------------------------------
// TestValidateLoginRequest
// ---------------------------------------------------------------------------

func TestValidateLoginRequest(t *testing.T) {
	v := NewCredentialsValidator()
	ctx := context.Background()

	t.Run("valid with defaults", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, validLoginRequest()))
	})

	t.Run("empty username", func(t *testing.T) {
		r := validLoginRequest()
		r.Username = ""
		require.ErrorIs(t, v.Validate(ctx, r), ErrEmptyUsername)
	})

	t.Run("empty password", func(t *testing.T) {
		r := validLoginRequest()
		r.Password = ""
		require.ErrorIs(t, v.Validate(ctx, r), ErrEmptyPassword)
	})

	t.Run("no policy applied on login", func(t *testing.T) {
		// weak passwords must still be able to log in
		r := validLoginRequest()
		r.Password = "123456"
		require.NoError(t, v.Validate(ctx, r))
	})

	t.Run("unknown field", func(t *testing.T) {
		require.ErrorIs(t, v.Validate(ctx, validLoginRequest(), "nonexistent"), ErrUnknownField)
	})
}
