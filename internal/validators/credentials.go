package validators

import (
	"context"
	"net/mail"

	"github.com/MKhiriev/go-user-prefs/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation
// to a subset of fields (field-level scoping).
const (
	// FieldUsername targets the login name of an account.
	FieldUsername = "username"

	// FieldEmail targets the email address of an account.
	FieldEmail = "email"

	// FieldPassword targets the plaintext password of a request.
	FieldPassword = "password"
)

// CredentialsValidator implements the Validator interface for the
// authentication request models: RegisterRequest and LoginRequest.
//
// Registration requests get the full password policy applied, with the
// submitted username and email as identity attributes. Login requests
// are only checked for presence of both fields.
type CredentialsValidator struct {
	policy *PasswordPolicy
}

// NewCredentialsValidator constructs a CredentialsValidator with the
// default password policy and returns it as the Validator interface.
func NewCredentialsValidator() Validator {
	return &CredentialsValidator{policy: NewPasswordPolicy()}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.RegisterRequest / *models.RegisterRequest
//   - models.LoginRequest / *models.LoginRequest
//
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *CredentialsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(ctx, value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateRegisterRequest validates a RegisterRequest.
//
// Default validated fields (when none specified): Username, Email, Password.
// The password check applies the full PasswordPolicy with the request's
// username and email as identity attributes.
func (v *CredentialsValidator) validateRegisterRequest(_ context.Context, request models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if request.Username == "" {
				return ErrEmptyUsername
			}
		case FieldEmail:
			if request.Email == "" {
				return ErrEmptyEmail
			}
			if _, err := mail.ParseAddress(request.Email); err != nil {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrEmptyPassword
			}
			if err := v.policy.Validate(request.Password, request.Username, request.Email); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateLoginRequest validates a LoginRequest: both username and
// password must be present. No policy rules apply on login.
func (v *CredentialsValidator) validateLoginRequest(_ context.Context, request models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if request.Username == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
