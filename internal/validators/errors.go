package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrInvalidEmail  = errors.New("email address is not valid")
	ErrEmptyPassword = errors.New("password is required")

	ErrPasswordTooShort        = errors.New("password must contain at least 8 characters")
	ErrPasswordEntirelyNumeric = errors.New("password cannot be entirely numeric")
	ErrPasswordTooSimilar      = errors.New("password is too similar to the username or email")
	ErrPasswordTooCommon       = errors.New("password is too common")
)
