package models

// TokenPair is returned by registration, login, refresh, and password
// change. Access is a short-lived JWT; Refresh is a long-lived opaque
// value redeemable exactly until it is rotated or revoked.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ErrorResponse is a generic failure payload with a single detail string.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PasswordUpdateResponse is the body of a successful password change.
// The new token pair lets the current session keep refreshing after the
// change revoked every outstanding refresh token.
type PasswordUpdateResponse struct {
	Message string `json:"message"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ValidationErrors maps field names to the message of the first rule the
// field violated. Serialized under an "errors" key on 400 responses.
type ValidationErrors map[string]string

// ValidationErrorResponse is the body of a 400 response caused by
// malformed, missing, or out-of-range input.
type ValidationErrorResponse struct {
	Errors ValidationErrors `json:"errors"`
}
