package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT access token with convenience accessors for
// authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry).
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
//
// UserID is a cached, parsed copy of the "sub" claim converted to int64,
// populated during token construction or parsing to avoid repeated
// string-to-int conversions.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string
	// form is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID extracts the user identifier from the token's "sub" (subject)
// claim, parses it as a base-10 int64, and returns the result.
//
// Returns an error if the subject claim is missing, empty, or cannot be
// converted to int64.
func (t *Token) GetUserID() (int64, error) {
	userIDString, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// RefreshToken is a long-lived opaque credential that lets a client obtain
// new access tokens without re-sending the password.
//
// Only the HMAC-SHA256 digest of the opaque value is persisted; the
// plaintext exists solely in the response that minted it. Changing the
// user's password revokes every outstanding refresh token for that user.
type RefreshToken struct {
	// ID is the server-assigned row identifier.
	ID int64 `json:"-"`

	// UserID is the owner of the token.
	UserID int64 `json:"-"`

	// TokenHash is the hex-encoded HMAC-SHA256 digest of the opaque value.
	TokenHash string `json:"-"`

	// ExpiresAt is the moment after which the token is no longer accepted.
	ExpiresAt time.Time `json:"-"`

	// Revoked marks tokens invalidated before their natural expiry
	// (rotation or password change).
	Revoked bool `json:"-"`

	// CreatedAt is the issuance timestamp.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the RefreshToken model.
func (t RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Valid reports whether the token can still be redeemed at the given moment.
func (t RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
