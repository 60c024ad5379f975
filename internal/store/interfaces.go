package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-user-prefs/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository provides persistence for user accounts.
type UserRepository interface {
	// CreateUser persists a new user and returns it with server-assigned
	// fields populated. Returns ErrLoginAlreadyExists when the username
	// is taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByLogin retrieves a user by username.
	// Returns ErrNoUserWasFound when no such user exists.
	FindUserByLogin(ctx context.Context, username string) (models.User, error)

	// FindUserByID retrieves a user by primary key.
	// Returns ErrNoUserWasFound when no such user exists.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// UpdatePassword replaces the stored password hash of the given user.
	// Returns ErrNoUserWasFound when no such user exists.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// PreferencesRepository provides persistence for per-user preferences
// documents. Each user owns at most one document; the user_id column
// carries a unique constraint.
type PreferencesRepository interface {
	// Create inserts a full preferences document for the given owner and
	// returns the stored row. Returns ErrPreferencesAlreadyExist when the
	// owner already has one.
	Create(ctx context.Context, prefs models.Preferences) (models.Preferences, error)

	// FindByOwner retrieves the preferences document of the given owner.
	// Returns ErrPreferencesNotFound when the owner has none.
	FindByOwner(ctx context.Context, userID int64) (models.Preferences, error)

	// Save applies a group-level partial update to the owner's document:
	// every non-nil group in the update replaces the stored group wholesale,
	// nil groups are left untouched. Returns the updated row.
	// Returns ErrPreferencesNotFound when the owner has no document.
	Save(ctx context.Context, userID int64, update models.PreferencesUpdate) (models.Preferences, error)

	// Delete removes the owner's preferences document.
	// Returns ErrPreferencesNotFound when the owner has none.
	Delete(ctx context.Context, userID int64) error
}

// TokenRepository provides persistence for refresh tokens. Only keyed
// digests of token values are stored, never the raw tokens.
type TokenRepository interface {
	// Store persists a new refresh token record.
	Store(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// FindByHash retrieves a refresh token by its stored digest.
	// Returns ErrTokenNotFound when no such token exists.
	FindByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error)

	// RevokeAllForUser marks every outstanding refresh token of the given
	// user as revoked.
	RevokeAllForUser(ctx context.Context, userID int64) error

	// DeleteExpired purges tokens that expired before the given moment as
	// well as revoked ones, returning the number of removed rows.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
