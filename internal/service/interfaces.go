package service

import (
	"context"

	"github.com/MKhiriev/go-user-prefs/models"
)

// PreferencesService exposes the per-user preferences operations. Every
// method takes the owner's userID explicitly; handlers resolve it from the
// request context before calling in.
type PreferencesService interface {
	// GetMine returns the caller's preferences document, materialising the
	// defaults when none exists yet. It never reports a missing document.
	GetMine(ctx context.Context, userID int64) (models.Preferences, error)

	// CreateMine explicitly creates the caller's document from a complete
	// four-group payload. Fails when a document already exists.
	CreateMine(ctx context.Context, userID int64, create models.PreferencesCreate) (models.Preferences, error)

	// UpdateMine applies a group-level partial update: each supplied group
	// replaces the stored group wholesale, omitted groups stay untouched.
	UpdateMine(ctx context.Context, userID int64, update models.PreferencesUpdate) (models.Preferences, error)

	// DeleteMine removes the caller's document.
	DeleteMine(ctx context.Context, userID int64) error

	// GetSection projects a single named sub-group out of the caller's
	// document. Unknown section names yield ErrUnknownSection.
	GetSection(ctx context.Context, userID int64, section string) (any, error)
}

// AuthService handles registration, credential verification, and the access
// and refresh token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, request models.LoginRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	CreateRefreshToken(ctx context.Context, user models.User) (string, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	UpdatePassword(ctx context.Context, userID int64, request models.PasswordUpdateRequest) (models.TokenPair, error)
}

// AppInfoService reports build metadata about the running service.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// PreferencesServiceWrapper defines middleware composition for
// PreferencesService. Implementations wrap an existing PreferencesService to
// add behavior such as logging or validating.
type PreferencesServiceWrapper interface {
	Wrap(PreferencesService) PreferencesService // returns a decorated PreferencesService applying additional behavior
}
