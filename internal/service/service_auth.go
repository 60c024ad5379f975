package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-user-prefs/internal/config"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/store"
	"github.com/MKhiriev/go-user-prefs/internal/utils"
	"github.com/MKhiriev/go-user-prefs/internal/validators"
	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/google/uuid"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and the token
// lifecycle using a UserRepository and TokenRepository for persistence
// and bcrypt for password hashing.
//
// Registration also provisions the new user's default preferences document,
// so a freshly registered account always reads a complete document.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// preferencesRepository provisions the default preferences document
	// at registration time.
	preferencesRepository store.PreferencesRepository

	// tokenRepository stores refresh token digests and supports bulk
	// revocation on password change.
	tokenRepository store.TokenRepository

	// credentialsValidator checks register/login payloads, including the
	// password policy on registration.
	credentialsValidator validators.Validator

	// passwordPolicy re-checks candidate passwords on password change,
	// where the identity attributes come from the stored account.
	passwordPolicy *validators.PasswordPolicy

	// hashKey is the HMAC secret used to digest refresh tokens before
	// storage or lookup. Distinct from tokenSignKey.
	hashKey string

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued access token remains valid.
	tokenDuration time.Duration

	// refreshDuration controls how long a refresh token stays redeemable.
	refreshDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repositories
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(storages *store.Storages, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:        storages.UserRepository,
		preferencesRepository: storages.PreferencesRepository,
		tokenRepository:       storages.TokenRepository,
		credentialsValidator:  validators.NewCredentialsValidator(),
		passwordPolicy:        validators.NewPasswordPolicy(),
		hashKey:               cfg.HashKey,
		tokenSignKey:          cfg.TokenSignKey,
		tokenIssuer:           cfg.TokenIssuer,
		tokenDuration:         cfg.TokenDuration,
		refreshDuration:       cfg.RefreshDuration,
		logger:                logger,
	}
}

// RegisterUser creates a new user account together with its default
// preferences document.
//
// The request is validated (presence of all fields, email shape, password
// policy with the submitted username and email as identity attributes), the
// password is bcrypt-hashed, and persistence is delegated to the
// UserRepository. The default preferences are then provisioned through
// DefaultPreferences; a race with another provisioning write is tolerated.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - *ValidationError with per-field messages when validation fails.
//   - A wrapped storage error if the repository call fails (e.g. login
//     already taken — see store.ErrLoginAlreadyExists).
func (a *authService) RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.credentialsValidator.Validate(ctx, request); err != nil {
		log.Error().Err(err).Str("username", request.Username).Msg("invalid registration data provided")
		return models.User{}, credentialsValidationError(err)
	}

	passwordHash, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: passwordHash,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", request.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	// provision the default preferences document
	defaults := DefaultPreferences(registeredUser.UserID, registeredUser.Username, registeredUser.Email)
	if _, err := a.preferencesRepository.Create(ctx, defaults); err != nil && !errors.Is(err, store.ErrPreferencesAlreadyExist) {
		log.Err(err).Int64("user_id", registeredUser.UserID).Msg("default preferences provisioning failed")
		return models.User{}, fmt.Errorf("default preferences provisioning failed: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// It validates that both Username and Password are present, looks up the
// account, and bcrypt-compares the supplied password against the stored hash.
//
// Returns the authenticated user record or:
//   - *ValidationError if Username or Password is missing.
//   - ErrWrongPassword when the account is unknown or the password does not
//     match; the two cases are deliberately indistinguishable to the caller.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.credentialsValidator.Validate(ctx, request); err != nil {
		log.Error().Err(err).Str("username", request.Username).Msg("invalid login data provided")
		return models.User{}, credentialsValidationError(err)
	}

	foundUser, err := a.userRepository.FindUserByLogin(ctx, request.Username)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrWrongPassword
		}

		log.Err(err).Str("username", request.Username).Msg("user search by login failed")
		return models.User{}, fmt.Errorf("user search by login failed: %w", err)
	}

	if !utils.CheckPassword(foundUser.PasswordHash, request.Password) {
		log.Warn().
			Int64("id", foundUser.UserID).
			Str("username", foundUser.Username).
			Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT access token for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// CreateRefreshToken mints an opaque refresh token for the given user and
// stores its keyed digest. The raw value is returned to the caller exactly
// once; only the digest ever reaches the database.
func (a *authService) CreateRefreshToken(ctx context.Context, user models.User) (string, error) {
	log := logger.FromContext(ctx)

	raw := uuid.NewString()

	record := models.RefreshToken{
		UserID:    user.UserID,
		TokenHash: utils.HashString(raw, a.hashKey),
		ExpiresAt: time.Now().Add(a.refreshDuration),
	}

	if _, err := a.tokenRepository.Store(ctx, record); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("refresh token persistence failed")
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return raw, nil
}

// Refresh redeems a refresh token for a fresh access/refresh token pair.
//
// The supplied value is digested and looked up; unknown, revoked, or expired
// tokens all collapse to ErrRefreshTokenInvalid. On success the redeemed
// token is revoked together with the user's other outstanding tokens and a
// new pair is issued (single-use rotation).
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return models.TokenPair{}, ErrRefreshTokenInvalid
	}

	record, err := a.tokenRepository.FindByHash(ctx, utils.HashString(refreshToken, a.hashKey))
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return models.TokenPair{}, ErrRefreshTokenInvalid
		}

		log.Err(err).Msg("refresh token lookup failed")
		return models.TokenPair{}, fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if !record.Valid(time.Now()) {
		return models.TokenPair{}, ErrRefreshTokenInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, record.UserID)
	if err != nil {
		log.Err(err).Int64("user_id", record.UserID).Msg("refresh token owner lookup failed")
		return models.TokenPair{}, fmt.Errorf("refresh token owner lookup failed: %w", err)
	}

	// rotation: the redeemed token (and any sibling) is no longer usable
	if err := a.tokenRepository.RevokeAllForUser(ctx, record.UserID); err != nil {
		log.Err(err).Int64("user_id", record.UserID).Msg("refresh token revocation failed")
		return models.TokenPair{}, fmt.Errorf("refresh token revocation failed: %w", err)
	}

	return a.issueTokenPair(ctx, user)
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// UpdatePassword changes the user's password and invalidates every
// outstanding refresh token.
//
// Flow:
//  1. both currentPassword and newPassword must be present;
//  2. the current password must bcrypt-match the stored hash — ErrWrongPassword
//     otherwise;
//  3. the new password must pass the password policy with the stored
//     username and email as identity attributes;
//  4. the stored hash is replaced in a single UPDATE;
//  5. all refresh tokens are revoked and a fresh pair is minted, so other
//     sessions cannot refresh with pre-change tokens.
func (a *authService) UpdatePassword(ctx context.Context, userID int64, request models.PasswordUpdateRequest) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	missing := models.ValidationErrors{}
	if request.CurrentPassword == "" {
		missing["currentPassword"] = "This field is required."
	}
	if request.NewPassword == "" {
		missing["newPassword"] = "This field is required."
	}
	if len(missing) > 0 {
		return models.TokenPair{}, &ValidationError{Errors: missing}
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup failed")
		return models.TokenPair{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, request.CurrentPassword) {
		log.Warn().Int64("user_id", userID).Msg("wrong current password")
		return models.TokenPair{}, ErrWrongPassword
	}

	if err := a.passwordPolicy.Validate(request.NewPassword, user.Username, user.Email); err != nil {
		return models.TokenPair{}, &ValidationError{Errors: models.ValidationErrors{"newPassword": err.Error()}}
	}

	newHash, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("password hashing failed")
		return models.TokenPair{}, fmt.Errorf("password hashing failed: %w", err)
	}

	if err := a.userRepository.UpdatePassword(ctx, userID, newHash); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("password update failed")
		return models.TokenPair{}, fmt.Errorf("password update failed: %w", err)
	}

	// pre-change sessions must not be able to refresh
	if err := a.tokenRepository.RevokeAllForUser(ctx, userID); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("refresh token revocation failed")
		return models.TokenPair{}, fmt.Errorf("refresh token revocation failed: %w", err)
	}

	return a.issueTokenPair(ctx, user)
}

// issueTokenPair mints a signed access token and a stored refresh token for
// the given user.
func (a *authService) issueTokenPair(ctx context.Context, user models.User) (models.TokenPair, error) {
	access, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := a.CreateRefreshToken(ctx, user)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access.SignedString, Refresh: refresh}, nil
}

// credentialsValidationError translates a validators sentinel into a
// *ValidationError keyed by the offending wire field.
func credentialsValidationError(err error) error {
	field := "nonFieldErrors"
	switch {
	case errors.Is(err, validators.ErrEmptyUsername):
		field = "username"
	case errors.Is(err, validators.ErrEmptyEmail), errors.Is(err, validators.ErrInvalidEmail):
		field = "email"
	case errors.Is(err, validators.ErrEmptyPassword),
		errors.Is(err, validators.ErrPasswordTooShort),
		errors.Is(err, validators.ErrPasswordEntirelyNumeric),
		errors.Is(err, validators.ErrPasswordTooSimilar),
		errors.Is(err, validators.ErrPasswordTooCommon):
		field = "password"
	}

	return &ValidationError{Errors: models.ValidationErrors{field: err.Error()}}
}
