package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/models"
)

// tokenRepository is the PostgreSQL-backed implementation of
// [TokenRepository]. It manages the "refresh_tokens" table, which holds
// keyed digests of issued refresh tokens so that outstanding sessions can
// be revoked server-side.
type tokenRepository struct {
	*DB
	logger *logger.Logger
}

// NewTokenRepository constructs a [TokenRepository] backed by the provided
// database connection and logger.
func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	return &tokenRepository{
		DB:     db,
		logger: logger,
	}
}

// Store persists a new refresh token record and returns it with
// server-assigned fields (ID, Revoked, CreatedAt).
func (t *tokenRepository) Store(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	err := t.DB.queryRowWithRetry(ctx, func(row *sql.Row) error {
		return row.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.Revoked, &token.CreatedAt)
	}, storeRefreshToken, token.UserID, token.TokenHash, token.ExpiresAt)
	if err != nil {
		log.Err(err).
			Str("func", "*tokenRepository.Store").
			Int64("user_id", token.UserID).
			Msg("failed to insert refresh token")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return token, nil
}

// FindByHash retrieves a refresh token by its stored digest.
//
// Returns [ErrTokenNotFound] when no row matches; validity (expiry,
// revocation) is the caller's concern.
func (t *tokenRepository) FindByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	var token models.RefreshToken
	err := t.DB.queryRowWithRetry(ctx, func(row *sql.Row) error {
		return row.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.Revoked, &token.CreatedAt)
	}, findRefreshTokenByHash, tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RefreshToken{}, ErrTokenNotFound
		}

		log.Err(err).
			Str("func", "*tokenRepository.FindByHash").
			Msg("failed to query refresh token")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return token, nil
}

// RevokeAllForUser marks every outstanding refresh token of the given user
// as revoked. Already-revoked tokens are skipped by the WHERE clause, so
// the statement is idempotent. A zero affected-rows count is not an error:
// the user may simply hold no active sessions.
func (t *tokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	_, err := t.DB.execWithRetry(ctx, revokeRefreshTokensForUser, userID)
	if err != nil {
		log.Err(err).
			Str("func", "*tokenRepository.RevokeAllForUser").
			Int64("user_id", userID).
			Msg("failed to revoke refresh tokens")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteExpired purges tokens that expired before the given moment together
// with revoked ones, returning the number of removed rows. Called
// periodically by the cleanup worker.
func (t *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := t.DB.execWithRetry(ctx, deleteExpiredRefreshTokens, now)
	if err != nil {
		log.Err(err).
			Str("func", "*tokenRepository.DeleteExpired").
			Msg("failed to delete expired refresh tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "*tokenRepository.DeleteExpired").
			Msg("failed to get affected rows count")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
