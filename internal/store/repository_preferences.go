package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/jackc/pgerrcode"
)

// preferencesRepository is the PostgreSQL-backed implementation of
// [PreferencesRepository]. It executes all preferences CRUD operations
// against the "preferences" table using the embedded [*DB] connection.
//
// The four preference groups each live in their own JSONB column; rows are
// decoded with [scanPreferencesRow] and written through the squirrel query
// builders in sql_queries.go.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (user_id, updated groups, etc.).
type preferencesRepository struct {
	*DB
	logger *logger.Logger
}

// NewPreferencesRepository constructs a [PreferencesRepository] backed by
// the provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewPreferencesRepository(db *DB, logger *logger.Logger) PreferencesRepository {
	return &preferencesRepository{
		DB:     db,
		logger: logger,
	}
}

// Create inserts a complete preferences document for the owner carried in
// prefs.UserID and returns the stored row, including the server-assigned
// timestamps.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrPreferencesAlreadyExist]
//     (the owner already has a document).
//   - Query build / group encoding failure → returned as-is.
//   - Any other driver-level error → wrapped with [ErrExecutingStatement].
func (p *preferencesRepository) Create(ctx context.Context, prefs models.Preferences) (models.Preferences, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertPreferencesQuery(ctx, prefs)
	if err != nil {
		log.Err(err).
			Str("func", "preferencesRepository.Create").
			Int64("user_id", prefs.UserID).
			Msg("failed to create query")
		return models.Preferences{}, err
	}

	var saved models.Preferences
	err = p.DB.queryRowWithRetry(ctx, func(row *sql.Row) error {
		var scanErr error
		saved, scanErr = scanPreferencesRow(row)
		return scanErr
	}, query, args...)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Preferences{}, ErrPreferencesAlreadyExist
		}

		log.Err(err).
			Str("func", "preferencesRepository.Create").
			Int64("user_id", prefs.UserID).
			Msg("failed to insert preferences")
		return models.Preferences{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return saved, nil
}

// FindByOwner retrieves the preferences document owned by the given user.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrPreferencesNotFound].
//   - Any other failure → wrapped with [ErrExecutingQuery].
func (p *preferencesRepository) FindByOwner(ctx context.Context, userID int64) (models.Preferences, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectPreferencesQuery(ctx, userID)
	if err != nil {
		log.Err(err).
			Str("func", "preferencesRepository.FindByOwner").
			Int64("user_id", userID).
			Msg("failed to create query")
		return models.Preferences{}, err
	}

	var found models.Preferences
	err = p.DB.queryRowWithRetry(ctx, func(row *sql.Row) error {
		var scanErr error
		found, scanErr = scanPreferencesRow(row)
		return scanErr
	}, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{}, ErrPreferencesNotFound
		}

		log.Err(err).
			Str("func", "preferencesRepository.FindByOwner").
			Int64("user_id", userID).
			Msg("failed to query preferences")
		return models.Preferences{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// Save applies a group-level partial update to the owner's document: every
// non-nil group in update replaces the stored JSONB column wholesale, nil
// groups stay untouched. updated_at always advances, created_at never
// changes. The updated row is returned.
//
// Error handling:
//   - [sql.ErrNoRows] (UPDATE matched nothing) → [ErrPreferencesNotFound].
//   - Query build / group encoding failure → returned as-is.
//   - Any other failure → wrapped with [ErrExecutingStatement].
func (p *preferencesRepository) Save(ctx context.Context, userID int64, update models.PreferencesUpdate) (models.Preferences, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdatePreferencesQuery(ctx, userID, update)
	if err != nil {
		log.Err(err).
			Str("func", "preferencesRepository.Save").
			Int64("user_id", userID).
			Msg("failed to create query")
		return models.Preferences{}, err
	}

	var saved models.Preferences
	err = p.DB.queryRowWithRetry(ctx, func(row *sql.Row) error {
		var scanErr error
		saved, scanErr = scanPreferencesRow(row)
		return scanErr
	}, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{}, ErrPreferencesNotFound
		}

		log.Err(err).
			Str("func", "preferencesRepository.Save").
			Int64("user_id", userID).
			Msg("failed to update preferences")
		return models.Preferences{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return saved, nil
}

// Delete removes the owner's preferences document.
//
// Returns [ErrPreferencesNotFound] when the DELETE affects zero rows.
func (p *preferencesRepository) Delete(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeletePreferencesQuery(ctx, userID)
	if err != nil {
		log.Err(err).
			Str("func", "preferencesRepository.Delete").
			Int64("user_id", userID).
			Msg("failed to create query")
		return err
	}

	result, err := p.DB.execWithRetry(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "preferencesRepository.Delete").
			Int64("user_id", userID).
			Msg("failed to delete preferences")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "preferencesRepository.Delete").
			Int64("user_id", userID).
			Msg("failed to get affected rows count")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrPreferencesNotFound
	}

	return nil
}

// rowScanner abstracts *sql.Row for scanPreferencesRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPreferencesRow decodes one preferences row in the column order of
// [preferencesColumns]: the four JSONB groups arrive as raw bytes and are
// unmarshalled into their group structs.
func scanPreferencesRow(row rowScanner) (models.Preferences, error) {
	var (
		prefs         models.Preferences
		account       []byte
		notifications []byte
		theme         []byte
		privacy       []byte
	)

	if err := row.Scan(&prefs.UserID, &account, &notifications, &theme, &privacy, &prefs.CreatedAt, &prefs.UpdatedAt); err != nil {
		return models.Preferences{}, err
	}

	if err := json.Unmarshal(account, &prefs.Account); err != nil {
		return models.Preferences{}, fmt.Errorf("%w: account: %w", ErrDecodingDocument, err)
	}
	if err := json.Unmarshal(notifications, &prefs.Notifications); err != nil {
		return models.Preferences{}, fmt.Errorf("%w: notifications: %w", ErrDecodingDocument, err)
	}
	if err := json.Unmarshal(theme, &prefs.Theme); err != nil {
		return models.Preferences{}, fmt.Errorf("%w: theme: %w", ErrDecodingDocument, err)
	}
	if err := json.Unmarshal(privacy, &prefs.Privacy); err != nil {
		return models.Preferences{}, fmt.Errorf("%w: privacy: %w", ErrDecodingDocument, err)
	}

	return prefs, nil
}
