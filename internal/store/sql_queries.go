package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-user-prefs/models"
)

const (
	createUser = `INSERT INTO users (username, email, password_hash) 
    VALUES ($1, $2, $3) 
    RETURNING user_id, username, email, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, username, email, password_hash, created_at 
    FROM users 
    WHERE username = $1;`

	findUserByID = `SELECT user_id, username, email, password_hash, created_at 
    FROM users 
    WHERE user_id = $1;`

	updateUserPassword = `UPDATE users 
    SET password_hash = $1 
    WHERE user_id = $2;`

	storeRefreshToken = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) 
    VALUES ($1, $2, $3) 
    RETURNING id, user_id, token_hash, expires_at, revoked, created_at;`

	findRefreshTokenByHash = `SELECT id, user_id, token_hash, expires_at, revoked, created_at 
    FROM refresh_tokens 
    WHERE token_hash = $1;`

	revokeRefreshTokensForUser = `UPDATE refresh_tokens 
    SET revoked = TRUE 
    WHERE user_id = $1 AND revoked = FALSE;`

	deleteExpiredRefreshTokens = `DELETE FROM refresh_tokens 
    WHERE expires_at < $1 OR revoked = TRUE;`
)

// psql is the shared squirrel statement builder configured for PostgreSQL
// ($N placeholders). All preferences queries are built through it.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// preferencesColumns lists the preferences table columns in the order every
// SELECT and RETURNING clause uses, matching scanPreferencesRow.
var preferencesColumns = []string{
	"user_id",
	"account",
	"notifications",
	"theme",
	"privacy",
	"created_at",
	"updated_at",
}

// returningPreferences is the RETURNING clause shared by the INSERT and
// UPDATE builders so every write hands back the canonical stored row.
var returningPreferences = "RETURNING " + strings.Join(preferencesColumns, ", ")

// buildInsertPreferencesQuery builds the INSERT for a complete preferences
// document. Each group is serialised to JSON for its JSONB column.
func buildInsertPreferencesQuery(_ context.Context, prefs models.Preferences) (string, []any, error) {
	account, err := json.Marshal(prefs.Account)
	if err != nil {
		return "", nil, fmt.Errorf("%w: account: %w", ErrEncodingDocument, err)
	}
	notifications, err := json.Marshal(prefs.Notifications)
	if err != nil {
		return "", nil, fmt.Errorf("%w: notifications: %w", ErrEncodingDocument, err)
	}
	theme, err := json.Marshal(prefs.Theme)
	if err != nil {
		return "", nil, fmt.Errorf("%w: theme: %w", ErrEncodingDocument, err)
	}
	privacy, err := json.Marshal(prefs.Privacy)
	if err != nil {
		return "", nil, fmt.Errorf("%w: privacy: %w", ErrEncodingDocument, err)
	}

	query, args, err := psql.Insert(prefs.TableName()).
		Columns("user_id", "account", "notifications", "theme", "privacy").
		Values(prefs.UserID, account, notifications, theme, privacy).
		Suffix(returningPreferences).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildSelectPreferencesQuery builds the owner lookup query.
func buildSelectPreferencesQuery(_ context.Context, userID int64) (string, []any, error) {
	query, args, err := psql.Select(preferencesColumns...).
		From(models.Preferences{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdatePreferencesQuery builds the group-level partial UPDATE: every
// non-nil group in the update replaces its JSONB column wholesale, nil
// groups are omitted from the SET list. updated_at always advances.
func buildUpdatePreferencesQuery(_ context.Context, userID int64, update models.PreferencesUpdate) (string, []any, error) {
	builder := psql.Update(models.Preferences{}.TableName()).
		Set("updated_at", sq.Expr("NOW()"))

	if update.Account != nil {
		account, err := json.Marshal(update.Account)
		if err != nil {
			return "", nil, fmt.Errorf("%w: account: %w", ErrEncodingDocument, err)
		}
		builder = builder.Set("account", account)
	}

	if update.Notifications != nil {
		notifications, err := json.Marshal(update.Notifications)
		if err != nil {
			return "", nil, fmt.Errorf("%w: notifications: %w", ErrEncodingDocument, err)
		}
		builder = builder.Set("notifications", notifications)
	}

	if update.Theme != nil {
		theme, err := json.Marshal(update.Theme)
		if err != nil {
			return "", nil, fmt.Errorf("%w: theme: %w", ErrEncodingDocument, err)
		}
		builder = builder.Set("theme", theme)
	}

	if update.Privacy != nil {
		privacy, err := json.Marshal(update.Privacy)
		if err != nil {
			return "", nil, fmt.Errorf("%w: privacy: %w", ErrEncodingDocument, err)
		}
		builder = builder.Set("privacy", privacy)
	}

	query, args, err := builder.
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningPreferences).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildDeletePreferencesQuery builds the owner-scoped DELETE.
func buildDeletePreferencesQuery(_ context.Context, userID int64) (string, []any, error) {
	query, args, err := psql.Delete(models.Preferences{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
