package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/models"
	"github.com/jackc/pgerrcode"
)

func newTestTokenRepo(t *testing.T) (*tokenRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &tokenRepository{
		DB:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func tokenColumns() []string {
	return []string{"id", "user_id", "token_hash", "expires_at", "revoked", "created_at"}
}

func TestTokenStore_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	expiresAt := time.Now().Add(24 * time.Hour)
	token := models.RefreshToken{
		UserID:    42,
		TokenHash: "digest",
		ExpiresAt: expiresAt,
	}

	rows := sqlmock.
		NewRows(tokenColumns()).
		AddRow(1, token.UserID, token.TokenHash, token.ExpiresAt, false, time.Now())

	mock.ExpectQuery("INSERT INTO refresh_tokens").
		WithArgs(token.UserID, token.TokenHash, token.ExpiresAt).
		WillReturnRows(rows)

	saved, err := repo.Store(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != 1 {
		t.Errorf("expected ID=1, got %d", saved.ID)
	}
	if saved.Revoked {
		t.Error("new token must not be revoked")
	}
}

func TestTokenStore_ExecError(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO refresh_tokens").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Store(context.Background(), models.RefreshToken{UserID: 42})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got: %v", err)
	}
}

func TestTokenFindByHash_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows(tokenColumns()).
		AddRow(1, int64(42), "digest", time.Now().Add(time.Hour), false, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs("digest").
		WillReturnRows(rows)

	found, err := repo.FindByHash(context.Background(), "digest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 42 {
		t.Errorf("expected UserID=42, got %d", found.UserID)
	}
}

func TestTokenFindByHash_NotFound(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByHash(context.Background(), "unknown")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got: %v", err)
	}
}

func TestTokenRevokeAllForUser_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.RevokeAllForUser(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenRevokeAllForUser_NoActiveSessions(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE refresh_tokens").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// zero revoked rows is not an error
	if err := repo.RevokeAllForUser(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenDeleteExpired_Success(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 5))

	removed, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 5 {
		t.Errorf("expected 5 removed rows, got %d", removed)
	}
}

func TestTokenDeleteExpired_ExecError(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.DeleteExpired(context.Background(), time.Now())
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got: %v", err)
	}
}

func TestTokenDeleteExpired_RetriesAfterConnectionFailure(t *testing.T) {
	repo, mock, db := newTestTokenRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(now).
		WillReturnError(pgError(pgerrcode.ConnectionFailure))
	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed rows, got %d", removed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
