package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-prefs/internal/config"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps the raw *sql.DB handle together with the error classifier and a
// logger so repositories share one connection pool and one failure taxonomy.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectPostgres opens a PostgreSQL connection pool via the pgx stdlib
// driver, verifies it with a ping, and returns the wrapped handle.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}

	return db, nil
}

// Migrate applies all pending schema migrations embedded in the binary.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// queryRowWithRetry executes a single-row query and feeds the row to scan.
// When scan fails with an error the classifier marks [Retryable] (connection
// loss, deadlock rollback), the query runs once more; every other error
// fails fast. The table constraints keep a repeated INSERT safe: a first
// attempt that actually committed surfaces as a unique violation on the
// second, which the caller maps like any other duplicate.
func (db *DB) queryRowWithRetry(ctx context.Context, scan func(*sql.Row) error, query string, args ...any) error {
	err := scan(db.QueryRowContext(ctx, query, args...))
	if err != nil && db.errorClassificator.Classify(err) == Retryable {
		db.logger.Warn().Err(err).Msg("retrying query after transient database error")
		err = scan(db.QueryRowContext(ctx, query, args...))
	}

	return err
}

// execWithRetry mirrors queryRowWithRetry for statements.
func (db *DB) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil && db.errorClassificator.Classify(err) == Retryable {
		db.logger.Warn().Err(err).Msg("retrying statement after transient database error")
		result, err = db.ExecContext(ctx, query, args...)
	}

	return result, err
}

// postgresError extracts the PostgreSQL error code from err, or returns the
// empty string when err does not wrap a *pgconn.PgError.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
