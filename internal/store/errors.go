package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same username already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrPreferencesAlreadyExist is returned when an INSERT into the
	// preferences table hits the unique constraint on user_id, meaning the
	// owner already has a preferences document.
	ErrPreferencesAlreadyExist = errors.New("preferences already exist")

	// ErrPreferencesNotFound is returned when a query or update targets a
	// preferences document (identified by user_id) that does not exist
	// in the database.
	ErrPreferencesNotFound = errors.New("preferences were not found")

	// ErrTokenNotFound is returned when a refresh token lookup by digest
	// produces an empty result set.
	ErrTokenNotFound = errors.New("refresh token was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrEncodingDocument is returned when a preferences group cannot be
	// serialised to JSON before being written to its JSONB column.
	ErrEncodingDocument = errors.New("failed to encode preferences document")

	// ErrDecodingDocument is returned when a JSONB column read from the
	// database cannot be deserialised into its preferences group.
	ErrDecodingDocument = errors.New("failed to decode preferences document")
)
