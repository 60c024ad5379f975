package store

import "github.com/MKhiriev/go-user-prefs/internal/logger"

// Storages bundles every repository implementation behind one value so the
// service layer receives a single dependency.
type Storages struct {
	UserRepository        UserRepository
	PreferencesRepository PreferencesRepository
	TokenRepository       TokenRepository
}

// NewStorages constructs all PostgreSQL-backed repositories on top of the
// given database connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:        NewUserRepository(db, log),
		PreferencesRepository: NewPreferencesRepository(db, log),
		TokenRepository:       NewTokenRepository(db, log),
	}
}
