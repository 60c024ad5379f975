package service

import (
	"github.com/MKhiriev/go-user-prefs/internal/config"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/store"
)

// Services bundles every service implementation behind one value so the
// handler layer receives a single dependency.
type Services struct {
	AuthService        AuthService
	PreferencesService PreferencesService
	AppInfoService     AppInfoService
}

// NewServices wires the service layer: the preferences service is wrapped
// with its validation decorator, and both services share the storages.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	preferencesService := NewPreferencesValidationService().
		Wrap(NewPreferencesService(storages, logger))

	return &Services{
		AuthService:        NewAuthService(storages, cfg.App, logger),
		PreferencesService: preferencesService,
		AppInfoService:     appInfoService,
	}, nil
}
