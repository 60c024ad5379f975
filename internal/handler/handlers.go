package handler

import (
	"github.com/MKhiriev/go-user-prefs/internal/config"
	"github.com/MKhiriev/go-user-prefs/internal/handler/http"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
