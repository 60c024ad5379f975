package workers

import (
	"context"

	"github.com/MKhiriev/go-user-prefs/internal/config"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker the server runs: currently
// only the refresh-token cleanup sweep. A worker whose interval is zero is
// considered disabled and is not started.
func NewWorkers(ctx context.Context, storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	var workers []Worker

	if cfg.TokenCleanupInterval > 0 {
		workers = append(workers, NewTokenCleanupWorker(ctx, storages.TokenRepository, cfg.TokenCleanupInterval, logger))
	}

	return &Workers{workers: workers}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
