package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/store"
)

// TokenCleanupWorker periodically deletes expired and revoked refresh tokens
// so the refresh_tokens table does not grow without bound. Redeeming and
// revoking only flip the revoked flag; this sweep is the only place rows are
// physically removed.
type TokenCleanupWorker struct {
	ctx      context.Context
	tokens   store.TokenRepository
	interval time.Duration
	logger   *logger.Logger
}

func NewTokenCleanupWorker(ctx context.Context, tokens store.TokenRepository, interval time.Duration, logger *logger.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		ctx:      ctx,
		tokens:   tokens,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the sweep loop in its own goroutine and returns immediately.
// The loop stops when the worker's context is cancelled.
func (w *TokenCleanupWorker) Run() {
	go w.loop()
}

func (w *TokenCleanupWorker) loop() {
	w.logger.Info().Dur("interval", w.interval).Msg("refresh token cleanup worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info().Msg("refresh token cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *TokenCleanupWorker) sweep() {
	deleted, err := w.tokens.DeleteExpired(w.ctx, time.Now())
	if err != nil {
		w.logger.Err(err).Msg("refresh token cleanup sweep failed")
		return
	}

	if deleted > 0 {
		w.logger.Info().Int64("deleted", deleted).Msg("expired refresh tokens removed")
	}
}
