package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
)

// SessionCleanupWorker periodically deletes expired and revoked sessions.
type SessionCleanupWorker struct {
	authService service.AuthService
	interval    time.Duration
	logger      *logger.Logger
}

func NewSessionCleanupWorker(authService service.AuthService, interval time.Duration, logger *logger.Logger) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		authService: authService,
		interval:    interval,
		logger:      logger,
	}
}

// Run purges once immediately and then on every tick until ctx is cancelled.
// A non-positive interval disables the worker.
func (w *SessionCleanupWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Warn().Msg("session cleanup disabled: non-positive interval")
		return
	}

	ctx = w.logger.WithContext(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.purge(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("session cleanup worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *SessionCleanupWorker) purge(ctx context.Context) {
	purged, err := w.authService.PurgeStaleSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Err(err).Msg("error purging stale sessions")
		}
		return
	}
	if purged > 0 {
		w.logger.Info().Int64("purged", purged).Msg("stale sessions purged")
	}
}
