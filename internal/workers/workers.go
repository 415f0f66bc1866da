package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the background workers of the server.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		NewSessionCleanupWorker(services.AuthService, cfg.SessionCleanupInterval, logger),
	}}
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}
