package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/service"
)

// SnapshotWorker periodically recomputes the global analytics summary and
// caches it in Redis, keeping the principal dashboard off the hot read path.
type SnapshotWorker struct {
	analyticsService *service.AnalyticsService
	interval         time.Duration
	log              zerolog.Logger
}

// NewSnapshotWorker creates a new SnapshotWorker.
func NewSnapshotWorker(analyticsService *service.AnalyticsService, interval time.Duration, log zerolog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		analyticsService: analyticsService,
		interval:         interval,
		log:              log.With().Str("component", "snapshot_worker").Logger(),
	}
}

// Start runs the refresh loop until ctx is cancelled. The first refresh
// happens immediately so a restart never serves a stale snapshot for a
// full interval.
func (w *SnapshotWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("SnapshotWorker started")

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SnapshotWorker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *SnapshotWorker) refresh(ctx context.Context) {
	if err := w.analyticsService.RefreshSummarySnapshot(ctx); err != nil {
		w.log.Error().Err(err).Msg("Summary snapshot refresh failed")
	}
}
