package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
)

// DefaultSessionRetention is how long a payment session is kept past its
// advertised expiry. Late gateway notifications still find their session
// inside this window.
const DefaultSessionRetention = 24 * time.Hour

// HousekeepingService periodically purges payment sessions that are well
// past expiry so the table does not grow without bound.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to 1 hour and a non-positive retention to
// DefaultSessionRetention.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultSessionRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention),
	)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes sessions that expired more than Retention ago and returns
// how many went.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := clock(s.Now).Add(-s.Retention)

	n, err := s.Store.PaymentSessions().DeleteSessionsExpiredBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete expired payment sessions", slog.Any("error", err))
		return 0
	}

	s.Metrics.AddSessionsPurged(n)
	s.Logger.Info("housekeeping cleanup completed", slog.Int64("payment_sessions_deleted", n))
	return n
}
