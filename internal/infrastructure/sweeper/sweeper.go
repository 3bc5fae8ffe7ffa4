// Package sweeper periodically purges expired report rows and cache
// entries. Failures are logged and counted but never stop the loop;
// the two targets are swept independently so one failing does not skip
// the other.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/infrastructure/metrics"
)

// Sweeper runs the retention loop.
type Sweeper struct {
	repo     report.Repository
	cache    report.Cache
	interval time.Duration
	log      zerolog.Logger
	stopChan chan struct{}
}

func NewSweeper(repo report.Repository, cache report.Cache, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		cache:    cache,
		interval: interval,
		log:      log.With().Str("component", "sweeper").Logger(),
		stopChan: make(chan struct{}),
	}
}

// Start runs one immediate sweep and then repeats on the interval until
// the context is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("retention sweeper started")

	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sweeper stopped by context")
			return
		case <-s.stopChan:
			s.log.Info().Msg("sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

// SweepOnce purges both targets. Each target is attempted regardless of
// the other's outcome.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	removed, err := s.cache.DeleteExpired(ctx)
	metrics.RecordSweep("cache", removed, err)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sweep expired cache entries")
	} else if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("swept expired cache entries")
	}

	removed, err = s.repo.DeleteExpired(ctx)
	metrics.RecordSweep("reports", removed, err)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sweep expired reports")
	} else if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("swept expired reports")
	}
}
