package scheduler

import (
	"context"
	"time"

	"apexmine/internal/service"
	"apexmine/pkg/logger"
)

// Scheduler runs the daily yield distribution. It ticks frequently but
// distributes at most once per UTC day; the day marker lives in the
// database so a restart mid-day does not double-pay.
type Scheduler struct {
	mining   *service.MiningService
	interval time.Duration
	log      *logger.Logger
}

func New(mining *service.MiningService, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{mining: mining, interval: interval, log: log}
}

// Run blocks until ctx is cancelled. Call in its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.WithField("interval", s.interval.String()).Info("distribution scheduler started")
	s.tick()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("distribution scheduler stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	now := time.Now()
	due, err := s.mining.ShouldRunSweep(now)
	if err != nil {
		s.log.WithError(err).Error("sweep day check failed")
		return
	}
	if !due {
		return
	}
	credited, skipped, err := s.mining.DistributeDaily()
	if err != nil {
		s.log.WithError(err).Error("daily distribution failed")
		return
	}
	if err := s.mining.MarkSweepDone(now); err != nil {
		s.log.WithError(err).Error("failed to record distribution day")
		return
	}
	s.log.WithField("credited", credited).WithField("skipped", skipped).
		WithField("day", now.UTC().Format("2006-01-02")).Info("daily distribution recorded")
}
