package aggregates

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"presswatch/config"
	"presswatch/core/utils"
)

// OrphanSweeper collects stored blobs that no incident_files row references.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, olderThan time.Duration) (int, error)
}

// Scheduler runs the platform-count reconciliation and the orphan-blob sweep
// on cron schedules.
type Scheduler struct {
	cfg     config.ReconcilerConfig
	grace   time.Duration
	updater *Updater
	sweeper OrphanSweeper
	logger  *utils.Logger

	cron *cron.Cron
}

func NewScheduler(cfg config.ReconcilerConfig, uploads config.UploadsConfig, updater *Updater, sweeper OrphanSweeper, logger *utils.Logger) *Scheduler {
	grace := time.Duration(uploads.OrphanGraceMinutes) * time.Minute
	if grace <= 0 {
		grace = time.Hour
	}
	return &Scheduler{cfg: cfg, grace: grace, updater: updater, sweeper: sweeper, logger: logger}
}

func (s *Scheduler) StartWithContext(ctx context.Context) {
	if s == nil || !s.cfg.Enabled {
		return
	}
	c := cron.New()
	if s.updater != nil && s.cfg.Schedule != "" {
		if _, err := c.AddFunc(s.cfg.Schedule, func() { s.runReconcile(ctx) }); err != nil && s.logger != nil {
			s.logger.Errorf("reconcile schedule %q: %v", s.cfg.Schedule, err)
		}
	}
	if s.sweeper != nil && s.cfg.SweepSchedule != "" {
		if _, err := c.AddFunc(s.cfg.SweepSchedule, func() { s.runSweep(ctx) }); err != nil && s.logger != nil {
			s.logger.Errorf("sweep schedule %q: %v", s.cfg.SweepSchedule, err)
		}
	}
	s.cron = c
	c.Start()
}

func (s *Scheduler) StopWithContext(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runReconcile(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	affected, err := s.updater.RecomputePlatformCounts(runCtx)
	if err != nil {
		if s.logger != nil {
			s.logger.Errorf("scheduled reconcile: %v", err)
		}
		return
	}
	if affected > 0 && s.logger != nil {
		s.logger.Printf("scheduled reconcile updated %d platform counter(s)", affected)
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if _, err := s.sweeper.SweepOrphans(runCtx, s.grace); err != nil && s.logger != nil {
		s.logger.Errorf("scheduled orphan sweep: %v", err)
	}
}
