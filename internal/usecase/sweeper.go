package usecase

import (
	"context"
	"log/slog"
	"time"

	"cinewire/internal/ports"
)

// Sweeper clears expired top-story flags on a schedule.
type Sweeper struct {
	driver ports.Scheduler
	store  ports.ContentStore
	log    *slog.Logger
}

func NewSweeper(driver ports.Scheduler, store ports.ContentStore, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{driver: driver, store: store, log: log}
}

// Start registers the sweep with the scheduler driver.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.driver == nil || s.store == nil {
		return nil
	}

	job := func(now time.Time) {
		n, err := s.store.ExpireTopStories(ctx, now.UTC())
		if err != nil {
			s.log.Error("top story sweep failed", "error", err)
			return
		}
		if n > 0 {
			s.log.Info("top stories expired", "count", n)
		}
	}
	return s.driver.Start(ctx, job)
}

// Stop tears down the underlying scheduler.
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
