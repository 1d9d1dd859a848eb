package usecase

import (
	"context"
	"testing"
	"time"
)

type fakeDriver struct {
	job     func(time.Time)
	started bool
	stopped bool
}

func (d *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	d.started = true
	d.job = job
	return nil
}

func (d *fakeDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSweeperRunsExpiry(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{}
	store := &fakeStore{expired: 3}
	sweeper := NewSweeper(driver, store, discardLogger())

	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !driver.started || driver.job == nil {
		t.Fatal("sweep job not registered")
	}

	driver.job(time.Now())
	if store.sweeps != 1 {
		t.Errorf("store swept %d times, want 1", store.sweeps)
	}

	if err := sweeper.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !driver.stopped {
		t.Error("driver not stopped")
	}
}

func TestSweeperWithoutDriver(t *testing.T) {
	t.Parallel()

	sweeper := NewSweeper(nil, &fakeStore{}, discardLogger())
	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sweeper.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
