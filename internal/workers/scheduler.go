package workers

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Scheduler fires the guarded runner on a fixed interval. Ticks are dispatched
// asynchronously so overlap handling stays with the RunGuard; a failed run is
// logged and the next tick still fires.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runOnStart bool
	wg         sync.WaitGroup
}

func NewScheduler(runner Runner, interval time.Duration, runOnStart bool) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runOnStart: runOnStart,
	}
}

// Start blocks until ctx is cancelled, then waits for any in-flight run.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Printf("🚀 Starting report scheduler: interval=%s", s.interval)
	defer s.wg.Wait()

	if s.runOnStart {
		s.fire(ctx, "startup")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.fire(ctx, "schedule")
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, reason string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err := s.runner.Run(ctx)
		switch {
		case errors.Is(err, ErrRunInProgress):
			log.Printf("Skipping %s run: previous run still in progress", reason)
		case err != nil:
			log.Printf("✗ Report run (%s) failed: %v", reason, err)
		}
	}()
}
