package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Completer moves finished reservations to completed.
type Completer interface {
	CompleteFinished(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// NewScheduler runs c.CompleteFinished on schedule (standard cron syntax or
// descriptors such as "@every 15m").
func NewScheduler(schedule string, c Completer, log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{cron: cron.New(), log: log}
	if _, err := s.cron.AddFunc(schedule, func() { s.complete(c) }); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) complete(c Completer) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	n, err := c.CompleteFinished(ctx)
	if err != nil {
		s.log.Error("completing finished reservations failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("completed finished reservations", "count", n)
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }
