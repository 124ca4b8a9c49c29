package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/errors"
	"notifier/pkg/metrics"
)

// Scheduler fires the publisher on a fixed interval. Firings run
// inline in the loop, so a firing that outlasts the interval delays
// the next one instead of overlapping it; the schedule itself never
// adapts to failures. The clock is injected for tests.
type Scheduler struct {
	interval  time.Duration
	clock     clockwork.Clock
	publisher *Publisher
	state     *SchedulerState
	logger    logger.Logger
}

func NewScheduler(interval time.Duration, clock clockwork.Clock, publisher *Publisher, state *SchedulerState, log logger.Logger) *Scheduler {
	return &Scheduler{
		interval:  interval,
		clock:     clock,
		publisher: publisher,
		state:     state,
		logger:    log,
	}
}

// DescribeInterval renders a cadence for humans, e.g. "every 10
// seconds".
func DescribeInterval(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("every %d seconds", int(d/time.Second))
	}
	return "every " + d.String()
}

// Descriptor is the human-readable cadence of this scheduler.
func (s *Scheduler) Descriptor() string {
	return DescribeInterval(s.interval)
}

// Run blocks until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfowCtx(ctx, "Scheduler started",
		"interval", s.interval,
	)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfowCtx(ctx, "Scheduler stopped")
			return ctx.Err()
		case <-ticker.Chan():
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	invocation := s.state.BeginFiring()
	s.logger.InfowCtx(ctx, "Timer trigger fired",
		"invocation", invocation,
	)

	err := s.publishSafely(ctx)
	s.state.CompleteFiring(err)

	if err != nil {
		metrics.SchedulerFiringsTotal.WithLabelValues("error").Inc()
		s.logger.ErrorwCtx(ctx, "Timer trigger failed",
			"invocation", invocation,
			"error", err,
		)
		return
	}

	metrics.SchedulerFiringsTotal.WithLabelValues("success").Inc()
}

// publishSafely contains any panic raised during a firing: one bad
// firing must never take the process down, and the next tick fires
// independently.
func (s *Scheduler) publishSafely(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.RecoverPanic(r)
		}
	}()

	_, err = s.publisher.Publish(ctx, constants.SourceTimerTrigger, nil)
	return err
}
