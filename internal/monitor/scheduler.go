package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler drives the daily full-batch sweep: one check immediately on
// start, then one at every occurrence of Hour o'clock local time until the
// context is cancelled. It holds no state beyond the time of the next run.
type Scheduler struct {
	Checker *Checker
	// Hour is the local wall-clock hour of the daily run (default 8).
	Hour int
}

func NewScheduler(c *Checker, hour int) *Scheduler {
	return &Scheduler{Checker: c, Hour: hour}
}

func (s *Scheduler) Run(ctx context.Context) {
	logrus.Info("Starting certificate check scheduler")

	s.runOnce(ctx)

	for {
		next := nextRunAt(time.Now(), s.Hour)
		logrus.WithField("next_run", next.Format(time.RFC3339)).Info("Next scheduled check")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logrus.Info("Scheduler stopped")
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce triggers a full batch check. Any failure, including a panic from
// a collaborator, is logged and must never terminate the scheduler loop.
func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Scheduled check panicked: %v", r)
		}
	}()

	if _, err := s.Checker.CheckAll(ctx); err != nil {
		logrus.WithError(err).Error("Scheduled check failed")
	}
}

// nextRunAt returns the next occurrence of hour o'clock strictly after now,
// in now's location.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
