// Package campaign runs the fixed-cadence marketing sends: the every-other-day
// promo and the Monday news digest.
package campaign

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poryadindom/leadbot/internal/logger"
)

// Job is a periodic task with its own calendar.
type Job interface {
	Name() string
	NextRun(now time.Time) time.Time
	Run(ctx context.Context) error
}

// Scheduler runs each registered job on its own goroutine, sleeping until the
// job's next calendar slot.
type Scheduler struct {
	jobs []Job
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds a job. Must be called before Run.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run blocks until ctx is cancelled, firing every registered job on schedule.
// Job failures are logged and the job stays scheduled; there is no retry.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		logger.Warn(ctx, "campaign", "scheduler.empty")
		<-ctx.Done()
		return nil
	}

	logger.Info(ctx, "campaign", "scheduler.start",
		slog.Int("jobs", len(s.jobs)),
	)

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runJob(ctx, job)
		}()
	}
	wg.Wait()
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	for {
		now := time.Now()
		next := job.NextRun(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info(ctx, "campaign", "job.stop",
				slog.String("job", job.Name()),
			)
			return
		case <-timer.C:
			start := time.Now()
			err := job.Run(ctx)
			if err != nil {
				logger.Error(ctx, "campaign", "job.fail",
					slog.String("job", job.Name()),
					slog.String("err", err.Error()),
					slog.Duration("duration", logger.Took(start)),
				)
				continue
			}
			logger.Info(ctx, "campaign", "job.done",
				slog.String("job", job.Name()),
				slog.Duration("duration", logger.Took(start)),
			)
		}
	}
}

// nextOddDayAt returns the first instant after now that falls on an
// odd-numbered day of the month at the given hour. Matches the "*/2" day step
// of a cron day-of-month field, which always starts from day 1.
func nextOddDayAt(now time.Time, hour int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	for !t.After(now) || t.Day()%2 == 0 {
		t = t.AddDate(0, 0, 1)
		t = time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	}
	return t
}

// nextWeekdayAt returns the first instant after now on the given weekday at
// the given hour.
func nextWeekdayAt(now time.Time, weekday time.Weekday, hour int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	for !t.After(now) || t.Weekday() != weekday {
		t = t.AddDate(0, 0, 1)
		t = time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	}
	return t
}
