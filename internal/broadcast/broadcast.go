// Package broadcast delivers one message to every known lead. Per-recipient
// delivery failures (blocked bot, dead chat) are logged and swallowed so one
// bad recipient never aborts the rest of the send.
package broadcast

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poryadindom/leadbot/internal/logger"
)

// Sender delivers one message to one recipient.
type Sender interface {
	SendTo(ctx context.Context, id int64, text string) error
}

// IDLister exposes every known lead id.
type IDLister interface {
	AllIDs(ctx context.Context) ([]int64, error)
}

// Options bounds the broadcast worker pool.
type Options struct {
	// Workers caps concurrent sends.
	Workers int
	// Pace is a minimum delay applied before each send per worker, keeping
	// the aggregate rate below transport throttling thresholds.
	Pace time.Duration
}

// Dispatcher fans one message out to all known leads.
type Dispatcher struct {
	leads  IDLister
	sender Sender
	opts   Options
}

// New builds a Dispatcher with sane defaults for zeroed options.
func New(leads IDLister, sender Sender, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Dispatcher{leads: leads, sender: sender, opts: opts}
}

// Broadcast sends text to every known lead id. It returns an error only when
// the recipient list itself cannot be read; individual delivery failures are
// counted and logged.
func (d *Dispatcher) Broadcast(ctx context.Context, text string) error {
	ids, err := d.leads.AllIDs(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	var sent, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if d.opts.Pace > 0 {
				timer := time.NewTimer(d.opts.Pace)
				select {
				case <-gctx.Done():
					timer.Stop()
					return nil
				case <-timer.C:
				}
			}
			if err := d.sender.SendTo(gctx, id, text); err != nil {
				failed.Add(1)
				logger.Warn(gctx, "broadcast", "send.fail",
					slog.Int64("lead_id", id),
					slog.String("err", err.Error()),
				)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info(ctx, "broadcast", "summary",
		slog.Int("total", len(ids)),
		slog.Int64("sent", sent.Load()),
		slog.Int64("failed", failed.Load()),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
