package campaign

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/poryadindom/leadbot/internal/feed"
	"github.com/poryadindom/leadbot/internal/logger"
)

// Broadcaster fans one message out to every known lead.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) error
}

const warmupText = "Здравствуйте! 👋 У нас появились новые варианты. Готовы получить подборку?"

const digestHeader = "📰 Еженедельный дайджест новостей рынка недвижимости:"

// digestItems is how many feed entries the weekly digest carries.
const digestItems = 3

// WarmupJob broadcasts the static promo every other day at a fixed hour.
type WarmupJob struct {
	broadcaster Broadcaster
	hour        int
}

// NewWarmupJob builds the promo job firing at the given local hour.
func NewWarmupJob(b Broadcaster, hour int) *WarmupJob {
	return &WarmupJob{broadcaster: b, hour: hour}
}

func (j *WarmupJob) Name() string { return "warmup_promo" }

func (j *WarmupJob) NextRun(now time.Time) time.Time {
	return nextOddDayAt(now, j.hour)
}

func (j *WarmupJob) Run(ctx context.Context) error {
	return j.broadcaster.Broadcast(ctx, warmupText)
}

// DigestJob broadcasts the top feed items every Monday at a fixed hour.
// When the feed is unreachable or empty the send is skipped; with fewer than
// digestItems entries the digest goes out with what arrived.
type DigestJob struct {
	broadcaster Broadcaster
	feed        *feed.Client
	hour        int
}

// NewDigestJob builds the weekly news digest job.
func NewDigestJob(b Broadcaster, f *feed.Client, hour int) *DigestJob {
	return &DigestJob{broadcaster: b, feed: f, hour: hour}
}

func (j *DigestJob) Name() string { return "weekly_digest" }

func (j *DigestJob) NextRun(now time.Time) time.Time {
	return nextWeekdayAt(now, time.Monday, j.hour)
}

func (j *DigestJob) Run(ctx context.Context) error {
	items, err := j.feed.Top(ctx, digestItems)
	if err != nil {
		return fmt.Errorf("digest feed: %w", err)
	}
	if len(items) == 0 {
		logger.Warn(ctx, "campaign", "digest.empty_feed")
		return nil
	}
	if len(items) < digestItems {
		logger.Warn(ctx, "campaign", "digest.short_feed",
			slog.Int("items", len(items)),
		)
	}
	return j.broadcaster.Broadcast(ctx, FormatDigest(items))
}

// FormatDigest renders feed items as the HTML digest message.
func FormatDigest(items []feed.Item) string {
	var b strings.Builder
	b.WriteString(digestHeader)
	for _, item := range items {
		fmt.Fprintf(&b, "\n- <a href=\"%s\">%s</a>",
			item.Link, html.EscapeString(item.Title))
	}
	return b.String()
}
