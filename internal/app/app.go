// Package app assembles the bot from configuration: logger, database,
// lead store, conversation flow, broadcast fan-out, scheduled campaigns
// and the Telegram runtime.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/poryadindom/leadbot/internal/broadcast"
	"github.com/poryadindom/leadbot/internal/buildinfo"
	"github.com/poryadindom/leadbot/internal/campaign"
	"github.com/poryadindom/leadbot/internal/config"
	"github.com/poryadindom/leadbot/internal/database"
	"github.com/poryadindom/leadbot/internal/feed"
	"github.com/poryadindom/leadbot/internal/flow"
	"github.com/poryadindom/leadbot/internal/logger"
	"github.com/poryadindom/leadbot/internal/store"
	"github.com/poryadindom/leadbot/internal/telegram"
	"github.com/poryadindom/leadbot/internal/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// App holds the composed runtime.
type App struct {
	cfg       *config.Config
	db        *sqlx.DB
	bot       *tele.Bot
	disp      *sender.Dispatcher
	registry  *telegram.Registry
	handlers  *telegram.Handlers
	scheduler *campaign.Scheduler
}

// New initializes infrastructure and wires all components. The logger must
// be initialized by the caller before New.
func New(cfg *config.Config) (*App, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}
	if err := database.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	bot, err := telegram.NewBot(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	disp := sender.NewDispatcher(sender.Options{})
	gw := telegram.NewGateway(bot, disp, cfg.Telegram.Channel, cfg.Telegram.AdminID)

	leads := store.NewPostgresLeads(db)
	leadFlow := flow.New(leads, gw, cfg.Telegram.Channel)

	bcast := broadcast.New(leads, gw, broadcast.Options{
		Workers: cfg.Broadcast.Workers,
		Pace:    time.Duration(cfg.Broadcast.PaceMS) * time.Millisecond,
	})

	news := feed.NewClient(cfg.Campaign.FeedURL, nil)
	scheduler := campaign.NewScheduler()
	scheduler.Register(campaign.NewWarmupJob(bcast, cfg.Campaign.WarmupHour))
	scheduler.Register(campaign.NewDigestJob(bcast, news, cfg.Campaign.DigestHour))

	handlers := telegram.NewHandlers(leadFlow, leads, bcast, gw, cfg.Catalog)
	registry := telegram.NewRegistry()
	handlers.Register(registry)

	return &App{
		cfg:       cfg,
		db:        db,
		bot:       bot,
		disp:      disp,
		registry:  registry,
		handlers:  handlers,
		scheduler: scheduler,
	}, nil
}

// Run polls Telegram and runs the campaign scheduler until ctx is done.
func (a *App) Run(ctx context.Context) error {
	logger.Info(ctx, "app", "ready",
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.String("channel", a.cfg.Telegram.Channel),
		slog.String("run_mode", a.cfg.Telegram.RunMode),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return telegram.Run(ctx, a.bot, a.disp, telegram.RunOptions{
			Config:         a.cfg,
			Registry:       a.registry,
			ContactHandler: a.handlers.Contact,
			TextFallback:   a.handlers.Text,
		})
	})
	g.Go(func() error {
		a.scheduler.Run(ctx)
		return nil
	})

	return g.Wait()
}

// Close releases infrastructure resources.
func (a *App) Close() error {
	return a.db.Close()
}
