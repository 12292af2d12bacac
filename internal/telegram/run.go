package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poryadindom/leadbot/internal/config"
	"github.com/poryadindom/leadbot/internal/logger"
	"github.com/poryadindom/leadbot/internal/telegram/middleware"
	"github.com/poryadindom/leadbot/internal/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Config   *config.Config
	Registry *Registry

	DispatcherOptions sender.Options

	// TextFallback answers messages that are not commands or contacts.
	TextFallback tele.HandlerFunc
	// ContactHandler receives shared phone numbers.
	ContactHandler tele.HandlerFunc

	DisableWebhookCleanup bool

	// OnStart runs after the bot is built but before polling begins.
	OnStart func(ctx context.Context, bot *tele.Bot, disp *sender.Dispatcher) error
}

// NewBot builds a Telebot instance from config with the tuned HTTP client.
func NewBot(cfg *config.Config) (*tele.Bot, error) {
	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	return bot, nil
}

// Run wires middlewares and routes onto the bot and polls until the context
// is done. The dispatcher is drained and closed on exit.
func Run(ctx context.Context, bot *tele.Bot, disp *sender.Dispatcher, opts RunOptions) error {
	if opts.Config == nil {
		return errors.New("telegram: nil config provided")
	}
	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	logPollerMode(ctx, bot.Poller, cfg)

	if !opts.DisableWebhookCleanup && strings.EqualFold(cfg.Telegram.RunMode, RunModeLongpoll) {
		if err := deleteWebhook(cfg.Telegram.Token); err != nil {
			logger.Warn(ctx, "tg", "delete_webhook.fail", slog.String("err", err.Error()))
		}
	}

	bot.Use(middleware.Recover)
	if interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[strings.ToLower(kind)] = struct{}{}
		}
		bot.Use(middleware.RateLimit(middleware.RateLimitOptions{
			Interval: interval,
			Exclude:  exclude,
		}))
	}
	bot.Use(middleware.Logger)

	adminOpts := middleware.AdminOptions{AdminID: cfg.Telegram.AdminID}
	for name, cmd := range reg.Commands() {
		handler := cmd.Handler
		if cmd.AdminOnly {
			handler = middleware.AdminOnly(adminOpts, handler)
		}
		bot.Handle(name, handler)
	}

	bot.Handle(tele.OnCallback, func(c tele.Context) error {
		key := CallbackKey(c)
		if handler, ok := reg.GetCallback(key); ok {
			return handler(c)
		}
		logger.Debug(middleware.CtxOf(c), "tg", "callback.unknown",
			slog.String("cb_key", logger.SanitizeLimit(key, 128)),
		)
		return c.Respond(&tele.CallbackResponse{})
	})

	if opts.ContactHandler != nil {
		bot.Handle(tele.OnContact, opts.ContactHandler)
	}
	if opts.TextFallback != nil {
		bot.Handle(tele.OnText, opts.TextFallback)
	}

	InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, bot, disp); err != nil {
			disp.Close()
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	disp.Close()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func logPollerMode(ctx context.Context, poller tele.Poller, cfg *config.Config) {
	switch p := poller.(type) {
	case *tele.Webhook:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", "webhook"),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
		)
	default:
		timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
		if timeoutSec <= 0 {
			timeoutSec = 10
		}
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", "longpoll"),
			slog.Int("timeout_seconds", timeoutSec),
		)
	}
}

func deleteWebhook(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/deleteWebhook", token)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		strings.NewReader("drop_pending_updates=false"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleteWebhook status: %s", resp.Status)
	}
	return nil
}
