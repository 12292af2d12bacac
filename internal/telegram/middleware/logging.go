package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poryadindom/leadbot/internal/logger"

	tele "gopkg.in/telebot.v4"
)

const ctxKey = "log_ctx"

// StoreCtx attaches a request context to the Telebot context so that
// downstream handlers can log with the same rid and update metadata.
func StoreCtx(c tele.Context, ctx context.Context) {
	c.Set(ctxKey, ctx)
}

// CtxOf returns the request context stored by the Logger middleware.
func CtxOf(c tele.Context) context.Context {
	if v, ok := c.Get(ctxKey).(context.Context); ok && v != nil {
		return v
	}
	return logger.Background()
}

// Logger assigns a rid to every update, stores an enriched context for
// downstream handlers and logs a single receipt line per update.
func Logger(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		StoreCtx(c, ctx)

		attrs := []slog.Attr{}
		if user != nil && user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		switch {
		case upd.Callback != nil:
			key, payload := splitCallback(upd.Callback)
			if key != "" {
				attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
			}
			if payload != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
			}
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.Debug(ctx, "tg", "update.received", attrs...)

		return next(c)
	}
}

func splitCallback(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), parts[1]
	}
	return strings.TrimSpace(parts[0]), ""
}
