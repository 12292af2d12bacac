package logger

import (
	"context"
	"fmt"
	"strings"
)

type contextKey string

const (
	ridKey      contextKey = "rid"
	updateIDKey contextKey = "update_id"
	userIDKey   contextKey = "user_id"
	chatIDKey   contextKey = "chat_id"
)

// WithRID stores a request id for one Telegram update in the context.
func WithRID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, ridKey, rid)
}

// RIDFrom returns the request id stored in the context, if any.
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(ridKey).(string)
	return rid
}

// WithUpdateMeta attaches update/user/chat identifiers for downstream logging.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	ctx = context.WithValue(ctx, updateIDKey, updateID)
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, chatIDKey, chatID)
	return ctx
}

// UpdateIDFrom returns the update id from the context or zero.
func UpdateIDFrom(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	v, _ := ctx.Value(updateIDKey).(int)
	return v
}

// UserIDFrom returns the user id from the context or zero.
func UserIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	v, _ := ctx.Value(userIDKey).(int64)
	return v
}

// ChatIDFrom returns the chat id from the context or zero.
func ChatIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	v, _ := ctx.Value(chatIDKey).(int64)
	return v
}

// BuildRID composes a request id from update, chat, and user identifiers.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// Sanitize strips control characters and newlines from user-provided strings
// before they reach the logs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeLimit sanitizes and truncates a string to max runes.
func SanitizeLimit(s string, max int) string {
	s = Sanitize(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
