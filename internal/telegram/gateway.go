package telegram

import (
	"context"
	"errors"

	"github.com/poryadindom/leadbot/internal/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// channelRecipient addresses a public channel by its "@name" username.
type channelRecipient string

func (r channelRecipient) Recipient() string { return string(r) }

// Gateway is the outbound side of the bot: channel membership checks and
// direct sends routed through the retrying dispatcher.
type Gateway struct {
	bot     *tele.Bot
	disp    *sender.Dispatcher
	channel string
	adminID int64
}

// NewGateway wraps a bot for outbound calls. channel is "@name" form.
func NewGateway(bot *tele.Bot, disp *sender.Dispatcher, channel string, adminID int64) *Gateway {
	return &Gateway{bot: bot, disp: disp, channel: channel, adminID: adminID}
}

// IsChannelMember reports whether the user currently belongs to the
// promo channel. Creator and administrator count as members.
func (g *Gateway) IsChannelMember(ctx context.Context, userID int64) (bool, error) {
	member, err := g.bot.ChatMemberOf(channelRecipient(g.channel), &tele.User{ID: userID})
	if err != nil {
		var apiErr *tele.Error
		if errors.As(err, &apiErr) && apiErr.Code == 400 {
			// Telegram answers 400 for users it has never seen in the chat.
			return false, nil
		}
		return false, err
	}
	switch member.Role {
	case tele.Member, tele.Creator, tele.Administrator:
		return true, nil
	}
	return false, nil
}

// SendTo delivers a direct text message to a user, retrying transient
// failures, and reports the final delivery error.
func (g *Gateway) SendTo(ctx context.Context, userID int64, text string) error {
	return g.disp.Do(ctx, "direct.message", func() error {
		_, err := g.bot.Send(&tele.User{ID: userID}, text, tele.ModeHTML)
		return err
	})
}

// NotifyAdmin queues a notification to the configured admin. Delivery is
// asynchronous; failures are logged by the dispatcher.
func (g *Gateway) NotifyAdmin(ctx context.Context, text string) {
	_ = g.disp.Enqueue(ctx, "admin.notify", func() error {
		_, err := g.bot.Send(&tele.User{ID: g.adminID}, text)
		return err
	})
}
