package telegram

import (
	"github.com/poryadindom/leadbot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// PromptMarkup converts a conversation prompt into Telebot reply markup.
// Inline rows become callback or URL buttons, a contact request becomes a
// one-time reply keyboard with a single phone-sharing button.
func PromptMarkup(p flow.Prompt) *tele.ReplyMarkup {
	switch {
	case p.RequestContact:
		markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
		markup.Reply(markup.Row(markup.Contact(p.ContactButton())))
		return markup
	case p.RemoveKeyboard:
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	case len(p.Rows) > 0:
		markup := &tele.ReplyMarkup{}
		inline := make([][]tele.InlineButton, 0, len(p.Rows))
		for _, row := range p.Rows {
			r := make([]tele.InlineButton, 0, len(row))
			for _, b := range row {
				var btn tele.Btn
				if b.URL != "" {
					btn = markup.URL(b.Text, b.URL)
				} else {
					btn = markup.Data(b.Text, b.Key, b.Data)
				}
				r = append(r, *btn.Inline())
			}
			inline = append(inline, r)
		}
		markup.InlineKeyboard = inline
		return markup
	default:
		return nil
	}
}
