package telegram

import (
	"testing"

	"github.com/poryadindom/leadbot/internal/flow"
)

func TestPromptMarkupInline(t *testing.T) {
	p := flow.Prompt{
		Text: "q",
		Rows: [][]flow.Button{
			{{Text: "A", Key: "k", Data: "a"}, {Text: "B", Key: "k", Data: "b"}},
			{{Text: "C", Key: "k", Data: "c"}},
		},
	}
	markup := PromptMarkup(p)
	if markup == nil {
		t.Fatal("expected inline markup")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected row sizes: %d, %d",
			len(markup.InlineKeyboard[0]), len(markup.InlineKeyboard[1]))
	}
	first := markup.InlineKeyboard[0][0]
	if first.Text != "A" {
		t.Fatalf("button text = %q, want A", first.Text)
	}
	if first.Unique != "k" || first.Data != "a" {
		t.Fatalf("button unique/data = %q/%q", first.Unique, first.Data)
	}
}

func TestPromptMarkupURLButton(t *testing.T) {
	p := flow.Prompt{
		Rows: [][]flow.Button{{{Text: "Канал", URL: "https://t.me/example"}}},
	}
	markup := PromptMarkup(p)
	if markup == nil || len(markup.InlineKeyboard) != 1 {
		t.Fatal("expected one inline row")
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.URL != "https://t.me/example" {
		t.Fatalf("url = %q", btn.URL)
	}
}

func TestPromptMarkupContact(t *testing.T) {
	markup := PromptMarkup(flow.Prompt{Text: "phone", RequestContact: true})
	if markup == nil {
		t.Fatal("expected reply markup")
	}
	if !markup.OneTimeKeyboard || !markup.ResizeKeyboard {
		t.Fatal("contact keyboard must be one-time and resized")
	}
	if len(markup.ReplyKeyboard) != 1 || len(markup.ReplyKeyboard[0]) != 1 {
		t.Fatal("expected a single reply button")
	}
	if !markup.ReplyKeyboard[0][0].Contact {
		t.Fatal("reply button must request contact")
	}
}

func TestPromptMarkupRemove(t *testing.T) {
	markup := PromptMarkup(flow.Prompt{Text: "bye", RemoveKeyboard: true})
	if markup == nil || !markup.RemoveKeyboard {
		t.Fatal("expected remove-keyboard markup")
	}
}

func TestPromptMarkupNone(t *testing.T) {
	if markup := PromptMarkup(flow.Prompt{Text: "plain"}); markup != nil {
		t.Fatal("plain prompt must not carry markup")
	}
}
