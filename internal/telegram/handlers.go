package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poryadindom/leadbot/internal/broadcast"
	"github.com/poryadindom/leadbot/internal/config"
	"github.com/poryadindom/leadbot/internal/flow"
	"github.com/poryadindom/leadbot/internal/logger"
	"github.com/poryadindom/leadbot/internal/store"
	"github.com/poryadindom/leadbot/internal/telegram/middleware"

	chart "github.com/wcharczuk/go-chart/v2"
	tele "gopkg.in/telebot.v4"
)

const statsWindowDays = 7

// Handlers binds the conversation flow and admin operations to bot updates.
type Handlers struct {
	flow    *flow.Flow
	leads   store.Leads
	bcast   *broadcast.Dispatcher
	gw      *Gateway
	catalog config.CatalogConfig
}

// NewHandlers wires handler dependencies.
func NewHandlers(f *flow.Flow, leads store.Leads, bcast *broadcast.Dispatcher, gw *Gateway, catalog config.CatalogConfig) *Handlers {
	return &Handlers{flow: f, leads: leads, bcast: bcast, gw: gw, catalog: catalog}
}

// Register adds all commands and callbacks to the registry.
func (h *Handlers) Register(reg *Registry) {
	reg.RegisterCommand("/start", Command{
		Handler:     h.Start,
		Description: "Подобрать квартиру",
	})
	reg.RegisterCommand("/stats", Command{
		Handler:     h.Stats,
		Description: "Статистика по заявкам",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/broadcast", Command{
		Handler:     h.Broadcast,
		Description: "Рассылка всем пользователям",
		AdminOnly:   true,
	})

	for _, key := range []string{
		flow.CBGoal, flow.CBType, flow.CBCity, flow.CBDistrict,
		flow.CBFinancing, flow.CBInstall, flow.CBHandover, flow.CBFinish,
	} {
		reg.RegisterCallback(key, h.Callback)
	}
}

// Start begins or restarts the qualification conversation.
func (h *Handlers) Start(c tele.Context) error {
	ctx := middleware.CtxOf(c)
	res, err := h.flow.Start(ctx, c.Sender().ID, displayName(c.Sender()))
	if err != nil {
		logger.Error(ctx, "tg", "start.fail", slog.String("err", err.Error()))
		return err
	}
	return h.sendPrompts(c, res.Prompts)
}

// Callback routes a survey button press to the flow.
func (h *Handlers) Callback(c tele.Context) error {
	ctx := middleware.CtxOf(c)
	key, payload := CallbackKey(c), CallbackPayload(c)

	res, err := h.flow.Callback(ctx, c.Sender().ID, key, payload)
	if err != nil {
		logger.Error(ctx, "tg", "callback.fail",
			slog.String("cb_key", key),
			slog.String("err", err.Error()),
		)
		_ = c.Respond(&tele.CallbackResponse{})
		return err
	}
	_ = c.Respond(&tele.CallbackResponse{})
	return h.sendPrompts(c, res.Prompts)
}

// Contact captures the shared phone number and finalizes the lead.
func (h *Handlers) Contact(c tele.Context) error {
	ctx := middleware.CtxOf(c)
	contact := c.Message().Contact
	if contact == nil {
		return nil
	}

	res, err := h.flow.Contact(ctx, c.Sender().ID, contact.PhoneNumber)
	if err != nil {
		logger.Error(ctx, "tg", "contact.fail", slog.String("err", err.Error()))
		return err
	}

	if res.Completed != nil {
		h.gw.NotifyAdmin(ctx, flow.AdminSummary(*res.Completed))
		h.sendCatalog(c, ctx)
		logger.Info(ctx, "tg", "lead.completed",
			slog.Int64("lead_id", res.Completed.ID),
		)
	}
	return h.sendPrompts(c, res.Prompts)
}

// Text answers free-form messages with the keyword responder.
func (h *Handlers) Text(c tele.Context) error {
	return c.Send(flow.Respond(c.Text()))
}

// Stats reports lead totals to the admin with a per-day bar chart.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := middleware.CtxOf(c)

	total, err := h.leads.Count(ctx)
	if err != nil {
		return err
	}
	days, err := h.leads.CountByDay(ctx, statsWindowDays)
	if err != nil {
		return err
	}

	var window int
	bars := make([]chart.Value, 0, len(days))
	for _, d := range days {
		window += d.Count
		bars = append(bars, chart.Value{
			Label: d.Day.Format("02.01"),
			Value: float64(d.Count),
		})
	}

	summary := fmt.Sprintf("Всего заявок: %d\nЗа %d дней: %d", total, statsWindowDays, window)
	if window == 0 {
		return c.Send(summary)
	}

	graph := chart.BarChart{
		Title:    "Заявки по дням",
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		logger.Warn(ctx, "tg", "stats.chart_fail", slog.String("err", err.Error()))
		return c.Send(summary)
	}

	photo := &tele.Photo{
		File:    tele.FromReader(&buf),
		Caption: summary,
	}
	return c.Send(photo)
}

// Broadcast sends the command payload to every known lead.
func (h *Handlers) Broadcast(c tele.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Send("Использование: /broadcast <текст сообщения>")
	}

	// Delivery runs detached from the update so long fan-outs do not block
	// the poller.
	rid := logger.RIDFrom(middleware.CtxOf(c))
	go func() {
		ctx := logger.WithRID(logger.Background(), rid)
		if err := h.bcast.Broadcast(ctx, text); err != nil {
			logger.Error(ctx, "tg", "broadcast.fail", slog.String("err", err.Error()))
		}
	}()

	return c.Send("Рассылка запущена.")
}

func (h *Handlers) sendPrompts(c tele.Context, prompts []flow.Prompt) error {
	for _, p := range prompts {
		var err error
		if markup := PromptMarkup(p); markup != nil {
			err = c.Send(p.Text, markup)
		} else {
			err = c.Send(p.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// sendCatalog delivers the PDF catalog if the configured file exists.
func (h *Handlers) sendCatalog(c tele.Context, ctx context.Context) {
	if h.catalog.Path == "" {
		return
	}
	if _, err := os.Stat(h.catalog.Path); err != nil {
		logger.Warn(ctx, "tg", "catalog.missing",
			slog.String("path", h.catalog.Path),
		)
		return
	}
	doc := &tele.Document{
		File:     tele.FromDisk(h.catalog.Path),
		FileName: filepath.Base(h.catalog.Path),
		Caption:  h.catalog.Caption,
	}
	if err := c.Send(doc); err != nil {
		logger.Warn(ctx, "tg", "catalog.send_fail",
			slog.String("err", err.Error()),
		)
	}
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.Username
	}
	return name
}
