package telegram

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/poryadindom/leadbot/internal/logger"

	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
}

// Registry holds bot commands and callback handlers keyed by callback unique.
type Registry struct {
	commands    map[string]Command
	callbacks   map[string]tele.HandlerFunc
	callbacksMu sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a new command. Invalid or duplicate registrations
// are logged and skipped.
func (r *Registry) RegisterCommand(name string, cmd Command) {
	if name == "" || !strings.HasPrefix(name, "/") || cmd.Handler == nil {
		logger.Warn(logger.Background(), "tg", "register.command.skip",
			slog.String("name", name),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.Warn(logger.Background(), "tg", "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// ListCommands returns a sorted slice of tele.Command, optionally
// filtering out hidden and admin-only commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// RegisterCallback adds a callback handler mapped to its key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) {
	if key == "" || handler == nil {
		logger.Warn(logger.Background(), "tg", "register.callback.skip",
			slog.String("key", key),
		)
		return
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		logger.Warn(logger.Background(), "tg", "register.callback.duplicate",
			slog.String("key", key),
		)
		return
	}
	r.callbacks[key] = handler
}

// GetCallback returns the handler registered for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// InitBotCommands publishes the visible command list to the Telegram menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	if err := bot.SetCommands(reg.ListCommands(true)); err != nil {
		logger.Error(logger.Background(), "tg", "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
