// Package flow implements the lead qualification conversation: a linear
// sequence of questions driven by inline button callbacks, with the current
// state persisted per user so stale button presses from old messages are
// ignored instead of overwriting answers out of order.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poryadindom/leadbot/internal/domain"
	"github.com/poryadindom/leadbot/internal/logger"
	"github.com/poryadindom/leadbot/internal/store"
)

// Callback keys for the survey buttons. The payload carries the chosen value.
const (
	CBGoal      = "lead_goal"
	CBType      = "lead_type"
	CBCity      = "lead_city"
	CBDistrict  = "lead_district"
	CBFinancing = "lead_financing"
	CBInstall   = "lead_install"
	CBHandover  = "lead_handover"
	CBFinish    = "lead_finish"
)

// stateKeys maps each waiting state to the only callback key it accepts.
var stateKeys = map[domain.State]string{
	domain.StateAwaitingGoal:    CBGoal,
	domain.StateAwaitingType:    CBType,
	domain.StateAwaitingCity:    CBCity,
	domain.StateAwaitingDistr:   CBDistrict,
	domain.StateAwaitingFinance: CBFinancing,
	domain.StateAwaitingInstall: CBInstall,
	domain.StateAwaitingHand:    CBHandover,
	domain.StateAwaitingFinish:  CBFinish,
}

// Membership checks whether a user has joined the broadcast channel.
type Membership interface {
	IsChannelMember(ctx context.Context, userID int64) (bool, error)
}

// Button is one option offered to the user.
type Button struct {
	Text string
	Key  string // callback key; empty for URL buttons
	Data string // callback payload
	URL  string // link button, used by the join prompt
}

// Prompt is one outgoing message with its option set.
type Prompt struct {
	Text           string
	Rows           [][]Button
	RequestContact bool
	RemoveKeyboard bool
}

// Result is the outcome of one conversation step. Completed is non-nil only
// when the phone was just captured and the lead record is fully read back.
type Result struct {
	Prompts   []Prompt
	Completed *domain.Lead
}

// Flow drives the qualification conversation against the lead store.
type Flow struct {
	leads   store.Leads
	members Membership
	channel string // "@name"
}

// New builds a Flow. channel is the required broadcast channel in "@name" form.
func New(leads store.Leads, members Membership, channel string) *Flow {
	return &Flow{leads: leads, members: members, channel: channel}
}

// Start handles /start: ensures the record, saves the display name, gates on
// channel membership, and either shows the join prompt or the first question.
func (f *Flow) Start(ctx context.Context, userID int64, displayName string) (Result, error) {
	if err := f.leads.Ensure(ctx, userID); err != nil {
		return Result{}, err
	}
	if displayName != "" {
		if err := f.leads.Update(ctx, userID, map[string]string{store.FieldName: displayName}); err != nil {
			return Result{}, err
		}
	}

	member, err := f.members.IsChannelMember(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("membership check for %d: %w", userID, err)
	}
	if !member {
		logger.Debug(ctx, "flow", "start.not_member", slog.Int64("lead_id", userID))
		return Result{Prompts: []Prompt{promptJoin(f.channel)}}, nil
	}

	if err := f.leads.SetState(ctx, userID, domain.StateAwaitingGoal); err != nil {
		return Result{}, err
	}
	return Result{Prompts: []Prompt{promptGoal()}}, nil
}

// Callback handles a survey button press. Presses that do not match the
// user's persisted state are ignored.
func (f *Flow) Callback(ctx context.Context, userID int64, key, payload string) (Result, error) {
	st, err := f.leads.GetState(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if expected, ok := stateKeys[st]; !ok || expected != key {
		logger.Debug(ctx, "flow", "callback.stale",
			slog.Int64("lead_id", userID),
			slog.String("state", string(st)),
			slog.String("cb_key", key),
		)
		return Result{}, nil
	}

	switch key {
	case CBGoal:
		return f.step(ctx, userID, payload, isGoal, store.FieldGoal, payload,
			domain.StateAwaitingType, promptPropertyType())
	case CBType:
		return f.step(ctx, userID, payload, domain.ValidPropertyType, store.FieldProperty, payload,
			domain.StateAwaitingCity, promptCities())
	case CBCity:
		city, ok := domain.CityByKey(payload)
		if !ok {
			return Result{}, nil
		}
		return f.step(ctx, userID, payload, func(string) bool { return true }, store.FieldCity, payload,
			domain.StateAwaitingDistr, promptDistricts(city))
	case CBDistrict:
		return f.district(ctx, userID, payload)
	case CBFinancing:
		return f.financing(ctx, userID, payload)
	case CBInstall:
		if !domain.ValidInstallmentLocation(payload) {
			return Result{}, nil
		}
		return f.step(ctx, userID, payload, domain.ValidInstallmentLocation,
			store.FieldFinancing, "install_"+payload,
			domain.StateAwaitingHand, promptHandover())
	case CBHandover:
		return f.step(ctx, userID, payload, isHandover, store.FieldHandover, payload,
			domain.StateAwaitingFinish, promptFinish())
	case CBFinish:
		return f.step(ctx, userID, payload, isFinishing, store.FieldFinishing, payload,
			domain.StateAwaitingPhone, promptPhone())
	}
	return Result{}, nil
}

// step validates the payload, writes one field, advances the state, and
// returns the next prompt.
func (f *Flow) step(ctx context.Context, userID int64, payload string, valid func(string) bool,
	field, value string, next domain.State, prompt Prompt) (Result, error) {

	if !valid(payload) {
		logger.Debug(ctx, "flow", "callback.invalid_payload",
			slog.Int64("lead_id", userID),
			slog.String("field", field),
			slog.String("payload", logger.SanitizeLimit(payload, 64)),
		)
		return Result{}, nil
	}
	if err := f.leads.Update(ctx, userID, map[string]string{field: value}); err != nil {
		return Result{}, err
	}
	if err := f.leads.SetState(ctx, userID, next); err != nil {
		return Result{}, err
	}
	logger.Debug(ctx, "flow", "step",
		slog.Int64("lead_id", userID),
		slog.String("field", field),
		slog.String("next", string(next)),
	)
	return Result{Prompts: []Prompt{prompt}}, nil
}

// district additionally checks that the chosen district belongs to the city
// stored one step earlier; the keyboard only offers valid ones, but the store
// never enforces this, so the payload is re-checked here.
func (f *Flow) district(ctx context.Context, userID int64, payload string) (Result, error) {
	lead, err := f.leads.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if !lead.City.Valid || !domain.ValidDistrict(lead.City.String, payload) {
		logger.Debug(ctx, "flow", "callback.invalid_district",
			slog.Int64("lead_id", userID),
			slog.String("city", lead.City.String),
			slog.String("payload", logger.SanitizeLimit(payload, 64)),
		)
		return Result{}, nil
	}
	return f.step(ctx, userID, payload, func(string) bool { return true },
		store.FieldDistrict, payload, domain.StateAwaitingFinance, promptFinancing())
}

// financing branches: family mortgage skips the installment sub-choice.
func (f *Flow) financing(ctx context.Context, userID int64, payload string) (Result, error) {
	switch payload {
	case "yes":
		return f.step(ctx, userID, payload, func(string) bool { return true },
			store.FieldFinancing, domain.FinancingFamily,
			domain.StateAwaitingHand, promptHandover())
	case "no":
		return f.step(ctx, userID, payload, func(string) bool { return true },
			store.FieldFinancing, domain.FinancingNoFamily,
			domain.StateAwaitingInstall, promptInstall())
	}
	return Result{}, nil
}

// Contact handles the shared phone number: the final step of the survey.
// The state resets to idle so the same user can restart the conversation;
// the record persists and a restart re-overwrites its fields.
func (f *Flow) Contact(ctx context.Context, userID int64, phone string) (Result, error) {
	st, err := f.leads.GetState(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if st != domain.StateAwaitingPhone {
		logger.Debug(ctx, "flow", "contact.unexpected",
			slog.Int64("lead_id", userID),
			slog.String("state", string(st)),
		)
		return Result{}, nil
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return Result{}, nil
	}
	if err := f.leads.Update(ctx, userID, map[string]string{store.FieldPhone: phone}); err != nil {
		return Result{}, err
	}
	lead, err := f.leads.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if err := f.leads.SetState(ctx, userID, domain.StateIdle); err != nil {
		return Result{}, err
	}

	logger.Info(ctx, "flow", "lead.completed",
		slog.Int64("lead_id", userID),
		slog.Bool("complete", lead.Complete()),
	)
	return Result{
		Prompts:   []Prompt{promptThanks()},
		Completed: &lead,
	}, nil
}

func isGoal(p string) bool {
	return p == domain.GoalLive || p == domain.GoalInvest
}

func isHandover(p string) bool {
	return p == domain.HandoverNow || p == domain.HandoverWait
}

func isFinishing(p string) bool {
	return p == domain.FinishingReady || p == domain.FinishingGrey
}
