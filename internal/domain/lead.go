// Package domain holds the lead model, the conversation states, and the fixed
// city/district catalog offered during qualification.
package domain

import (
	"database/sql"
	"time"
)

// State identifies the question the bot is currently waiting on for a user.
// It is persisted alongside the lead so stale button presses from old messages
// cannot overwrite answers out of order.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingGoal    State = "awaiting_goal"
	StateAwaitingType    State = "awaiting_property_type"
	StateAwaitingCity    State = "awaiting_city"
	StateAwaitingDistr   State = "awaiting_district"
	StateAwaitingFinance State = "awaiting_financing"
	StateAwaitingInstall State = "awaiting_installment_location"
	StateAwaitingHand    State = "awaiting_handover"
	StateAwaitingFinish  State = "awaiting_finish"
	StateAwaitingPhone   State = "awaiting_phone"
)

// Lead is one prospective customer's accumulated qualification record, keyed
// by their Telegram user id. Fields besides ID and CreatedAt fill in
// incrementally as the conversation progresses.
type Lead struct {
	ID        int64          `db:"user_id"`
	Name      sql.NullString `db:"name"`
	Goal      sql.NullString `db:"goal"`
	Property  sql.NullString `db:"property"`
	City      sql.NullString `db:"city"`
	District  sql.NullString `db:"district"`
	Financing sql.NullString `db:"financing"`
	Handover  sql.NullString `db:"handover"`
	Finishing sql.NullString `db:"finishing"`
	Phone     sql.NullString `db:"phone"`
	State     State          `db:"state"`
	CreatedAt time.Time      `db:"created_at"`
}

// Complete reports whether every qualification field has been captured.
func (l Lead) Complete() bool {
	return l.Goal.Valid && l.Property.Valid && l.City.Valid && l.District.Valid &&
		l.Financing.Valid && l.Handover.Valid && l.Finishing.Valid && l.Phone.Valid
}

// Stored field values, matching the callback payloads of the survey buttons.
const (
	GoalLive   = "live"
	GoalInvest = "invest"

	FinancingFamily   = "family"
	FinancingNoFamily = "no_family"

	HandoverNow  = "now"
	HandoverWait = "wait"

	FinishingReady = "ready"
	FinishingGrey  = "grey"
)

// PropertyTypes lists the offered property options in display order.
var PropertyTypes = []struct {
	Code  string
	Label string
}{
	{"1", "1-комнатная"},
	{"2", "2-комнатная"},
	{"3", "3-комнатная"},
	{"house", "🏠 Дом"},
	{"studio", "Студия"},
}

// ValidPropertyType reports whether code is one of the offered options.
func ValidPropertyType(code string) bool {
	for _, p := range PropertyTypes {
		if p.Code == code {
			return true
		}
	}
	return false
}

// InstallmentLocations lists the installment sub-choice shown when the user
// declines family mortgage. The stored financing value is "install_<code>".
var InstallmentLocations = []struct {
	Code  string
	Label string
}{
	{"coast", "🏖 Побережье КК"},
	{"krasnodar", "🏙 Краснодар"},
}

// ValidInstallmentLocation reports whether code is one of the offered options.
func ValidInstallmentLocation(code string) bool {
	for _, l := range InstallmentLocations {
		if l.Code == code {
			return true
		}
	}
	return false
}
