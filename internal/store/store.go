// Package store persists lead records. Every Ensure/Update commits before
// returning; per-id write serialization is delegated to the backing engine.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/poryadindom/leadbot/internal/domain"
)

// ErrNotFound is returned by Get for ids that were never ensured.
var ErrNotFound = errors.New("store: lead not found")

// Field names accepted by Update. Updates with any other name are rejected.
const (
	FieldName      = "name"
	FieldGoal      = "goal"
	FieldProperty  = "property"
	FieldCity      = "city"
	FieldDistrict  = "district"
	FieldFinancing = "financing"
	FieldHandover  = "handover"
	FieldFinishing = "finishing"
	FieldPhone     = "phone"
)

var allowedFields = map[string]struct{}{
	FieldName:      {},
	FieldGoal:      {},
	FieldProperty:  {},
	FieldCity:      {},
	FieldDistrict:  {},
	FieldFinancing: {},
	FieldHandover:  {},
	FieldFinishing: {},
	FieldPhone:     {},
}

// ErrUnknownField is returned by Update when fields contains a name outside
// the lead schema.
var ErrUnknownField = errors.New("store: unknown lead field")

// DayCount is one bucket of the per-day lead counts used for admin stats.
type DayCount struct {
	Day   time.Time `db:"day"`
	Count int       `db:"count"`
}

// Leads is the lead record store contract.
type Leads interface {
	// Ensure creates a record with only id and creation timestamp if none
	// exists. Idempotent.
	Ensure(ctx context.Context, id int64) error
	// Update overwrites exactly the named fields of an existing record,
	// leaving others untouched. No-op when fields is empty.
	Update(ctx context.Context, id int64, fields map[string]string) error
	// Get returns the full current record or ErrNotFound.
	Get(ctx context.Context, id int64) (domain.Lead, error)
	// Count returns the number of distinct ids ever ensured.
	Count(ctx context.Context) (int, error)
	// AllIDs returns every known id. Order is unspecified.
	AllIDs(ctx context.Context) ([]int64, error)
	// CountByDay returns per-day lead counts for the trailing window.
	CountByDay(ctx context.Context, days int) ([]DayCount, error)

	// SetState persists the conversation state for an ensured id.
	SetState(ctx context.Context, id int64, st domain.State) error
	// GetState returns the persisted state, or StateIdle for unknown ids.
	GetState(ctx context.Context, id int64) (domain.State, error)
}

func checkFields(fields map[string]string) error {
	for name := range fields {
		if _, ok := allowedFields[name]; !ok {
			return ErrUnknownField
		}
	}
	return nil
}
