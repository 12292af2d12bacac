package store

import (
	"context"
	"errors"
	"testing"

	"github.com/poryadindom/leadbot/internal/domain"
)

func TestEnsureThenGetReturnsBareRecord(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()

	if err := s.Ensure(ctx, 123); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	lead, err := s.Get(ctx, 123)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.ID != 123 {
		t.Fatalf("id = %d", lead.ID)
	}
	if lead.CreatedAt.IsZero() {
		t.Fatal("created_at must be set")
	}
	if lead.Goal.Valid || lead.Name.Valid || lead.Phone.Valid {
		t.Fatal("fresh record must have no populated fields")
	}
	if lead.State != domain.StateIdle {
		t.Fatalf("state = %s", lead.State)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()

	if err := s.Ensure(ctx, 1); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := s.Update(ctx, 1, map[string]string{FieldGoal: domain.GoalInvest}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Ensure(ctx, 1); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	lead, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.Goal.String != domain.GoalInvest {
		t.Fatal("ensure must not reset existing fields")
	}
}

func TestUpdateTouchesOnlyNamedFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()

	if err := s.Ensure(ctx, 7); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := s.Update(ctx, 7, map[string]string{
		FieldGoal: domain.GoalLive,
		FieldCity: "moscow",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Update(ctx, 7, map[string]string{FieldCity: "spb"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	lead, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.Goal.String != domain.GoalLive {
		t.Fatalf("goal changed: %q", lead.Goal.String)
	}
	if lead.City.String != "spb" {
		t.Fatalf("city = %q", lead.City.String)
	}
	if lead.District.Valid {
		t.Fatal("district must remain unset")
	}
}

func TestUpdateEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()
	if err := s.Update(ctx, 404, nil); err != nil {
		t.Fatalf("empty update must be a no-op, got %v", err)
	}
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()
	if err := s.Ensure(ctx, 1); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	err := s.Update(ctx, 1, map[string]string{"budget": "1000000"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestCountDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()

	for _, id := range []int64{1, 2, 3, 2, 1} {
		if err := s.Ensure(ctx, id); err != nil {
			t.Fatalf("ensure %d: %v", id, err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := s.Update(ctx, 1, map[string]string{FieldPhone: "+79990000000"}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()
	if _, err := s.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLeads()

	st, err := s.GetState(ctx, 5)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if st != domain.StateIdle {
		t.Fatalf("unknown id state = %s", st)
	}

	if err := s.Ensure(ctx, 5); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := s.SetState(ctx, 5, domain.StateAwaitingCity); err != nil {
		t.Fatalf("set state: %v", err)
	}
	st, err = s.GetState(ctx, 5)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if st != domain.StateAwaitingCity {
		t.Fatalf("state = %s", st)
	}
}
