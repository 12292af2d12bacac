package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/poryadindom/leadbot/internal/domain"
)

// MemoryLeads is an in-memory Leads implementation used by tests and local
// development without a database.
type MemoryLeads struct {
	mu    sync.RWMutex
	leads map[int64]*domain.Lead
}

// NewMemoryLeads returns an empty in-memory store.
func NewMemoryLeads() *MemoryLeads {
	return &MemoryLeads{leads: make(map[int64]*domain.Lead)}
}

// Ensure creates the record if missing.
func (s *MemoryLeads) Ensure(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[id]; ok {
		return nil
	}
	s.leads[id] = &domain.Lead{
		ID:        id,
		State:     domain.StateIdle,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Update overwrites the named fields of an existing record.
func (s *MemoryLeads) Update(_ context.Context, id int64, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := checkFields(fields); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return ErrNotFound
	}
	for name, value := range fields {
		v := sql.NullString{String: value, Valid: true}
		switch name {
		case FieldName:
			lead.Name = v
		case FieldGoal:
			lead.Goal = v
		case FieldProperty:
			lead.Property = v
		case FieldCity:
			lead.City = v
		case FieldDistrict:
			lead.District = v
		case FieldFinancing:
			lead.Financing = v
		case FieldHandover:
			lead.Handover = v
		case FieldFinishing:
			lead.Finishing = v
		case FieldPhone:
			lead.Phone = v
		}
	}
	return nil
}

// Get returns a copy of the record or ErrNotFound.
func (s *MemoryLeads) Get(_ context.Context, id int64) (domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	return *lead, nil
}

// Count returns the number of known leads.
func (s *MemoryLeads) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads), nil
}

// AllIDs returns every known id in unspecified order.
func (s *MemoryLeads) AllIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.leads))
	for id := range s.leads {
		ids = append(ids, id)
	}
	return ids, nil
}

// CountByDay buckets creation timestamps by UTC day.
func (s *MemoryLeads) CountByDay(_ context.Context, days int) ([]DayCount, error) {
	if days <= 0 {
		days = 14
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	buckets := make(map[time.Time]int)
	s.mu.RLock()
	for _, lead := range s.leads {
		if lead.CreatedAt.Before(cutoff) {
			continue
		}
		day := lead.CreatedAt.Truncate(24 * time.Hour)
		buckets[day]++
	}
	s.mu.RUnlock()

	out := make([]DayCount, 0, len(buckets))
	for day, count := range buckets {
		out = append(out, DayCount{Day: day, Count: count})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Day.Before(out[j-1].Day); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

// SetState persists the conversation state for an ensured id.
func (s *MemoryLeads) SetState(_ context.Context, id int64, st domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return ErrNotFound
	}
	lead.State = st
	return nil
}

// GetState returns the state, StateIdle for unknown ids.
func (s *MemoryLeads) GetState(_ context.Context, id int64) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if lead, ok := s.leads[id]; ok {
		return lead.State, nil
	}
	return domain.StateIdle, nil
}
