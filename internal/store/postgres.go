package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/poryadindom/leadbot/internal/domain"
	"github.com/poryadindom/leadbot/internal/logger"
)

// PostgresLeads implements Leads on top of the leads table.
type PostgresLeads struct {
	db *sqlx.DB
}

// NewPostgresLeads wraps an already-connected database handle.
func NewPostgresLeads(db *sqlx.DB) *PostgresLeads {
	return &PostgresLeads{db: db}
}

// Ensure inserts the id with a creation timestamp unless it already exists.
func (s *PostgresLeads) Ensure(ctx context.Context, id int64) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (user_id, state, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO NOTHING`,
		id, domain.StateIdle,
	)
	if err != nil {
		logger.Error(ctx, "store", "lead.ensure",
			slog.Int64("lead_id", id),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("ensure lead %d: %w", id, err)
	}
	logger.Debug(ctx, "store", "lead.ensure",
		slog.Int64("lead_id", id),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// Update overwrites the named fields. Field names are validated against the
// lead schema before any SQL is built.
func (s *PostgresLeads) Update(ctx context.Context, id int64, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := checkFields(fields); err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		set = append(set, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, fields[name])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE leads SET %s WHERE user_id = $%d",
		strings.Join(set, ", "), len(args))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error(ctx, "store", "lead.update",
			slog.Int64("lead_id", id),
			slog.String("fields", strings.Join(names, ",")),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("update lead %d: %w", id, err)
	}
	logger.Debug(ctx, "store", "lead.update",
		slog.Int64("lead_id", id),
		slog.String("fields", strings.Join(names, ",")),
	)
	return nil
}

// Get returns the full record or ErrNotFound.
func (s *PostgresLeads) Get(ctx context.Context, id int64) (domain.Lead, error) {
	var lead domain.Lead
	err := s.db.GetContext(ctx, &lead, `
		SELECT user_id, name, goal, property, city, district,
		       financing, handover, finishing, phone, state, created_at
		FROM leads WHERE user_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead %d: %w", id, err)
	}
	return lead, nil
}

// Count returns the number of known leads.
func (s *PostgresLeads) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM leads`); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return count, nil
}

// AllIDs returns every known lead id.
func (s *PostgresLeads) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM leads`); err != nil {
		return nil, fmt.Errorf("list lead ids: %w", err)
	}
	return ids, nil
}

// CountByDay buckets lead creation timestamps by day for the trailing window.
func (s *PostgresLeads) CountByDay(ctx context.Context, days int) ([]DayCount, error) {
	if days <= 0 {
		days = 14
	}
	var out []DayCount
	err := s.db.SelectContext(ctx, &out, `
		SELECT date_trunc('day', created_at) AS day, COUNT(*) AS count
		FROM leads
		WHERE created_at >= now() - ($1 * interval '1 day')
		GROUP BY day
		ORDER BY day`, days)
	if err != nil {
		return nil, fmt.Errorf("count leads by day: %w", err)
	}
	return out, nil
}

// SetState persists the conversation state.
func (s *PostgresLeads) SetState(ctx context.Context, id int64, st domain.State) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE leads SET state = $1 WHERE user_id = $2`, st, id); err != nil {
		return fmt.Errorf("set state for %d: %w", id, err)
	}
	return nil
}

// GetState returns the persisted state, StateIdle for unknown ids.
func (s *PostgresLeads) GetState(ctx context.Context, id int64) (domain.State, error) {
	var st domain.State
	err := s.db.GetContext(ctx, &st,
		`SELECT state FROM leads WHERE user_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StateIdle, nil
	}
	if err != nil {
		return domain.StateIdle, fmt.Errorf("get state for %d: %w", id, err)
	}
	return st, nil
}
