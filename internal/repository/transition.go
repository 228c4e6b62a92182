package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

var transitionColumns = []string{
	"id", "from_area", "to_area", "trigger_event", "payload", "status",
	"completed_at", "error_message", "created_by", "created_at", "updated_at",
}

// TransitionRepository handles database operations for the workflow ledger.
type TransitionRepository struct {
	pool *pgxpool.Pool
}

// NewTransitionRepository creates a new TransitionRepository.
func NewTransitionRepository(pool *pgxpool.Pool) *TransitionRepository {
	return &TransitionRepository{pool: pool}
}

func scanTransition(row pgx.Row) (*domain.WorkflowTransition, error) {
	var t domain.WorkflowTransition
	err := row.Scan(
		&t.ID,
		&t.FromArea,
		&t.ToArea,
		&t.TriggerEvent,
		&t.Payload,
		&t.Status,
		&t.CompletedAt,
		&t.ErrorMessage,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransitionNotFound
		}
		return nil, domain.Unavailable("scan transition", err)
	}
	if t.Payload == nil {
		t.Payload = domain.Payload{}
	}
	return &t, nil
}

// GetTransition retrieves a ledger entry by ID.
func (r *TransitionRepository) GetTransition(ctx context.Context, id string) (*domain.WorkflowTransition, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, id)
	}
	query, args, err := psql.
		Select(transitionColumns...).
		From("workflow_transitions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetTransition query: %w", err)
	}
	return scanTransition(r.pool.QueryRow(ctx, query, args...))
}

// CreateTransition inserts a ledger entry.
func (r *TransitionRepository) CreateTransition(ctx context.Context, t *domain.WorkflowTransition) (*domain.WorkflowTransition, error) {
	payload := t.Payload
	if payload == nil {
		payload = domain.Payload{}
	}
	status := t.Status
	if status == "" {
		status = domain.TransitionStatusPending
	}

	query, args, err := psql.
		Insert("workflow_transitions").
		Columns("from_area", "to_area", "trigger_event", "payload", "status", "created_by").
		Values(t.FromArea, t.ToArea, t.TriggerEvent, payload, status, t.CreatedBy).
		Suffix("RETURNING " + joinColumns(transitionColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateTransition query: %w", err)
	}
	return scanTransition(r.pool.QueryRow(ctx, query, args...))
}

// UpdateTransition writes status, completed_at, error_message and payload.
func (r *TransitionRepository) UpdateTransition(ctx context.Context, t *domain.WorkflowTransition) error {
	query, args, err := psql.
		Update("workflow_transitions").
		Set("status", t.Status).
		Set("completed_at", t.CompletedAt).
		Set("error_message", t.ErrorMessage).
		Set("payload", t.Payload).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateTransition query for %s: %w", t.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return domain.Unavailable("update transition", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, t.ID)
	}
	return nil
}

// ListTransitions lists ledger entries newest first, optionally filtered by status.
func (r *TransitionRepository) ListTransitions(ctx context.Context, status domain.TransitionStatus, limit int) ([]*domain.WorkflowTransition, error) {
	qb := psql.
		Select(transitionColumns...).
		From("workflow_transitions").
		OrderBy("created_at DESC", "id")
	if status != "" {
		qb = qb.Where(sq.Eq{"status": status})
	}
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListTransitions query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable("query transitions", err)
	}
	defer rows.Close()

	var out []*domain.WorkflowTransition
	for rows.Next() {
		t, err := scanTransition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("iterate rows", err)
	}
	return out, nil
}
