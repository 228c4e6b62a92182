package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// AuditRepository handles database operations for audit events.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// RecordAudit appends an audit event.
func (r *AuditRepository) RecordAudit(ctx context.Context, event *domain.AuditEvent) error {
	details := event.Details
	if details == nil {
		details = map[string]any{}
	}
	query, args, err := psql.
		Insert("audit_events").
		Columns("entity_kind", "entity_id", "actor_id", "action", "details").
		Values(event.EntityKind, event.EntityID, event.ActorID, event.Action, details).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		return domain.Unavailable("create audit event", err)
	}
	return nil
}

// ListByEntity retrieves all events for an entity in order.
func (r *AuditRepository) ListByEntity(ctx context.Context, kind, id string) ([]*domain.AuditEvent, error) {
	query, args, err := psql.
		Select("id", "entity_kind", "entity_id", "actor_id", "action", "details", "created_at").
		From("audit_events").
		Where(sq.Eq{"entity_kind": kind, "entity_id": id}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable("query audit events", err)
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, domain.Unavailable("scan audit event", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("iterate rows", err)
	}
	return events, nil
}
