package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// NotificationRepository persists the message center and reads the staff directory.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateInboxMessage stores a message-center notification.
func (r *NotificationRepository) CreateInboxMessage(ctx context.Context, m *domain.InboxMessage) error {
	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	query, args, err := psql.
		Insert("notifications").
		Columns("user_id", "title", "message", "link", "metadata").
		Values(m.UserID, m.Title, m.Message, m.Link, metadata).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CreateInboxMessage query: %w", err)
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return domain.Unavailable("insert notification", err)
	}
	return nil
}

// ListInbox returns a user's most recent notifications.
func (r *NotificationRepository) ListInbox(ctx context.Context, userID string, limit int) ([]domain.InboxMessage, error) {
	qb := psql.
		Select("id", "user_id", "title", "message", "link", "metadata", "created_at", "read_at").
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListInbox query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable("query notifications", err)
	}
	defer rows.Close()

	var out []domain.InboxMessage
	for rows.Next() {
		var m domain.InboxMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Message, &m.Link, &m.Metadata, &m.CreatedAt, &m.ReadAt); err != nil {
			return nil, domain.Unavailable("scan notification", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("iterate rows", err)
	}
	return out, nil
}

// ListStaffByArea returns staff members of an area, matched case-insensitively.
func (r *NotificationRepository) ListStaffByArea(ctx context.Context, area string) ([]domain.StaffMember, error) {
	query, args, err := psql.
		Select("user_id", "name", "area", "role").
		From("staff_members").
		Where(sq.Expr("lower(area) = lower(?)", area)).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListStaffByArea query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable("query staff", err)
	}
	defer rows.Close()

	var out []domain.StaffMember
	for rows.Next() {
		var m domain.StaffMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Area, &m.Role); err != nil {
			return nil, domain.Unavailable("scan staff member", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("iterate rows", err)
	}
	return out, nil
}

// UpsertStaff registers or updates a staff member.
func (r *NotificationRepository) UpsertStaff(ctx context.Context, m domain.StaffMember) error {
	if m.Role == "" {
		m.Role = string(domain.RoleStaff)
	}
	query, args, err := psql.
		Insert("staff_members").
		Columns("user_id", "name", "area", "role").
		Values(m.UserID, m.Name, m.Area, m.Role).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, area = EXCLUDED.area, role = EXCLUDED.role").
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpsertStaff query: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return domain.Unavailable("upsert staff member", err)
	}
	return nil
}
