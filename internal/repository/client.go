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

var clientColumns = []string{"id", "name", "user_id", "email", "whatsapp", "created_at"}

// refTables maps a business reference kind to the table holding its client_id.
var refTables = map[domain.ClientRefKind]string{
	domain.ClientRefContract: "contracts",
	domain.ClientRefInvoice:  "invoices",
	domain.ClientRefProposal: "proposals",
}

// ClientRepository reads clients and the business objects that point at them.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.Name, &c.UserID, &c.Email, &c.WhatsApp, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, domain.Unavailable("scan client", err)
	}
	return &c, nil
}

// ResolveClientID follows a business reference to its owning client.
func (r *ClientRepository) ResolveClientID(ctx context.Context, ref domain.ClientRef) (string, error) {
	if _, err := uuid.Parse(ref.ID); err != nil {
		return "", fmt.Errorf("%s %q: %w", ref.Kind, ref.ID, domain.ErrNotFound)
	}

	var qb sq.SelectBuilder
	if ref.Kind == domain.ClientRefDirect {
		qb = psql.Select("id").From("clients").Where(sq.Eq{"id": ref.ID})
	} else {
		table, ok := refTables[ref.Kind]
		if !ok {
			return "", fmt.Errorf("%w: unknown reference kind %q", domain.ErrValidation, ref.Kind)
		}
		qb = psql.Select("client_id").From(table).Where(sq.Eq{"id": ref.ID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return "", fmt.Errorf("build ResolveClientID query: %w", err)
	}

	var clientID string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&clientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s %s: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		return "", domain.Unavailable(fmt.Sprintf("resolve %s %s", ref.Kind, ref.ID), err)
	}
	return clientID, nil
}

// GetClient retrieves a client by ID.
func (r *ClientRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, id)
	}
	query, args, err := psql.Select(clientColumns...).From("clients").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetClient query: %w", err)
	}
	return scanClient(r.pool.QueryRow(ctx, query, args...))
}

// GetClientByUser retrieves the client whose portal login is userID.
func (r *ClientRepository) GetClientByUser(ctx context.Context, userID string) (*domain.Client, error) {
	query, args, err := psql.Select(clientColumns...).From("clients").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetClientByUser query: %w", err)
	}
	return scanClient(r.pool.QueryRow(ctx, query, args...))
}

// CreateClient inserts a client. Used by seeding and tests.
func (r *ClientRepository) CreateClient(ctx context.Context, c *domain.Client) error {
	query, args, err := psql.
		Insert("clients").
		Columns("name", "user_id", "email", "whatsapp").
		Values(c.Name, c.UserID, c.Email, c.WhatsApp).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CreateClient query: %w", err)
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return domain.Unavailable("insert client", err)
	}
	return nil
}

// LinkReference records a contract, invoice or proposal owned by clientID.
func (r *ClientRepository) LinkReference(ctx context.Context, kind domain.ClientRefKind, id, clientID string) error {
	table, ok := refTables[kind]
	if !ok {
		return fmt.Errorf("%w: unknown reference kind %q", domain.ErrValidation, kind)
	}
	query, args, err := psql.Insert(table).Columns("id", "client_id").Values(id, clientID).ToSql()
	if err != nil {
		return fmt.Errorf("build LinkReference query: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return domain.Unavailable("insert "+table, err)
	}
	return nil
}
