package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

var (
	boardColumns  = []string{"id", "name", "area_key", "client_id", "created_at"}
	columnColumns = []string{"id", "board_id", "name", "position", "stage_key", "sla_hours", "wip_limit"}
)

// BoardRepository handles database operations for boards and their columns.
type BoardRepository struct {
	pool *pgxpool.Pool
}

// NewBoardRepository creates a new BoardRepository.
func NewBoardRepository(pool *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{pool: pool}
}

func scanBoard(row pgx.Row) (*domain.Board, error) {
	var b domain.Board
	if err := row.Scan(&b.ID, &b.Name, &b.AreaKey, &b.ClientID, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, domain.Unavailable("scan board", err)
	}
	return &b, nil
}

func scanColumn(row pgx.Row) (*domain.Column, error) {
	var c domain.Column
	if err := row.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.StageKey, &c.SLAHours, &c.WIPLimit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrColumnNotFound
		}
		return nil, domain.Unavailable("scan column", err)
	}
	return &c, nil
}

// GetBoard retrieves a board with its columns ordered by position.
func (r *BoardRepository) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBoardNotFound, id)
	}
	return r.getBoardWhere(ctx, r.pool, sq.Eq{"id": id})
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *BoardRepository) getBoardWhere(ctx context.Context, q querier, pred sq.Eq) (*domain.Board, error) {
	query, args, err := psql.Select(boardColumns...).From("boards").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetBoard query: %w", err)
	}
	board, err := scanBoard(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	query, args, err = psql.
		Select(columnColumns...).
		From("board_columns").
		Where(sq.Eq{"board_id": board.ID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build board columns query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable("query board columns", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		board.Columns = append(board.Columns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("iterate rows", err)
	}
	return board, nil
}

// GetOrCreateBoard returns the board keyed by spec.AreaKey, creating it with
// spec's columns when missing. Concurrent callers converge on one board: the
// insert is ON CONFLICT DO NOTHING and the loser reads the winner's row.
func (r *BoardRepository) GetOrCreateBoard(ctx context.Context, spec domain.BoardSpec) (*domain.Board, error) {
	existing, err := r.getBoardWhere(ctx, r.pool, sq.Eq{"area_key": spec.AreaKey})
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrBoardNotFound) {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Unavailable("begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	query, args, err := psql.
		Insert("boards").
		Columns("name", "area_key", "client_id").
		Values(spec.Name, spec.AreaKey, spec.ClientID).
		Suffix("ON CONFLICT (area_key) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateBoard query: %w", err)
	}

	var boardID string
	err = tx.QueryRow(ctx, query, args...).Scan(&boardID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race; the winner has committed by the time the conflict resolves.
		_ = tx.Rollback(ctx)
		return r.getBoardWhere(ctx, r.pool, sq.Eq{"area_key": spec.AreaKey})
	}
	if err != nil {
		return nil, domain.Unavailable("insert board", err)
	}

	ins := psql.Insert("board_columns").
		Columns("board_id", "name", "position", "stage_key", "sla_hours", "wip_limit")
	for i, c := range spec.Columns {
		ins = ins.Values(boardID, c.Name, i, c.StageKey, c.SLAHours, c.WIPLimit)
	}
	query, args, err = ins.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build board columns insert: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, domain.Unavailable("insert board columns", err)
	}

	board, err := r.getBoardWhere(ctx, tx, sq.Eq{"id": boardID})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Unavailable("commit transaction", err)
	}

	slog.Info("board created", "board_id", board.ID, "area_key", board.AreaKey, "columns", len(board.Columns))
	return board, nil
}

// GetColumn retrieves one column by ID.
func (r *BoardRepository) GetColumn(ctx context.Context, id string) (*domain.Column, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrColumnNotFound, id)
	}
	query, args, err := psql.Select(columnColumns...).From("board_columns").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetColumn query: %w", err)
	}
	return scanColumn(r.pool.QueryRow(ctx, query, args...))
}
