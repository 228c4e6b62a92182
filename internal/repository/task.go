package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "board_id", "column_id", "title", "description", "status", "priority",
	"area", "assigned_to", "created_by", "client_id", "due_date", "reference_links",
	"created_at", "updated_at",
}

const provenanceIndex = "idx_tasks_provenance"

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.BoardID,
		&task.ColumnID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Area,
		&task.AssignedTo,
		&task.CreatedBy,
		&task.ClientID,
		&task.DueDate,
		&task.Links,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, domain.Unavailable("scan task", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("iterate rows", err)
	}
	return tasks, nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, qb sq.SelectBuilder, op string) ([]*domain.Task, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable(op, err)
	}
	return scanTasks(rows)
}

// GetTask retrieves a task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetTask query: %w", err)
	}
	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// CreateTask inserts a task. A second task for the same workflow transition
// violates the provenance index and yields domain.ErrDuplicateProvenance.
func (r *TaskRepository) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	links, err := json.Marshal(t.Links)
	if err != nil {
		return nil, fmt.Errorf("marshal reference links: %w", err)
	}

	query, args, err := psql.
		Insert("tasks").
		Columns("board_id", "column_id", "title", "description", "status", "priority",
			"area", "assigned_to", "created_by", "client_id", "due_date", "reference_links").
		Values(t.BoardID, t.ColumnID, t.Title, t.Description, t.Status, t.Priority,
			t.Area, t.AssignedTo, t.CreatedBy, t.ClientID, t.DueDate, links).
		Suffix("RETURNING " + joinColumns(taskColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateTask query: %w", err)
	}

	created, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if isUniqueViolation(err, provenanceIndex) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateProvenance, t.Links.Provenance.WorkflowTransitionID)
	}
	if err != nil {
		return nil, domain.Unavailable("insert task", err)
	}
	return created, nil
}

// FindTaskByTransition finds the task materialized from a workflow transition.
func (r *TaskRepository) FindTaskByTransition(ctx context.Context, transitionID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Expr("reference_links -> 'provenance' ->> 'workflow_transition_id' = ?", transitionID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindTaskByTransition query: %w", err)
	}
	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, fmt.Errorf("%w: no task for transition %s", domain.ErrTaskNotFound, transitionID)
	}
	return task, err
}

// UpdatePlacement writes column, status and the client approval sub-record,
// leaving the other reference link keys untouched.
func (r *TaskRepository) UpdatePlacement(
	ctx context.Context,
	taskID string,
	columnID string,
	status domain.TaskStatus,
	approval *domain.ApprovalState,
) error {
	links := sq.Expr("reference_links - 'client_approval'")
	if approval != nil {
		data, err := json.Marshal(approval)
		if err != nil {
			return fmt.Errorf("marshal client approval: %w", err)
		}
		links = sq.Expr("jsonb_set(reference_links, '{client_approval}', ?::jsonb)", data)
	}

	query, args, err := psql.
		Update("tasks").
		Set("column_id", columnID).
		Set("status", status).
		Set("reference_links", links).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdatePlacement query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return domain.Unavailable("update task placement", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return nil
}

// StampAlert writes one alert kind's bookkeeping. updated_at is not touched,
// so alerting never resets staleness.
func (r *TaskRepository) StampAlert(ctx context.Context, taskID string, kind domain.AlertKind, state domain.AlertState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal alert state: %w", err)
	}

	query, args, err := psql.
		Update("tasks").
		Set("reference_links", sq.Expr(
			"jsonb_set(jsonb_set(reference_links, '{alerts}', COALESCE(reference_links -> 'alerts', '{}'::jsonb)), ARRAY['alerts', ?::text], ?::jsonb)",
			string(kind), data,
		)).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build StampAlert query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return domain.Unavailable("stamp alert", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return nil
}

// ListTasksByBoard lists a board's tasks in creation order.
func (r *TaskRepository) ListTasksByBoard(ctx context.Context, boardID string) ([]*domain.Task, error) {
	return r.queryTasks(ctx, psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"board_id": boardID}).
		OrderBy("created_at", "id"),
		"list board tasks")
}

// ListOverdueTasks returns one page of tasks due before page.Now whose column
// is not terminal and whose overdue alert is not rate-limited.
func (r *TaskRepository) ListOverdueTasks(ctx context.Context, page domain.ScanPage) ([]*domain.Task, error) {
	qb := psql.
		Select(prefixed("t", taskColumns)...).
		From("tasks t").
		Join("board_columns c ON c.id = t.column_id").
		Where(sq.Lt{"t.due_date": page.Now}).
		Where(sq.NotEq{"c.stage_key": domain.StageDone}).
		Where(sq.NotEq{"t.status": []domain.TaskStatus{domain.TaskStatusCancelled, domain.TaskStatusCompleted}})
	return r.queryTasks(ctx, scanPaged(qb, page, domain.AlertOverdueTask), "list overdue tasks")
}

// ListApprovalsDue returns one page of tasks with a pending client approval
// whose deadline is before page.Now and whose reminder is not rate-limited.
func (r *TaskRepository) ListApprovalsDue(ctx context.Context, page domain.ScanPage) ([]*domain.Task, error) {
	qb := psql.
		Select(prefixed("t", taskColumns)...).
		From("tasks t").
		Where(sq.Expr("(t.reference_links -> 'client_approval' ->> 'due_at')::timestamptz < ?", page.Now)).
		Where(sq.Expr("t.reference_links -> 'client_approval' ->> 'status' = ?", string(domain.ApprovalStatusPending))).
		Where(sq.NotEq{"t.status": []domain.TaskStatus{domain.TaskStatusCancelled, domain.TaskStatusCompleted}})
	return r.queryTasks(ctx, scanPaged(qb, page, domain.AlertClientApprovalOverdue), "list overdue approvals")
}

// scanPaged adds the alert rate limit and the id keyset to a scan query.
func scanPaged(qb sq.SelectBuilder, page domain.ScanPage, kind domain.AlertKind) sq.SelectBuilder {
	if !page.NotifiedBefore.IsZero() {
		const last = "t.reference_links -> 'alerts' -> ?::text ->> 'last_notified_at'"
		qb = qb.Where(sq.Or{
			sq.Expr("("+last+") IS NULL", string(kind)),
			sq.Expr("("+last+")::timestamptz <= ?", string(kind), page.NotifiedBefore),
		})
	}
	if page.AfterID != "" {
		qb = qb.Where(sq.Gt{"t.id": page.AfterID})
	}
	qb = qb.OrderBy("t.id")
	if page.Limit > 0 {
		qb = qb.Limit(uint64(page.Limit))
	}
	return qb
}

// ListAwaitingApproval returns the client's tasks sitting in an approval column.
func (r *TaskRepository) ListAwaitingApproval(ctx context.Context, clientID string) ([]*domain.Task, error) {
	if _, err := uuid.Parse(clientID); err != nil {
		return nil, nil
	}
	return r.queryTasks(ctx, psql.
		Select(prefixed("t", taskColumns)...).
		From("tasks t").
		Join("board_columns c ON c.id = t.column_id").
		Where(sq.Eq{"t.client_id": clientID, "c.stage_key": domain.StageApproval}).
		OrderBy("t.created_at", "t.id"),
		"list awaiting approval")
}
