package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// CreateTaskParams holds the fields for a task created directly by staff.
type CreateTaskParams struct {
	BoardID     string
	ColumnID    string // empty places the task in the first non-terminal column
	Title       string
	Description string
	Priority    domain.TaskPriority
	Area        string
	AssignedTo  string
	DueDate     *time.Time
	CreatedBy   string
}

// BoardService manages boards and task placement.
type BoardService struct {
	stores   Stores
	notifier Notifier
	columns  []domain.ColumnSpec
	cfg      config.Engine

	Now func() time.Time
}

// NewBoardService creates a new BoardService. columns is the default layout
// for boards created without explicit columns.
func NewBoardService(stores Stores, notifier Notifier, columns []domain.ColumnSpec, cfg config.Engine) *BoardService {
	return &BoardService{
		stores:   stores,
		notifier: notifier,
		columns:  columns,
		cfg:      cfg.WithDefaults(),
		Now:      systemClock,
	}
}

// CreateBoard gets or creates the board keyed by spec.AreaKey.
func (s *BoardService) CreateBoard(ctx context.Context, spec domain.BoardSpec) (*domain.Board, error) {
	if len(spec.Columns) == 0 {
		spec.Columns = s.columns
	}
	if spec.Name == "" {
		spec.Name = spec.AreaKey
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	board, err := s.stores.Boards.GetOrCreateBoard(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("get or create board: %w", err)
	}
	return board, nil
}

// GetBoard returns a board with its columns.
func (s *BoardService) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	return s.stores.Boards.GetBoard(ctx, id)
}

// GetTask returns one task.
func (s *BoardService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.stores.Tasks.GetTask(ctx, id)
}

// CreateTask places a new task on a board.
func (s *BoardService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, fmt.Errorf("%w: title", domain.ErrMissingField)
	}
	if params.Priority == "" {
		params.Priority = domain.TaskPriorityMedium
	}
	if !params.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, params.Priority)
	}

	board, err := s.stores.Boards.GetBoard(ctx, params.BoardID)
	if err != nil {
		return nil, err
	}

	var col domain.Column
	var ok bool
	if params.ColumnID != "" {
		col, ok = board.Column(params.ColumnID)
		if !ok {
			return nil, fmt.Errorf("%w: %s on board %s", domain.ErrColumnNotFound, params.ColumnID, board.ID)
		}
	} else if col, ok = board.FirstNonTerminalColumn(); !ok {
		return nil, fmt.Errorf("%w: board %s has no open column", domain.ErrNoDestinationColumn, board.ID)
	}

	now := s.Now()
	task := &domain.Task{
		BoardID:     board.ID,
		ColumnID:    col.ID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Status:      domain.TaskStatusPending,
		Priority:    params.Priority,
		Area:        params.Area,
		AssignedTo:  actorPtr(params.AssignedTo),
		CreatedBy:   actorPtr(params.CreatedBy),
		ClientID:    board.ClientID,
		DueDate:     params.DueDate,
	}
	if col.IsTerminal() {
		task.Status = domain.TaskStatusCompleted
	}
	if col.StageKey == domain.StageApproval {
		task.Status = domain.TaskStatusInReview
		task.Links.ClientApproval = EnterApproval(nil, col, now, s.cfg.DefaultApprovalSLA, params.CreatedBy, "")
	}

	created, err := s.stores.Tasks.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "task",
		EntityID:   created.ID,
		ActorID:    actorPtr(params.CreatedBy),
		Action:     domain.AuditTaskCreated,
		Details:    map[string]any{"board_id": board.ID, "column": col.Name},
	})
	if created.AssignedTo != nil && *created.AssignedTo != params.CreatedBy {
		notifyUser(ctx, s.notifier, *created.AssignedTo, domain.Notification{
			Title:   "Task assigned: " + created.Title,
			Message: fmt.Sprintf("You were assigned a task in %s.", col.Name),
			Link:    taskLink(created),
		})
	}

	slog.Info("task created", "task_id", created.ID, "board_id", board.ID, "column_id", col.ID)
	return created, nil
}

// MoveTask moves a task to another column of its board. Entering an approval
// column opens the client approval record, keeping a deadline already derived.
func (s *BoardService) MoveTask(ctx context.Context, taskID, columnID, actor string) (*domain.Task, error) {
	task, err := s.stores.Tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.stores.Boards.GetBoard(ctx, task.BoardID)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	dest, ok := board.Column(columnID)
	if !ok {
		return nil, fmt.Errorf("%w: %s on board %s", domain.ErrColumnNotFound, columnID, board.ID)
	}
	if dest.ID == task.ColumnID {
		return task, nil
	}
	from, _ := board.Column(task.ColumnID)

	now := s.Now()
	approval := task.Links.ClientApproval
	if dest.StageKey == domain.StageApproval {
		approval = EnterApproval(approval, dest, now, s.cfg.DefaultApprovalSLA, actor, from.Name)
	}
	status := StatusForColumn(dest, task.Status)

	if err := s.stores.Tasks.UpdatePlacement(ctx, task.ID, dest.ID, status, approval); err != nil {
		return nil, fmt.Errorf("update placement: %w", err)
	}

	moved := *task
	moved.ColumnID = dest.ID
	moved.Status = status
	moved.Links.ClientApproval = approval
	moved.UpdatedAt = now

	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "task",
		EntityID:   task.ID,
		ActorID:    actorPtr(actor),
		Action:     domain.AuditTaskMoved,
		Details:    map[string]any{"from_column": from.Name, "to_column": dest.Name},
	})
	if dest.StageKey == domain.StageApproval {
		s.requestClientApproval(ctx, &moved)
	}

	slog.Info("task moved",
		"task_id", task.ID,
		"from_column", from.Name,
		"to_column", dest.Name,
		"status", status,
	)
	return &moved, nil
}

// requestClientApproval tells the client's portal user that a task awaits them.
func (s *BoardService) requestClientApproval(ctx context.Context, task *domain.Task) {
	if task.ClientID == nil || s.stores.Clients == nil {
		return
	}
	client, err := s.stores.Clients.GetClient(ctx, *task.ClientID)
	if err != nil {
		slog.Warn("failed to load client for approval request", "task_id", task.ID, "error", err)
		return
	}
	if client.UserID == nil {
		return
	}
	msg := domain.Notification{
		Title:   "Approval requested: " + task.Title,
		Message: "A deliverable is waiting for your approval.",
		Link:    "/client/approvals",
	}
	if due := task.Links.ClientApproval; due != nil && due.DueAt != nil {
		msg.Message = fmt.Sprintf("A deliverable is waiting for your approval until %s.", due.DueAt.Format(time.RFC1123))
	}
	notifyUser(ctx, s.notifier, *client.UserID, msg)
}
