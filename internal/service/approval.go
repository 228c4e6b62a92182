package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/metrics"
)

// ApprovalOutcome is the result of a client approval action.
type ApprovalOutcome struct {
	Task       *domain.Task
	FromColumn domain.Column
	ToColumn   domain.Column
}

// PendingApproval is a task awaiting the client, with its deadline.
type PendingApproval struct {
	Task        *domain.Task
	ColumnName  string
	RequestedAt *time.Time
	DueAt       *time.Time
	Overdue     bool
}

// ApprovalService handles client approve / request-changes actions.
type ApprovalService struct {
	stores   Stores
	notifier Notifier
	cfg      config.Engine

	Now func() time.Time
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(stores Stores, notifier Notifier, cfg config.Engine) *ApprovalService {
	return &ApprovalService{
		stores:   stores,
		notifier: notifier,
		cfg:      cfg.WithDefaults(),
		Now:      systemClock,
	}
}

// Act dispatches a client action after checking the caller may act on the task.
func (s *ApprovalService) Act(
	ctx context.Context,
	taskID string,
	action domain.ApprovalAction,
	principal domain.Principal,
	comment string,
) (*ApprovalOutcome, error) {
	switch action {
	case domain.ApprovalActionApprove, domain.ApprovalActionRequestChanges:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}
	if action == domain.ApprovalActionRequestChanges {
		if err := s.validateComment(comment); err != nil {
			return nil, err
		}
	}

	task, err := s.stores.Tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !principal.CanActOnTask(task) {
		return nil, fmt.Errorf("%w: task %s belongs to another client", domain.ErrPermissionDenied, task.ID)
	}
	return s.act(ctx, task, action, principal.UserID, comment)
}

// Approve moves a task awaiting approval to scheduling, or to done when the
// board has no scheduling column.
func (s *ApprovalService) Approve(ctx context.Context, taskID, actor, comment string) (*ApprovalOutcome, error) {
	task, err := s.stores.Tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.act(ctx, task, domain.ApprovalActionApprove, actor, comment)
}

// RequestChanges sends a task awaiting approval back for revision.
// The comment is required.
func (s *ApprovalService) RequestChanges(ctx context.Context, taskID, actor, comment string) (*ApprovalOutcome, error) {
	if err := s.validateComment(comment); err != nil {
		return nil, err
	}
	task, err := s.stores.Tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.act(ctx, task, domain.ApprovalActionRequestChanges, actor, comment)
}

func (s *ApprovalService) validateComment(comment string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(comment)); n < s.cfg.MinChangeRequestComment {
		return fmt.Errorf("%w: need at least %d characters, got %d",
			domain.ErrCommentTooShort, s.cfg.MinChangeRequestComment, n)
	}
	return nil
}

func (s *ApprovalService) act(
	ctx context.Context,
	task *domain.Task,
	action domain.ApprovalAction,
	actor string,
	comment string,
) (*ApprovalOutcome, error) {
	board, err := s.stores.Boards.GetBoard(ctx, task.BoardID)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	current, ok := board.Column(task.ColumnID)
	if !ok {
		return nil, fmt.Errorf("%w: task %s sits in unknown column %s", domain.ErrColumnNotFound, task.ID, task.ColumnID)
	}
	if current.StageKey != domain.StageApproval {
		return nil, fmt.Errorf("%w: task %s is in %q", domain.ErrNotAwaitingApproval, task.ID, current.Name)
	}

	dest, ok := approvalDestination(board, current, action)
	if !ok {
		return nil, fmt.Errorf("%w: nothing to %s into from %q", domain.ErrNoDestinationColumn, action, current.Name)
	}

	now := s.Now()
	approval := task.Links.ClientApproval.Clone()
	if approval == nil {
		approval = &domain.ApprovalState{}
	}
	// Tasks that reached the column before approval tracking existed get a
	// deadline anchored on their last update.
	approval.EnsureDeadline(task.UpdatedAt, ApprovalSLA(current, s.cfg.DefaultApprovalSLA))
	approval.Append(domain.ApprovalHistoryEntry{
		Action:     action,
		Comment:    strings.TrimSpace(comment),
		Actor:      actor,
		At:         now,
		FromColumn: current.Name,
		ToColumn:   dest.Name,
	})

	// The coarse status follows the action only. A Done destination column
	// already marks the task finished for boards and scans.
	status := domain.TaskStatusInProgress
	auditAction := domain.AuditApprovalApproved
	approval.Status = domain.ApprovalStatusApproved
	if action == domain.ApprovalActionRequestChanges {
		status = domain.TaskStatusInReview
		auditAction = domain.AuditApprovalChanges
		approval.Status = domain.ApprovalStatusChangesRequested
	}

	if err := s.stores.Tasks.UpdatePlacement(ctx, task.ID, dest.ID, status, approval); err != nil {
		return nil, fmt.Errorf("update placement: %w", err)
	}

	updated := *task
	updated.ColumnID = dest.ID
	updated.Status = status
	updated.Links.ClientApproval = approval
	updated.UpdatedAt = now

	metrics.ApprovalActions.WithLabelValues(string(action)).Inc()
	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "task",
		EntityID:   task.ID,
		ActorID:    actorPtr(actor),
		Action:     auditAction,
		Details: map[string]any{
			"from_column": current.Name,
			"to_column":   dest.Name,
			"comment":     strings.TrimSpace(comment),
		},
	})
	s.notifyStaff(ctx, &updated, action, dest, comment)

	slog.Info("client approval action",
		"task_id", task.ID,
		"action", action,
		"from_column", current.Name,
		"to_column", dest.Name,
	)

	return &ApprovalOutcome{Task: &updated, FromColumn: current, ToColumn: dest}, nil
}

// approvalDestination resolves where an action sends the task.
// Approve prefers scheduling then done. Request-changes prefers a revision
// column ahead, then any revision column, then production or scope.
func approvalDestination(board *domain.Board, from domain.Column, action domain.ApprovalAction) (domain.Column, bool) {
	if action == domain.ApprovalActionApprove {
		return board.NextColumnMatchingStage(from, domain.StageScheduling, domain.StageDone)
	}
	if c, ok := board.FindStageForward(from, domain.StageRevision); ok {
		return c, true
	}
	return board.FindStageAnywhere(from, domain.StageRevision, domain.StageProduction, domain.StageScope)
}

func (s *ApprovalService) notifyStaff(ctx context.Context, task *domain.Task, action domain.ApprovalAction, dest domain.Column, comment string) {
	msg := domain.Notification{
		Title:   "Client approved: " + task.Title,
		Message: fmt.Sprintf("The client approved the deliverable. It moved to %s.", dest.Name),
		Link:    taskLink(task),
		Metadata: map[string]any{
			"task_id": task.ID,
			"action":  string(action),
		},
	}
	if action == domain.ApprovalActionRequestChanges {
		msg.Title = "Client requested changes: " + task.Title
		msg.Message = fmt.Sprintf("The client asked for changes: %q. It moved to %s.", strings.TrimSpace(comment), dest.Name)
	}
	notifyUser(ctx, s.notifier, task.Owner(), msg)
	notifyArea(ctx, s.notifier, task.Area, msg)
}

// ListAwaitingApproval lists a client's tasks sitting in an approval column.
func (s *ApprovalService) ListAwaitingApproval(ctx context.Context, clientID string) ([]PendingApproval, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id", domain.ErrMissingField)
	}
	tasks, err := s.stores.Tasks.ListAwaitingApproval(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list awaiting approval: %w", err)
	}

	now := s.Now()
	boards := make(map[string]*domain.Board)
	out := make([]PendingApproval, 0, len(tasks))
	for _, t := range tasks {
		board, ok := boards[t.BoardID]
		if !ok {
			board, err = s.stores.Boards.GetBoard(ctx, t.BoardID)
			if err != nil {
				return nil, fmt.Errorf("get board %s: %w", t.BoardID, err)
			}
			boards[t.BoardID] = board
		}
		col, _ := board.Column(t.ColumnID)

		item := PendingApproval{Task: t, ColumnName: col.Name}
		approval := t.Links.ClientApproval
		if approval == nil {
			// Derive without persisting: reading never writes.
			approval = &domain.ApprovalState{}
			approval.EnsureDeadline(t.UpdatedAt, ApprovalSLA(col, s.cfg.DefaultApprovalSLA))
		}
		item.RequestedAt = approval.RequestedAt
		item.DueAt = approval.DueAt
		item.Overdue = approval.IsOverdue(now)
		out = append(out, item)
	}
	return out, nil
}
