package service

import (
	"context"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// TransitionStore persists workflow ledger entries.
type TransitionStore interface {
	GetTransition(ctx context.Context, id string) (*domain.WorkflowTransition, error)
	CreateTransition(ctx context.Context, t *domain.WorkflowTransition) (*domain.WorkflowTransition, error)
	// UpdateTransition writes status, completed_at, error_message and payload.
	UpdateTransition(ctx context.Context, t *domain.WorkflowTransition) error
	ListTransitions(ctx context.Context, status domain.TransitionStatus, limit int) ([]*domain.WorkflowTransition, error)
}

// BoardStore persists boards and their columns.
type BoardStore interface {
	GetBoard(ctx context.Context, id string) (*domain.Board, error)
	// GetOrCreateBoard returns the board keyed by spec.AreaKey, creating it
	// with spec's columns when it does not exist yet.
	GetOrCreateBoard(ctx context.Context, spec domain.BoardSpec) (*domain.Board, error)
	GetColumn(ctx context.Context, id string) (*domain.Column, error)
}

// TaskStore persists tasks and their embedded sub-records.
type TaskStore interface {
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	// CreateTask returns domain.ErrDuplicateProvenance when another task already
	// carries the same workflow transition id.
	CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindTaskByTransition(ctx context.Context, transitionID string) (*domain.Task, error)
	// UpdatePlacement writes column, status and the client approval sub-record.
	UpdatePlacement(ctx context.Context, taskID, columnID string, status domain.TaskStatus, approval *domain.ApprovalState) error
	// StampAlert writes one alert kind's bookkeeping without touching updated_at.
	StampAlert(ctx context.Context, taskID string, kind domain.AlertKind, state domain.AlertState) error
	ListTasksByBoard(ctx context.Context, boardID string) ([]*domain.Task, error)
	// ListOverdueTasks returns one page of open tasks due before page.Now whose
	// column is not terminal, leaving out tasks alerted after page.NotifiedBefore.
	ListOverdueTasks(ctx context.Context, page domain.ScanPage) ([]*domain.Task, error)
	// ListApprovalsDue returns one page of open tasks whose pending client
	// approval deadline is before page.Now, wherever the task currently sits.
	ListApprovalsDue(ctx context.Context, page domain.ScanPage) ([]*domain.Task, error)
	// ListAwaitingApproval returns the client's tasks sitting in an approval column.
	ListAwaitingApproval(ctx context.Context, clientID string) ([]*domain.Task, error)
}

// ClientStore resolves clients from business references.
type ClientStore interface {
	// ResolveClientID follows a business reference to its owning client.
	ResolveClientID(ctx context.Context, ref domain.ClientRef) (string, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	GetClientByUser(ctx context.Context, userID string) (*domain.Client, error)
}

// AuditStore appends audit events.
type AuditStore interface {
	RecordAudit(ctx context.Context, event *domain.AuditEvent) error
}

// Notifier dispatches notifications. Callers treat every method as best effort.
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, n domain.Notification) error
	NotifyArea(ctx context.Context, area string, n domain.Notification) error
	NotifyByChannel(ctx context.Context, destination string, channel domain.Channel, n domain.Notification) error
}

// TextGenerator produces human-facing message bodies.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Stores groups the record store ports the services depend on.
type Stores struct {
	Transitions TransitionStore
	Boards      BoardStore
	Tasks       TaskStore
	Clients     ClientStore
	Audit       AuditStore
}
