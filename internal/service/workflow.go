package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/metrics"
)

// ExecutionResult is what executing a workflow transition returns.
type ExecutionResult struct {
	TaskID          string  `json:"task_id"`
	BoardID         string  `json:"board_id"`
	ClientID        *string `json:"client_id,omitempty"`
	AlreadyExecuted bool    `json:"already_executed"`
}

// CreateTransitionParams holds the fields for recording a handoff.
type CreateTransitionParams struct {
	FromArea     string
	ToArea       string
	TriggerEvent string
	Payload      domain.Payload
	CreatedBy    string
}

// WorkflowService records workflow transitions and materializes them into tasks.
type WorkflowService struct {
	stores   Stores
	notifier Notifier
	columns  []domain.ColumnSpec
	cfg      config.Engine

	// Now is the clock. Tests replace it.
	Now func() time.Time
}

// NewWorkflowService creates a new WorkflowService. columns is the layout used
// for boards the converter has to create.
func NewWorkflowService(stores Stores, notifier Notifier, columns []domain.ColumnSpec, cfg config.Engine) *WorkflowService {
	return &WorkflowService{
		stores:   stores,
		notifier: notifier,
		columns:  columns,
		cfg:      cfg.WithDefaults(),
		Now:      systemClock,
	}
}

// CreateTransition records a pending handoff between two areas.
func (s *WorkflowService) CreateTransition(ctx context.Context, params CreateTransitionParams) (*domain.WorkflowTransition, error) {
	params.FromArea = strings.TrimSpace(params.FromArea)
	params.ToArea = strings.TrimSpace(params.ToArea)
	params.TriggerEvent = strings.TrimSpace(params.TriggerEvent)
	switch {
	case params.FromArea == "":
		return nil, fmt.Errorf("%w: from_area", domain.ErrMissingField)
	case params.ToArea == "":
		return nil, fmt.Errorf("%w: to_area", domain.ErrMissingField)
	case params.TriggerEvent == "":
		return nil, fmt.Errorf("%w: trigger_event", domain.ErrMissingField)
	}
	payload := params.Payload.Clone()

	created, err := s.stores.Transitions.CreateTransition(ctx, &domain.WorkflowTransition{
		FromArea:     params.FromArea,
		ToArea:       params.ToArea,
		TriggerEvent: params.TriggerEvent,
		Payload:      payload,
		Status:       domain.TransitionStatusPending,
		CreatedBy:    actorPtr(params.CreatedBy),
	})
	if err != nil {
		return nil, fmt.Errorf("create transition: %w", err)
	}

	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "workflow_transition",
		EntityID:   created.ID,
		ActorID:    actorPtr(params.CreatedBy),
		Action:     domain.AuditTransitionCreated,
		Details: map[string]any{
			"from_area":     created.FromArea,
			"to_area":       created.ToArea,
			"trigger_event": created.TriggerEvent,
		},
	})

	slog.Info("workflow transition recorded",
		"transition_id", created.ID,
		"from_area", created.FromArea,
		"to_area", created.ToArea,
		"trigger_event", created.TriggerEvent,
	)
	return created, nil
}

// GetTransition returns one ledger entry.
func (s *WorkflowService) GetTransition(ctx context.Context, id string) (*domain.WorkflowTransition, error) {
	return s.stores.Transitions.GetTransition(ctx, id)
}

// ListTransitions lists ledger entries, optionally filtered by status.
func (s *WorkflowService) ListTransitions(ctx context.Context, status domain.TransitionStatus, limit int) ([]*domain.WorkflowTransition, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.stores.Transitions.ListTransitions(ctx, status, limit)
}

// Execute materializes a pending transition into a task on the right board.
// Re-executing a transition that already produced a task returns that task
// with AlreadyExecuted set and creates nothing.
func (s *WorkflowService) Execute(ctx context.Context, transitionID, actor string) (*ExecutionResult, error) {
	tr, err := s.stores.Transitions.GetTransition(ctx, transitionID)
	if err != nil {
		return nil, err
	}

	if tr.Status == domain.TransitionStatusCompleted {
		if boardID, taskID, ok := tr.MaterializedIDs(); ok {
			metrics.TransitionExecutions.WithLabelValues("already_executed").Inc()
			return &ExecutionResult{
				TaskID:          taskID,
				BoardID:         boardID,
				ClientID:        actorPtr(tr.Payload.String(domain.PayloadClientID)),
				AlreadyExecuted: true,
			}, nil
		}
	}

	// Provenance is the source of truth for whether a task exists, even when
	// the ledger entry was never updated after a crash.
	existing, err := s.stores.Tasks.FindTaskByTransition(ctx, tr.ID)
	switch {
	case err == nil:
		return s.adoptExisting(ctx, tr, existing, actor), nil
	case !errors.Is(err, domain.ErrTaskNotFound):
		return nil, fmt.Errorf("find task for transition %s: %w", tr.ID, err)
	}

	if tr.Status != domain.TransitionStatusPending {
		return nil, fmt.Errorf("%w: transition %s is %s", domain.ErrTransitionNotPending, tr.ID, tr.Status)
	}

	now := s.Now()

	clientID, err := s.resolveClient(ctx, tr)
	if err != nil {
		metrics.TransitionExecutions.WithLabelValues("failed").Inc()
		return nil, err
	}

	board, err := s.destinationBoard(ctx, tr, clientID)
	if err != nil {
		metrics.TransitionExecutions.WithLabelValues("failed").Inc()
		return nil, err
	}

	task, err := newTaskFromTransition(tr, board, clientID, actor, now, s.cfg.DefaultApprovalSLA)
	if err != nil {
		s.markFailed(ctx, tr, actor, err)
		metrics.TransitionExecutions.WithLabelValues("failed").Inc()
		return nil, err
	}

	created, err := s.stores.Tasks.CreateTask(ctx, task)
	if errors.Is(err, domain.ErrDuplicateProvenance) {
		// A concurrent execution won the race.
		winner, ferr := s.stores.Tasks.FindTaskByTransition(ctx, tr.ID)
		if ferr != nil {
			return nil, fmt.Errorf("find concurrently created task: %w", ferr)
		}
		return s.adoptExisting(ctx, tr, winner, actor), nil
	}
	if err != nil {
		metrics.TransitionExecutions.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("create task: %w", err)
	}

	if err := s.complete(ctx, tr, created, actor, now); err != nil {
		// The task exists; a retry adopts it through provenance.
		return nil, err
	}

	s.announce(ctx, tr, created, actor)
	metrics.TransitionExecutions.WithLabelValues("created").Inc()

	slog.Info("workflow transition executed",
		"transition_id", tr.ID,
		"task_id", created.ID,
		"board_id", created.BoardID,
		"client_id", derefOr(clientID, ""),
	)

	return &ExecutionResult{
		TaskID:   created.ID,
		BoardID:  created.BoardID,
		ClientID: clientID,
	}, nil
}

// adoptExisting backfills the ledger entry from a task found by provenance.
// The backfill is retried by the next execution if it fails here.
func (s *WorkflowService) adoptExisting(ctx context.Context, tr *domain.WorkflowTransition, task *domain.Task, actor string) *ExecutionResult {
	metrics.TransitionExecutions.WithLabelValues("already_executed").Inc()

	updated := *tr
	updated.Payload = tr.Payload.Clone()
	updated.Payload[domain.PayloadBoardID] = task.BoardID
	updated.Payload[domain.PayloadTaskID] = task.ID
	if task.ClientID != nil {
		updated.Payload[domain.PayloadClientID] = *task.ClientID
	}
	if updated.Status == domain.TransitionStatusPending {
		now := s.Now()
		updated.Status = domain.TransitionStatusCompleted
		updated.CompletedAt = &now
		updated.Payload[domain.PayloadExecutedAt] = now.Format(time.RFC3339)
		if actor != "" {
			updated.Payload[domain.PayloadExecutedBy] = actor
		}
	}
	if err := s.stores.Transitions.UpdateTransition(ctx, &updated); err != nil {
		slog.Warn("failed to backfill transition from existing task",
			"transition_id", tr.ID,
			"task_id", task.ID,
			"error", err,
		)
	}

	return &ExecutionResult{
		TaskID:          task.ID,
		BoardID:         task.BoardID,
		ClientID:        task.ClientID,
		AlreadyExecuted: true,
	}
}

// resolveClient follows the payload references in order. A reference that
// resolves to nothing falls through to the next one; a store failure aborts.
func (s *WorkflowService) resolveClient(ctx context.Context, tr *domain.WorkflowTransition) (*string, error) {
	for _, ref := range tr.ClientRefs() {
		id, err := s.stores.Clients.ResolveClientID(ctx, ref)
		if errors.Is(err, domain.ErrNotFound) {
			slog.Debug("client reference did not resolve",
				"transition_id", tr.ID,
				"kind", ref.Kind,
				"ref_id", ref.ID,
			)
			continue
		}
		if err != nil {
			return nil, domain.Unavailable(fmt.Sprintf("resolve %s %s", ref.Kind, ref.ID), err)
		}
		return &id, nil
	}
	return nil, nil
}

// destinationBoard returns the client's board, or the destination area's
// board when no client was resolved, creating it from the template if needed.
func (s *WorkflowService) destinationBoard(ctx context.Context, tr *domain.WorkflowTransition, clientID *string) (*domain.Board, error) {
	spec := domain.BoardSpec{Columns: s.columns}
	if clientID != nil {
		client, err := s.stores.Clients.GetClient(ctx, *clientID)
		if err != nil {
			return nil, domain.Unavailable("get client "+*clientID, err)
		}
		spec.Name = client.Name
		spec.AreaKey = ClientBoardKey(client.ID)
		spec.ClientID = clientID
	} else {
		spec.Name = humanize(tr.ToArea)
		spec.AreaKey = AreaBoardKey(tr.ToArea)
	}

	board, err := s.stores.Boards.GetOrCreateBoard(ctx, spec)
	if err != nil {
		return nil, domain.Unavailable("get or create board "+spec.AreaKey, err)
	}
	return board, nil
}

// complete marks the transition completed and records where it landed.
func (s *WorkflowService) complete(ctx context.Context, tr *domain.WorkflowTransition, task *domain.Task, actor string, now time.Time) error {
	updated := *tr
	updated.Payload = tr.Payload.Clone()
	updated.Payload[domain.PayloadBoardID] = task.BoardID
	updated.Payload[domain.PayloadTaskID] = task.ID
	updated.Payload[domain.PayloadExecutedAt] = now.Format(time.RFC3339)
	if task.ClientID != nil {
		updated.Payload[domain.PayloadClientID] = *task.ClientID
	}
	if actor != "" {
		updated.Payload[domain.PayloadExecutedBy] = actor
	}
	updated.Status = domain.TransitionStatusCompleted
	updated.CompletedAt = &now
	updated.ErrorMessage = nil

	if err := s.stores.Transitions.UpdateTransition(ctx, &updated); err != nil {
		return domain.Unavailable("complete transition "+tr.ID, err)
	}
	return nil
}

// markFailed records a non-retryable failure on the ledger entry.
func (s *WorkflowService) markFailed(ctx context.Context, tr *domain.WorkflowTransition, actor string, cause error) {
	msg := cause.Error()
	updated := *tr
	updated.Status = domain.TransitionStatusError
	updated.ErrorMessage = &msg
	if err := s.stores.Transitions.UpdateTransition(ctx, &updated); err != nil {
		slog.Error("failed to mark transition as failed", "transition_id", tr.ID, "error", err)
	}
	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "workflow_transition",
		EntityID:   tr.ID,
		ActorID:    actorPtr(actor),
		Action:     domain.AuditTransitionFailed,
		Details:    map[string]any{"error": msg},
	})
}

// announce emits the audit event and staff notifications for a new task.
func (s *WorkflowService) announce(ctx context.Context, tr *domain.WorkflowTransition, task *domain.Task, actor string) {
	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "workflow_transition",
		EntityID:   tr.ID,
		ActorID:    actorPtr(actor),
		Action:     domain.AuditTransitionExecuted,
		Details: map[string]any{
			"task_id":  task.ID,
			"board_id": task.BoardID,
		},
	})

	msg := domain.Notification{
		Title:   "New task: " + task.Title,
		Message: fmt.Sprintf("%s handed off work to %s (%s).", humanize(tr.FromArea), humanize(tr.ToArea), tr.TriggerEvent),
		Link:    taskLink(task),
		Metadata: map[string]any{
			"task_id":                task.ID,
			"workflow_transition_id": tr.ID,
		},
	}
	notifyArea(ctx, s.notifier, tr.ToArea, msg)
	if task.AssignedTo != nil {
		notifyUser(ctx, s.notifier, *task.AssignedTo, msg)
	}
}

// ClientBoardKey is the board key of a client's board.
func ClientBoardKey(clientID string) string {
	return "client:" + clientID
}

// AreaBoardKey is the board key of an operational area's board.
func AreaBoardKey(area string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(area))), "-")
	return "area:" + slug
}

func derefOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
