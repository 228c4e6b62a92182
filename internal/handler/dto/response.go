package dto

import (
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

// TransitionResponse represents a workflow ledger entry.
type TransitionResponse struct {
	ID           string         `json:"id"`
	FromArea     string         `json:"from_area"`
	ToArea       string         `json:"to_area"`
	TriggerEvent string         `json:"trigger_event"`
	Payload      map[string]any `json:"payload"`
	Status       string         `json:"status"`
	CompletedAt  *time.Time     `json:"completed_at"`
	ErrorMessage *string        `json:"error_message"`
	CreatedBy    *string        `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TransitionsListResponse represents the response for GET /transitions.
type TransitionsListResponse struct {
	Transitions []TransitionResponse `json:"transitions"`
	Total       int                  `json:"total"`
}

// BoardResponse represents a board with its ordered columns.
type BoardResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	AreaKey   string           `json:"area_key"`
	ClientID  *string          `json:"client_id"`
	Columns   []ColumnResponse `json:"columns"`
	CreatedAt time.Time        `json:"created_at"`
}

// ColumnResponse represents one board column.
type ColumnResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	StageKey string `json:"stage_key"`
	SLAHours *int   `json:"sla_hours"`
	WIPLimit *int   `json:"wip_limit"`
}

// TaskResponse represents a task with its embedded sub-records.
type TaskResponse struct {
	ID             string                `json:"id"`
	BoardID        string                `json:"board_id"`
	ColumnID       string                `json:"column_id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Status         string                `json:"status"`
	Priority       string                `json:"priority"`
	Area           string                `json:"area"`
	AssignedTo     *string               `json:"assigned_to"`
	CreatedBy      *string               `json:"created_by"`
	ClientID       *string               `json:"client_id"`
	DueDate        *time.Time            `json:"due_date"`
	Provenance     *domain.Provenance    `json:"provenance,omitempty"`
	ClientApproval *domain.ApprovalState `json:"client_approval,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ApprovalActionResponse represents the result of a client approval action.
type ApprovalActionResponse struct {
	Task       TaskResponse `json:"task"`
	FromColumn string       `json:"from_column"`
	ToColumn   string       `json:"to_column"`
}

// PendingApprovalResponse is one task awaiting the client.
type PendingApprovalResponse struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	BoardID     string     `json:"board_id"`
	ColumnName  string     `json:"column_name"`
	RequestedAt *time.Time `json:"requested_at"`
	DueAt       *time.Time `json:"due_at"`
	Overdue     bool       `json:"overdue"`
}

// PendingApprovalsResponse represents the response for GET /approvals.
type PendingApprovalsResponse struct {
	Approvals []PendingApprovalResponse `json:"approvals"`
	Total     int                       `json:"total"`
}

// ToTransitionResponse converts a domain transition to its response form.
func ToTransitionResponse(t *domain.WorkflowTransition) TransitionResponse {
	payload := map[string]any(t.Payload)
	if payload == nil {
		payload = map[string]any{}
	}
	return TransitionResponse{
		ID:           t.ID,
		FromArea:     t.FromArea,
		ToArea:       t.ToArea,
		TriggerEvent: t.TriggerEvent,
		Payload:      payload,
		Status:       string(t.Status),
		CompletedAt:  t.CompletedAt,
		ErrorMessage: t.ErrorMessage,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ToBoardResponse converts a domain board to its response form.
func ToBoardResponse(b *domain.Board) BoardResponse {
	cols := b.OrderedColumns()
	out := BoardResponse{
		ID:        b.ID,
		Name:      b.Name,
		AreaKey:   b.AreaKey,
		ClientID:  b.ClientID,
		Columns:   make([]ColumnResponse, 0, len(cols)),
		CreatedAt: b.CreatedAt,
	}
	for _, c := range cols {
		out.Columns = append(out.Columns, ColumnResponse{
			ID:       c.ID,
			Name:     c.Name,
			Position: c.Position,
			StageKey: string(c.StageKey),
			SLAHours: c.SLAHours,
			WIPLimit: c.WIPLimit,
		})
	}
	return out
}

// ToTaskResponse converts a domain task to its response form.
func ToTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		BoardID:        t.BoardID,
		ColumnID:       t.ColumnID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		Area:           t.Area,
		AssignedTo:     t.AssignedTo,
		CreatedBy:      t.CreatedBy,
		ClientID:       t.ClientID,
		DueDate:        t.DueDate,
		Provenance:     t.Links.Provenance,
		ClientApproval: t.Links.ClientApproval,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToApprovalActionResponse converts an approval outcome to its response form.
func ToApprovalActionResponse(o *service.ApprovalOutcome) ApprovalActionResponse {
	return ApprovalActionResponse{
		Task:       ToTaskResponse(o.Task),
		FromColumn: o.FromColumn.Name,
		ToColumn:   o.ToColumn.Name,
	}
}

// ToPendingApprovalsResponse converts the awaiting-approval list.
func ToPendingApprovalsResponse(items []service.PendingApproval) PendingApprovalsResponse {
	out := PendingApprovalsResponse{Approvals: make([]PendingApprovalResponse, 0, len(items))}
	for _, it := range items {
		out.Approvals = append(out.Approvals, PendingApprovalResponse{
			TaskID:      it.Task.ID,
			Title:       it.Task.Title,
			BoardID:     it.Task.BoardID,
			ColumnName:  it.ColumnName,
			RequestedAt: it.RequestedAt,
			DueAt:       it.DueAt,
			Overdue:     it.Overdue,
		})
	}
	out.Total = len(out.Approvals)
	return out
}
