package dto

import "time"

// CreateTransitionRequest represents the request body for POST /transitions.
type CreateTransitionRequest struct {
	FromArea     string         `json:"from_area"`
	ToArea       string         `json:"to_area"`
	TriggerEvent string         `json:"trigger_event"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// CreateBoardRequest represents the request body for POST /boards.
// Columns may be omitted to use the configured template.
type CreateBoardRequest struct {
	Name     string          `json:"name"`
	AreaKey  string          `json:"area_key"`
	ClientID *string         `json:"client_id,omitempty"`
	Columns  []ColumnRequest `json:"columns,omitempty"`
}

// ColumnRequest is one column of a board definition. Stage accepts the
// canonical stage keys and their known aliases.
type ColumnRequest struct {
	Name     string `json:"name"`
	Stage    string `json:"stage"`
	SLAHours *int   `json:"sla_hours,omitempty"`
	WIPLimit *int   `json:"wip_limit,omitempty"`
}

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	BoardID     string     `json:"board_id"`
	ColumnID    string     `json:"column_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Area        string     `json:"area,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// MoveTaskRequest represents the request body for POST /tasks/{id}/move.
type MoveTaskRequest struct {
	ColumnID string `json:"column_id"`
}

// ApprovalActionRequest represents the request body for POST /approvals/{task_id}/actions.
type ApprovalActionRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment,omitempty"`
}
