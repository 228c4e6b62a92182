package domain

import "time"

// TaskStatus is the coarse status of a task, independent of its column.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusInReview,
		TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// Task is a unit of work sitting in exactly one column of one board.
type Task struct {
	ID          string
	BoardID     string
	ColumnID    string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	Area        string
	AssignedTo  *string
	CreatedBy   *string
	ClientID    *string
	DueDate     *time.Time
	Links       ReferenceLinks
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Owner returns the staff member responsible for the task: the assignee,
// falling back to the creator. Empty when neither is set.
func (t *Task) Owner() string {
	if t.AssignedTo != nil && *t.AssignedTo != "" {
		return *t.AssignedTo
	}
	if t.CreatedBy != nil {
		return *t.CreatedBy
	}
	return ""
}

// IsOverdue reports whether the task's due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// ReferenceLinks holds the typed sub-records embedded alongside a task.
// Each sub-record is persisted independently.
type ReferenceLinks struct {
	Provenance     *Provenance              `json:"provenance,omitempty"`
	ClientApproval *ApprovalState           `json:"client_approval,omitempty"`
	Alerts         map[AlertKind]AlertState `json:"alerts,omitempty"`
	Extra          map[string]any           `json:"extra,omitempty"`
}

// Alert returns the bookkeeping for kind, zero when never notified.
func (l ReferenceLinks) Alert(kind AlertKind) AlertState {
	if l.Alerts == nil {
		return AlertState{}
	}
	return l.Alerts[kind]
}

// Provenance links a task back to the workflow transition that produced it.
type Provenance struct {
	WorkflowTransitionID string    `json:"workflow_transition_id"`
	FromArea             string    `json:"from_area"`
	ToArea               string    `json:"to_area"`
	TriggerEvent         string    `json:"trigger_event"`
	ExecutedBy           string    `json:"executed_by,omitempty"`
	ExecutedAt           time.Time `json:"executed_at"`
}

// AlertKind namespaces rate-limited notifications.
type AlertKind string

const (
	AlertOverdueTask           AlertKind = "overdue_task"
	AlertClientApprovalOverdue AlertKind = "client_approval_overdue"
)

// AlertState is the rate-limit bookkeeping for one alert kind on one task.
type AlertState struct {
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
	Count          int        `json:"count"`
}

// Due reports whether a new notification may be sent at now.
func (a AlertState) Due(now time.Time, interval time.Duration) bool {
	return a.LastNotifiedAt == nil || now.Sub(*a.LastNotifiedAt) >= interval
}

// ScanPage selects one page of scanner candidates. Tasks whose alert was
// stamped after NotifiedBefore are left out; a zero NotifiedBefore keeps
// them. Pages are keyset-ordered by task id, starting after AfterID.
type ScanPage struct {
	Now            time.Time
	NotifiedBefore time.Time
	AfterID        string
	Limit          int
}

// AlertDue reports whether a task with alert state a belongs in the page.
func (p ScanPage) AlertDue(a AlertState) bool {
	return p.NotifiedBefore.IsZero() || a.LastNotifiedAt == nil || !a.LastNotifiedAt.After(p.NotifiedBefore)
}

// Stamped returns the bookkeeping after a notification sent at now.
func (a AlertState) Stamped(now time.Time) AlertState {
	return AlertState{LastNotifiedAt: &now, Count: a.Count + 1}
}
