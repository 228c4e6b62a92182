package domain

import "time"

// AuditAction represents the kind of audited change.
type AuditAction string

const (
	AuditTransitionCreated  AuditAction = "transition_created"
	AuditTransitionExecuted AuditAction = "transition_executed"
	AuditTransitionFailed   AuditAction = "transition_failed"
	AuditTaskCreated        AuditAction = "task_created"
	AuditTaskMoved          AuditAction = "task_moved"
	AuditApprovalApproved   AuditAction = "approval_approved"
	AuditApprovalChanges    AuditAction = "approval_changes_requested"
	AuditAlertSent          AuditAction = "alert_sent"
)

// AuditEvent is an append-only record of an action taken against a ledger entry or task.
type AuditEvent struct {
	ID         string
	EntityKind string
	EntityID   string
	ActorID    *string // nil for system events
	Action     AuditAction
	Details    map[string]any
	CreatedAt  time.Time
}

// IsSystemEvent returns true if the event was created by the system.
func (e *AuditEvent) IsSystemEvent() bool {
	return e.ActorID == nil
}
