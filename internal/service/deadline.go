package service

import (
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// ApprovalSLA returns how long a client has to act on a task in col.
// Columns without sla_hours fall back to def.
func ApprovalSLA(col domain.Column, def time.Duration) time.Duration {
	if col.SLAHours != nil && *col.SLAHours > 0 {
		return time.Duration(*col.SLAHours) * time.Hour
	}
	return def
}

// EnterApproval returns the approval record for a task arriving in an approval
// column at now. An existing record keeps its requestedAt and dueAt; a missing
// one gets a fresh deadline from the column SLA.
func EnterApproval(current *domain.ApprovalState, col domain.Column, now time.Time, def time.Duration, actor string, from string) *domain.ApprovalState {
	state := current.Clone()
	if state == nil {
		state = &domain.ApprovalState{}
	}
	state.EnsureDeadline(now, ApprovalSLA(col, def))
	state.Status = domain.ApprovalStatusPending
	state.Append(domain.ApprovalHistoryEntry{
		Action:     domain.ApprovalActionRequested,
		Actor:      actor,
		At:         now,
		FromColumn: from,
		ToColumn:   col.Name,
	})
	return state
}

// StatusForColumn derives the coarse task status for a task placed in col.
func StatusForColumn(col domain.Column, current domain.TaskStatus) domain.TaskStatus {
	switch {
	case col.IsTerminal():
		return domain.TaskStatusCompleted
	case col.StageKey == domain.StageApproval:
		return domain.TaskStatusInReview
	case current == domain.TaskStatusCancelled:
		return current
	default:
		return domain.TaskStatusInProgress
	}
}
