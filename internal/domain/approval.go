package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApprovalStatus is the state of the client approval sub-record.
type ApprovalStatus string

const (
	ApprovalStatusPending          ApprovalStatus = "pending"
	ApprovalStatusApproved         ApprovalStatus = "approved"
	ApprovalStatusChangesRequested ApprovalStatus = "changes_requested"
)

// ApprovalAction is what a history entry records.
type ApprovalAction string

const (
	ApprovalActionRequested      ApprovalAction = "requested"
	ApprovalActionApprove        ApprovalAction = "approve"
	ApprovalActionRequestChanges ApprovalAction = "request_changes"
)

// ParseApprovalAction validates a client-submitted action.
func ParseApprovalAction(raw string) (ApprovalAction, error) {
	switch a := ApprovalAction(strings.ToLower(strings.TrimSpace(raw))); a {
	case ApprovalActionApprove, ApprovalActionRequestChanges:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
}

// ApprovalState is the client approval record embedded in a task.
type ApprovalState struct {
	RequestedAt *time.Time             `json:"requested_at,omitempty"`
	DueAt       *time.Time             `json:"due_at,omitempty"`
	Status      ApprovalStatus         `json:"status"`
	History     []ApprovalHistoryEntry `json:"history"`
}

// ApprovalHistoryEntry is one append-only entry of the approval history.
type ApprovalHistoryEntry struct {
	Action     ApprovalAction `json:"action"`
	Comment    string         `json:"comment,omitempty"`
	Actor      string         `json:"actor"`
	At         time.Time      `json:"at"`
	FromColumn string         `json:"from_column"`
	ToColumn   string         `json:"to_column"`
}

// EnsureDeadline fills requestedAt and dueAt when unset. A dueAt that was
// already derived is never recomputed.
func (a *ApprovalState) EnsureDeadline(requestedAt time.Time, sla time.Duration) {
	if a.RequestedAt == nil {
		t := requestedAt
		a.RequestedAt = &t
	}
	if a.DueAt == nil {
		due := a.RequestedAt.Add(sla)
		a.DueAt = &due
	}
	if a.Status == "" {
		a.Status = ApprovalStatusPending
	}
}

// Append adds a history entry, keeping entries ordered by time. An entry
// stamped before the last one is clamped to the last timestamp.
func (a *ApprovalState) Append(entry ApprovalHistoryEntry) {
	if n := len(a.History); n > 0 && entry.At.Before(a.History[n-1].At) {
		entry.At = a.History[n-1].At
	}
	a.History = append(a.History, entry)
}

// IsOverdue reports whether the approval deadline has passed.
func (a *ApprovalState) IsOverdue(now time.Time) bool {
	return a != nil && a.DueAt != nil && a.DueAt.Before(now)
}

// Clone returns a deep copy, so callers can mutate without aliasing the stored record.
func (a *ApprovalState) Clone() *ApprovalState {
	if a == nil {
		return nil
	}
	out := *a
	out.History = append([]ApprovalHistoryEntry(nil), a.History...)
	return &out
}
