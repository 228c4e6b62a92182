package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TransitionStatus is the lifecycle state of a workflow ledger entry.
type TransitionStatus string

const (
	TransitionStatusPending   TransitionStatus = "pending"
	TransitionStatusCompleted TransitionStatus = "completed"
	TransitionStatusError     TransitionStatus = "error"
)

// IsValid checks if the status is one of the allowed values.
func (s TransitionStatus) IsValid() bool {
	switch s {
	case TransitionStatusPending, TransitionStatusCompleted, TransitionStatusError:
		return true
	default:
		return false
	}
}

// Well-known payload keys. Producers attach arbitrary keys; these are the ones
// the converter reads or writes.
const (
	PayloadBoardID    = "board_id"
	PayloadTaskID     = "task_id"
	PayloadClientID   = "client_id"
	PayloadContractID = "contract_id"
	PayloadInvoiceID  = "invoice_id"
	PayloadProposalID = "proposal_id"
	PayloadAssignedTo = "assigned_to"
	PayloadDueDate    = "due_date"
	PayloadTitle      = "title"
	PayloadExecutedAt = "executed_at"
	PayloadExecutedBy = "executed_by"
)

// Payload is the open key/value map attached by the originating business event.
type Payload map[string]any

// String returns the first non-empty string value found under any of the keys.
// Both snake_case and camelCase spellings are accepted, so "contract_id" also
// matches a producer that wrote "contractId".
func (p Payload) String(keys ...string) string {
	for _, key := range keys {
		for _, candidate := range []string{key, camelCase(key)} {
			v, ok := p[candidate]
			if !ok || v == nil {
				continue
			}
			switch tv := v.(type) {
			case string:
				if s := strings.TrimSpace(tv); s != "" {
					return s
				}
			case fmt.Stringer:
				return tv.String()
			case float64:
				return strconv.FormatFloat(tv, 'f', -1, 64)
			}
		}
	}
	return ""
}

// Time parses an RFC 3339 timestamp stored under key. Returns nil when absent or malformed.
func (p Payload) Time(key string) *time.Time {
	raw := p.String(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Clone returns a shallow copy safe to mutate at the top level.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p)+4)
	for k, v := range p {
		out[k] = v
	}
	return out
}

func camelCase(key string) string {
	parts := strings.Split(key, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

// WorkflowTransition is a durable record of a handoff between operational areas,
// waiting to be materialized into a task.
type WorkflowTransition struct {
	ID           string
	FromArea     string
	ToArea       string
	TriggerEvent string
	Payload      Payload
	Status       TransitionStatus
	CompletedAt  *time.Time
	ErrorMessage *string
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MaterializedIDs returns the board and task ids recorded by a previous execution.
// ok is false unless both are present.
func (t *WorkflowTransition) MaterializedIDs() (boardID, taskID string, ok bool) {
	boardID = t.Payload.String(PayloadBoardID)
	taskID = t.Payload.String(PayloadTaskID)
	return boardID, taskID, boardID != "" && taskID != ""
}

// ClientRef identifies a business object that belongs to a client.
type ClientRef struct {
	Kind ClientRefKind
	ID   string
}

// ClientRefKind names the business object a ClientRef points at.
type ClientRefKind string

const (
	ClientRefDirect   ClientRefKind = "client"
	ClientRefContract ClientRefKind = "contract"
	ClientRefInvoice  ClientRefKind = "invoice"
	ClientRefProposal ClientRefKind = "proposal"
)

// ClientRefs lists the payload references that can lead to a client, most direct first.
func (t *WorkflowTransition) ClientRefs() []ClientRef {
	var refs []ClientRef
	add := func(kind ClientRefKind, key string) {
		if id := t.Payload.String(key); id != "" {
			refs = append(refs, ClientRef{Kind: kind, ID: id})
		}
	}
	add(ClientRefDirect, PayloadClientID)
	add(ClientRefContract, PayloadContractID)
	add(ClientRefInvoice, PayloadInvoiceID)
	add(ClientRefProposal, PayloadProposalID)
	return refs
}
