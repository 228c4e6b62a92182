package service

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// TaskTemplate is what a transition turns into before it is placed on a board.
type TaskTemplate struct {
	Title       string
	Description string
	Stage       domain.StageKey // empty means the first non-terminal column
	Priority    domain.TaskPriority
}

// knownEvents carries curated titles for the handoffs the agency runs most.
var knownEvents = map[string]string{
	"contract.signed":   "Kick off onboarding",
	"contract.created":  "Kick off onboarding",
	"proposal.accepted": "Plan accepted proposal",
	"invoice.overdue":   "Chase overdue invoice",
	"payment.failed":    "Resolve failed payment",
	"content.requested": "Produce requested content",
	"content.submitted": "Review submitted content",
	"campaign.approved": "Schedule approved campaign",
}

// stageByVerb picks the initial stage from the last segment of the trigger event.
var stageByVerb = map[string]domain.StageKey{
	"created":           domain.StageScope,
	"signed":            domain.StageScope,
	"accepted":          domain.StageScope,
	"opened":            domain.StageScope,
	"requested":         domain.StageScope,
	"submitted":         domain.StageApproval,
	"delivered":         domain.StageApproval,
	"ready":             domain.StageApproval,
	"rejected":          domain.StageRevision,
	"changes_requested": domain.StageRevision,
	"reopened":          domain.StageRevision,
	"approved":          domain.StageScheduling,
}

// BuildTaskTemplate derives the task template for a transition from its
// trigger event and payload. A payload title or priority overrides the heuristics.
func BuildTaskTemplate(t *domain.WorkflowTransition) TaskTemplate {
	verb := triggerVerb(t.TriggerEvent)

	tpl := TaskTemplate{
		Title:       taskTitle(t),
		Description: taskDescription(t),
		Stage:       stageByVerb[verb],
		Priority:    triggerPriority(t.TriggerEvent, verb),
	}
	if p := domain.TaskPriority(strings.ToLower(t.Payload.String("priority"))); p.IsValid() {
		tpl.Priority = p
	}
	return tpl
}

func triggerVerb(event string) string {
	event = strings.ToLower(strings.TrimSpace(event))
	if i := strings.LastIndex(event, "."); i >= 0 {
		return event[i+1:]
	}
	return event
}

func triggerPriority(event, verb string) domain.TaskPriority {
	switch {
	case verb == "failed", verb == "overdue", strings.Contains(event, "chargeback"):
		return domain.TaskPriorityUrgent
	case verb == "cancelled", verb == "canceled", verb == "disputed":
		return domain.TaskPriorityHigh
	default:
		return domain.TaskPriorityMedium
	}
}

func taskTitle(t *domain.WorkflowTransition) string {
	if title := t.Payload.String(domain.PayloadTitle); title != "" {
		return title
	}
	label, ok := knownEvents[strings.ToLower(t.TriggerEvent)]
	if !ok {
		label = humanize(t.TriggerEvent)
	}
	if t.ToArea == "" {
		return label
	}
	return fmt.Sprintf("%s: %s", humanize(t.ToArea), label)
}

func taskDescription(t *domain.WorkflowTransition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Handoff from %s to %s triggered by %s.", t.FromArea, t.ToArea, t.TriggerEvent)

	keys := make([]string, 0, len(t.Payload))
	for k := range t.Payload {
		if k == domain.PayloadTitle || k == domain.PayloadBoardID || k == domain.PayloadTaskID ||
			k == domain.PayloadExecutedAt || k == domain.PayloadExecutedBy {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		b.WriteString("\n")
	}
	for _, k := range keys {
		fmt.Fprintf(&b, "\n- %s: %v", k, t.Payload[k])
	}
	return b.String()
}

// humanize turns "invoice.payment_failed" into "Invoice payment failed".
func humanize(s string) string {
	s = strings.TrimSpace(strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(s))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// placeTemplate picks the column a templated task starts in.
func placeTemplate(board *domain.Board, tpl TaskTemplate) (domain.Column, error) {
	if tpl.Stage != "" && !tpl.Stage.IsTerminalKey() {
		if col, ok := board.FirstColumnMatchingStage(tpl.Stage); ok {
			return col, nil
		}
	}
	if col, ok := board.FirstNonTerminalColumn(); ok {
		return col, nil
	}
	return domain.Column{}, fmt.Errorf("%w: board %s has no open column", domain.ErrNoDestinationColumn, board.ID)
}

// newTaskFromTransition builds the task a transition materializes into.
func newTaskFromTransition(
	t *domain.WorkflowTransition,
	board *domain.Board,
	clientID *string,
	actor string,
	now time.Time,
	approvalSLA time.Duration,
) (*domain.Task, error) {
	tpl := BuildTaskTemplate(t)
	col, err := placeTemplate(board, tpl)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		BoardID:     board.ID,
		ColumnID:    col.ID,
		Title:       tpl.Title,
		Description: tpl.Description,
		Status:      domain.TaskStatusPending,
		Priority:    tpl.Priority,
		Area:        t.ToArea,
		AssignedTo:  actorPtr(t.Payload.String(domain.PayloadAssignedTo)),
		CreatedBy:   actorPtr(actor),
		ClientID:    clientID,
		DueDate:     t.Payload.Time(domain.PayloadDueDate),
		Links: domain.ReferenceLinks{
			Provenance: &domain.Provenance{
				WorkflowTransitionID: t.ID,
				FromArea:             t.FromArea,
				ToArea:               t.ToArea,
				TriggerEvent:         t.TriggerEvent,
				ExecutedBy:           actor,
				ExecutedAt:           now,
			},
		},
	}
	if col.StageKey == domain.StageApproval {
		task.Status = domain.TaskStatusInReview
		task.Links.ClientApproval = EnterApproval(nil, col, now, approvalSLA, actor, "")
	}
	return task, nil
}
