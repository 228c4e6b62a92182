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

// ScanResult summarizes one overdue scan. Warnings names each pass that could
// not list its candidates; the counters still cover the passes that ran.
type ScanResult struct {
	OverdueTasksNotified     int      `json:"overdue_tasks_notified"`
	OverdueApprovalsNotified int      `json:"overdue_approvals_notified"`
	Skipped                  int      `json:"skipped"`
	Failed                   int      `json:"failed"`
	Warnings                 []string `json:"warnings,omitempty"`
}

// scanPasses is the number of independent passes in one Run.
const scanPasses = 2

// Partial reports whether some passes failed while at least one completed.
func (r ScanResult) Partial() bool {
	return len(r.Warnings) > 0 && len(r.Warnings) < scanPasses
}

// reminderTimeout bounds one text generation call.
const reminderTimeout = 10 * time.Second

// EscalationScanner finds overdue tasks and overdue client approvals and
// notifies the responsible parties, at most once per renotify interval.
type EscalationScanner struct {
	stores   Stores
	notifier Notifier
	text     TextGenerator
	cfg      config.Engine

	Now func() time.Time
}

// NewEscalationScanner creates a new EscalationScanner. text may be nil, in
// which case reminders use a fixed template.
func NewEscalationScanner(stores Stores, notifier Notifier, text TextGenerator, cfg config.Engine) *EscalationScanner {
	return &EscalationScanner{
		stores:   stores,
		notifier: notifier,
		text:     text,
		cfg:      cfg.WithDefaults(),
		Now:      systemClock,
	}
}

// Run executes both passes. A failure on one task never aborts the scan; the
// task is left unstamped and retried next run. The returned error is non-nil
// only when a pass could not list its candidates, and the result still
// carries what the other pass did.
func (s *EscalationScanner) Run(ctx context.Context) (ScanResult, error) {
	started := time.Now()
	defer func() { metrics.ScanDuration.Observe(time.Since(started).Seconds()) }()

	now := s.Now()
	var result ScanResult
	var errs []error

	if err := s.scanOverdueTasks(ctx, now, &result); err != nil {
		errs = append(errs, err)
		result.Warnings = append(result.Warnings, err.Error())
	}
	if err := s.scanOverdueApprovals(ctx, now, &result); err != nil {
		errs = append(errs, err)
		result.Warnings = append(result.Warnings, err.Error())
	}

	slog.Info("overdue scan finished",
		"overdue_tasks_notified", result.OverdueTasksNotified,
		"overdue_approvals_notified", result.OverdueApprovalsNotified,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"warnings", len(result.Warnings),
	)
	return result, errors.Join(errs...)
}

// candidateList reads one page of scan candidates from the task store.
type candidateList func(ctx context.Context, page domain.ScanPage) ([]*domain.Task, error)

// eachCandidate pages through list until a short page ends it. The store
// leaves out tasks alerted within the renotify interval, so a backlog of
// recently alerted tasks cannot hide newer ones behind the batch size.
func (s *EscalationScanner) eachCandidate(
	ctx context.Context,
	now time.Time,
	pass string,
	list candidateList,
	visit func(*domain.Task),
) error {
	page := domain.ScanPage{
		Now:            now,
		NotifiedBefore: now.Add(-s.cfg.RenotifyInterval),
		Limit:          s.cfg.ScanBatchSize,
	}
	for {
		tasks, err := list(ctx, page)
		if err != nil {
			return domain.Unavailable("list overdue "+pass, err)
		}
		for _, task := range tasks {
			if ctx.Err() != nil {
				slog.Warn("overdue scan interrupted", "pass", pass, "error", ctx.Err())
				return nil
			}
			visit(task)
		}
		if len(tasks) == 0 || len(tasks) < page.Limit {
			return nil
		}
		page.AfterID = tasks[len(tasks)-1].ID
	}
}

func (s *EscalationScanner) scanOverdueTasks(ctx context.Context, now time.Time, result *ScanResult) error {
	return s.eachCandidate(ctx, now, "tasks", s.stores.Tasks.ListOverdueTasks, func(task *domain.Task) {
		if task.Status == domain.TaskStatusCancelled || task.Status == domain.TaskStatusCompleted {
			result.Skipped++
			return
		}
		alert := task.Links.Alert(domain.AlertOverdueTask)
		if !alert.Due(now, s.cfg.RenotifyInterval) {
			result.Skipped++
			return
		}

		sent, err := s.notifyOverdueTask(ctx, task, now)
		if err != nil {
			s.fail(domain.AlertOverdueTask, task, result, err)
			return
		}
		if !sent {
			result.Skipped++
			return
		}
		if err := s.stamp(ctx, task, domain.AlertOverdueTask, alert, now); err != nil {
			s.fail(domain.AlertOverdueTask, task, result, err)
			return
		}
		result.OverdueTasksNotified++
	})
}

// notifyOverdueTask notifies the assignee, or the task's area when nobody is assigned.
func (s *EscalationScanner) notifyOverdueTask(ctx context.Context, task *domain.Task, now time.Time) (bool, error) {
	late := now.Sub(*task.DueDate).Round(time.Minute)
	msg := domain.Notification{
		Title:   "Overdue task: " + task.Title,
		Message: fmt.Sprintf("This task was due %s ago (%s).", late, task.DueDate.Format(time.RFC1123)),
		Link:    taskLink(task),
		Metadata: map[string]any{
			"task_id": task.ID,
			"kind":    string(domain.AlertOverdueTask),
		},
	}
	switch {
	case task.AssignedTo != nil && *task.AssignedTo != "":
		return true, s.notifier.NotifyUser(ctx, *task.AssignedTo, msg)
	case task.Area != "":
		return true, s.notifier.NotifyArea(ctx, task.Area, msg)
	default:
		return false, nil
	}
}

func (s *EscalationScanner) scanOverdueApprovals(ctx context.Context, now time.Time, result *ScanResult) error {
	return s.eachCandidate(ctx, now, "approvals", s.stores.Tasks.ListApprovalsDue, func(task *domain.Task) {
		approval := task.Links.ClientApproval
		if approval == nil || approval.Status != domain.ApprovalStatusPending || task.ClientID == nil {
			result.Skipped++
			return
		}
		alert := task.Links.Alert(domain.AlertClientApprovalOverdue)
		if !alert.Due(now, s.cfg.RenotifyInterval) {
			result.Skipped++
			return
		}

		client, err := s.stores.Clients.GetClient(ctx, *task.ClientID)
		if err != nil {
			s.fail(domain.AlertClientApprovalOverdue, task, result, err)
			return
		}

		sent, err := s.remindClient(ctx, task, client, approval, now)
		if err != nil {
			s.fail(domain.AlertClientApprovalOverdue, task, result, err)
			return
		}
		if !sent {
			result.Skipped++
			return
		}
		if err := s.stamp(ctx, task, domain.AlertClientApprovalOverdue, alert, now); err != nil {
			s.fail(domain.AlertClientApprovalOverdue, task, result, err)
			return
		}
		result.OverdueApprovalsNotified++
	})
}

// remindClient sends the reminder on every configured channel. It reports
// sent=false when the client has no reachable channel at all, and an error
// when channels exist but none of them accepted the message. A channel with
// no transport configured counts as unreachable rather than failed.
func (s *EscalationScanner) remindClient(
	ctx context.Context,
	task *domain.Task,
	client *domain.Client,
	approval *domain.ApprovalState,
	now time.Time,
) (bool, error) {
	msg := domain.Notification{
		Title:   "Approval pending: " + task.Title,
		Message: s.reminderBody(ctx, task, client, approval, now),
		Link:    "/client/approvals",
		Metadata: map[string]any{
			"task_id": task.ID,
			"kind":    string(domain.AlertClientApprovalOverdue),
		},
	}

	attempted, delivered := 0, 0
	var errs []error
	send := func(target string, fn func() error) {
		err := fn()
		if errors.Is(err, domain.ErrChannelUnavailable) {
			slog.Debug("reminder channel not configured", "task_id", task.ID, "channel", target)
			return
		}
		attempted++
		if err != nil {
			metrics.NotificationFailures.WithLabelValues(target).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", target, err))
			return
		}
		delivered++
	}

	if client.UserID != nil && *client.UserID != "" {
		send("inbox", func() error { return s.notifier.NotifyUser(ctx, *client.UserID, msg) })
	}
	if client.Email != nil && *client.Email != "" {
		send(string(domain.ChannelEmail), func() error {
			return s.notifier.NotifyByChannel(ctx, *client.Email, domain.ChannelEmail, msg)
		})
	}
	if client.WhatsApp != nil && *client.WhatsApp != "" {
		send(string(domain.ChannelWhatsApp), func() error {
			return s.notifier.NotifyByChannel(ctx, *client.WhatsApp, domain.ChannelWhatsApp, msg)
		})
	}

	if attempted == 0 {
		return false, nil
	}
	if delivered == 0 {
		return false, errors.Join(errs...)
	}
	for _, err := range errs {
		slog.Warn("reminder channel failed", "task_id", task.ID, "client_id", client.ID, "error", err)
	}
	return true, nil
}

// reminderBody asks the text generator for a friendly reminder, falling back
// to a fixed message when it is not configured or fails.
func (s *EscalationScanner) reminderBody(
	ctx context.Context,
	task *domain.Task,
	client *domain.Client,
	approval *domain.ApprovalState,
	now time.Time,
) string {
	fallback := fmt.Sprintf("Hi %s, %q has been waiting for your approval since %s. Please approve it or request changes.",
		client.Name, task.Title, approval.DueAt.Format("Jan 2 15:04 MST"))
	if s.text == nil {
		return fallback
	}

	var prompt strings.Builder
	prompt.WriteString("Write a short, polite reminder (max 3 sentences) to an agency client. ")
	fmt.Fprintf(&prompt, "Client name: %s. Deliverable: %q. ", client.Name, task.Title)
	fmt.Fprintf(&prompt, "Approval was due %s ago. ", now.Sub(*approval.DueAt).Round(time.Hour))
	prompt.WriteString("Ask them to approve it or request changes in the client portal.")

	genCtx, cancel := context.WithTimeout(ctx, reminderTimeout)
	defer cancel()
	body, err := s.text.Generate(genCtx, prompt.String())
	if err != nil || strings.TrimSpace(body) == "" {
		if err != nil {
			slog.Warn("reminder generation failed, using fallback", "task_id", task.ID, "error", err)
		}
		return fallback
	}
	return strings.TrimSpace(body)
}

func (s *EscalationScanner) stamp(ctx context.Context, task *domain.Task, kind domain.AlertKind, prev domain.AlertState, now time.Time) error {
	next := prev.Stamped(now)
	if err := s.stores.Tasks.StampAlert(ctx, task.ID, kind, next); err != nil {
		return fmt.Errorf("stamp %s: %w", kind, err)
	}
	metrics.AlertsSent.WithLabelValues(string(kind)).Inc()
	recordAudit(ctx, s.stores.Audit, &domain.AuditEvent{
		EntityKind: "task",
		EntityID:   task.ID,
		Action:     domain.AuditAlertSent,
		Details:    map[string]any{"kind": string(kind), "count": next.Count},
	})
	return nil
}

func (s *EscalationScanner) fail(kind domain.AlertKind, task *domain.Task, result *ScanResult, err error) {
	result.Failed++
	metrics.AlertFailures.WithLabelValues(string(kind)).Inc()
	slog.Error("failed to process overdue alert",
		"kind", kind,
		"task_id", task.ID,
		"error", err,
	)
}
