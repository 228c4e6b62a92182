package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/metrics"
)

// recordAudit appends an audit event. Audit is a side effect: failures are
// logged and never fail the operation that triggered them.
func recordAudit(ctx context.Context, store AuditStore, event *domain.AuditEvent) {
	if store == nil {
		return
	}
	if err := store.RecordAudit(ctx, event); err != nil {
		slog.Warn("failed to record audit event",
			"action", event.Action,
			"entity_kind", event.EntityKind,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}

// notifyUser sends a best-effort notification to one user.
func notifyUser(ctx context.Context, n Notifier, userID string, msg domain.Notification) {
	if n == nil || userID == "" {
		return
	}
	if err := n.NotifyUser(ctx, userID, msg); err != nil {
		metrics.NotificationFailures.WithLabelValues("user").Inc()
		slog.Warn("failed to notify user", "user_id", userID, "title", msg.Title, "error", err)
	}
}

// notifyArea broadcasts a best-effort notification to an area's staff.
func notifyArea(ctx context.Context, n Notifier, area string, msg domain.Notification) {
	if n == nil || area == "" {
		return
	}
	if err := n.NotifyArea(ctx, area, msg); err != nil {
		metrics.NotificationFailures.WithLabelValues("area").Inc()
		slog.Warn("failed to notify area", "area", area, "title", msg.Title, "error", err)
	}
}

func taskLink(t *domain.Task) string {
	return fmt.Sprintf("/boards/%s?task=%s", t.BoardID, t.ID)
}

func actorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}

func ptr[T any](v T) *T {
	return &v
}

func systemClock() time.Time {
	return time.Now().UTC()
}
