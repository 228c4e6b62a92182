// Package notify delivers notifications to the message center, to area staff
// and to address-based channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// ErrNoChannelPublisher is returned for channel deliveries when no
// channel transport is configured.
var ErrNoChannelPublisher = fmt.Errorf("%w: no channel publisher configured", domain.ErrChannelUnavailable)

// Inbox persists message-center notifications.
type Inbox interface {
	CreateInboxMessage(ctx context.Context, m *domain.InboxMessage) error
}

// StaffDirectory lists the staff members of an operational area.
type StaffDirectory interface {
	ListStaffByArea(ctx context.Context, area string) ([]domain.StaffMember, error)
}

// ChannelPublisher hands a notification to an address-based channel.
type ChannelPublisher interface {
	PublishChannel(ctx context.Context, channel domain.Channel, destination string, n domain.Notification) error
}

// Dispatcher fans notifications out to the inbox, area staff and channels.
type Dispatcher struct {
	inbox    Inbox
	staff    StaffDirectory
	channels ChannelPublisher
}

// NewDispatcher creates a Dispatcher. channels may be nil.
func NewDispatcher(inbox Inbox, staff StaffDirectory, channels ChannelPublisher) *Dispatcher {
	return &Dispatcher{inbox: inbox, staff: staff, channels: channels}
}

// NotifyUser stores a notification in the user's message center.
func (d *Dispatcher) NotifyUser(ctx context.Context, userID string, n domain.Notification) error {
	if userID == "" {
		return fmt.Errorf("%w: user id", domain.ErrMissingField)
	}
	msg := &domain.InboxMessage{
		UserID:   userID,
		Title:    n.Title,
		Message:  n.Message,
		Link:     n.Link,
		Metadata: n.Metadata,
	}
	if err := d.inbox.CreateInboxMessage(ctx, msg); err != nil {
		return domain.Unavailable("create inbox message", err)
	}
	return nil
}

// NotifyArea delivers a notification to every staff member of an area. An
// area without staff is not an error. Per-member failures are joined.
func (d *Dispatcher) NotifyArea(ctx context.Context, area string, n domain.Notification) error {
	members, err := d.staff.ListStaffByArea(ctx, area)
	if err != nil {
		return domain.Unavailable("list staff for area "+area, err)
	}
	if len(members) == 0 {
		slog.Debug("no staff to notify", "area", area)
		return nil
	}

	var errs []error
	for _, m := range members {
		if err := d.NotifyUser(ctx, m.UserID, n); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", m.UserID, err))
		}
	}
	return errors.Join(errs...)
}

// NotifyByChannel delivers a notification to an address on a channel.
func (d *Dispatcher) NotifyByChannel(ctx context.Context, destination string, channel domain.Channel, n domain.Notification) error {
	if d.channels == nil {
		return ErrNoChannelPublisher
	}
	if destination == "" {
		return fmt.Errorf("%w: %s destination", domain.ErrMissingField, channel)
	}
	return d.channels.PublishChannel(ctx, channel, destination, n)
}
