package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// DefaultSubjectPrefix is prepended to the channel name, so email
// notifications go to "notifications.email".
const DefaultSubjectPrefix = "notifications"

// publisher is the part of *nats.Conn the channel publisher uses.
type publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the message published for channel deliveries. Email and
// WhatsApp gateways subscribe to their subject and deliver it.
type Envelope struct {
	Channel     domain.Channel `json:"channel"`
	Destination string         `json:"destination"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Link        string         `json:"link,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	SentAt      time.Time      `json:"sent_at"`
}

// NATSPublisher publishes channel deliveries to NATS subjects.
type NATSPublisher struct {
	conn   publisher
	prefix string
	now    func() time.Time
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(conn publisher, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix, now: time.Now}
}

// Connect dials NATS with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("valle360-workflow"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

// Subject returns the subject a channel publishes to.
func (p *NATSPublisher) Subject(channel domain.Channel) string {
	return p.prefix + "." + string(channel)
}

// PublishChannel publishes the notification envelope on the channel's subject.
func (p *NATSPublisher) PublishChannel(ctx context.Context, channel domain.Channel, destination string, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(Envelope{
		Channel:     channel,
		Destination: destination,
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		Metadata:    n.Metadata,
		SentAt:      p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", channel, err)
	}
	if err := p.conn.Publish(p.Subject(channel), data); err != nil {
		return domain.Unavailable("publish "+string(channel), err)
	}
	return nil
}
