package domain

import "time"

// Channel is an address-based delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Notification is the content handed to the dispatch layer.
type Notification struct {
	Title    string
	Message  string
	Link     string
	Metadata map[string]any
}

// InboxMessage is a notification persisted in a user's message center.
type InboxMessage struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Link      string
	Metadata  map[string]any
	CreatedAt time.Time
	ReadAt    *time.Time
}
