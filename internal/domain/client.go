package domain

import "time"

// Client is the agency client a board or task may belong to.
type Client struct {
	ID        string
	Name      string
	UserID    *string // portal login, reachable through the message center
	Email     *string
	WhatsApp  *string
	CreatedAt time.Time
}

// StaffMember is an internal user attached to an operational area.
type StaffMember struct {
	UserID string
	Name   string
	Area   string
	Role   string
}
