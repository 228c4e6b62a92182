package domain

// Role is the caller's role as asserted by the identity provider.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID   string
	Role     Role
	ClientID *string // set when the caller represents a client
}

// IsStaff reports whether the caller is internal staff or an admin.
func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff || p.Role == RoleAdmin
}

// Represents reports whether the caller acts on behalf of clientID.
func (p Principal) Represents(clientID *string) bool {
	return clientID != nil && p.ClientID != nil && *p.ClientID == *clientID
}

// CanActOnTask reports whether the caller may take client-side actions on the task.
func (p Principal) CanActOnTask(t *Task) bool {
	return p.IsStaff() || p.Represents(t.ClientID)
}
