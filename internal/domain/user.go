package domain

import "time"

// UserRole enumerates the roles a user can hold.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleTechnician UserRole = "technician"
	UserRoleClient     UserRole = "client"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleTechnician, UserRoleClient:
		return true
	}
	return false
}

// User is the account record behind every caller.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClientProfile holds the client-side identity of a user. Tickets reference
// the profile id, not the user id.
type ClientProfile struct {
	ID           string
	UserID       string
	Company      string
	ContactEmail string
}

// TechnicianProfile holds the technician-side identity of a user. Workload
// is derived from tickets, never stored here.
type TechnicianProfile struct {
	ID        string
	UserID    string
	Specialty string
	Available bool
}
