package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Values are
// lowercase on the wire and in the database.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// TechnicianRef is the optional assignee slot on a ticket. The zero value
// is unassigned; a ticket stays unassigned while open and, once assigned,
// the engine never clears or swaps the assignee.
type TechnicianRef struct {
	id       string
	assigned bool
}

// AssignedTo builds a reference to the given technician profile.
func AssignedTo(technicianID string) TechnicianRef {
	return TechnicianRef{id: technicianID, assigned: true}
}

// Unassigned returns the empty assignee slot.
func Unassigned() TechnicianRef {
	return TechnicianRef{}
}

// Assigned reports whether a technician holds the ticket.
func (r TechnicianRef) Assigned() bool {
	return r.assigned
}

// ID returns the technician profile id, empty when unassigned.
func (r TechnicianRef) ID() string {
	if !r.assigned {
		return ""
	}
	return r.id
}

// Ticket is the aggregate for reported help-desk work. Client and category
// are set at creation and never altered afterwards.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	ClientID    string
	CategoryID  string
	Technician  TechnicianRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
