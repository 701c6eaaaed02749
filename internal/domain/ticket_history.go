package domain

import "time"

// TicketChangeType enumerates the kinds of recorded ticket changes.
type TicketChangeType string

const (
	ChangeTypeStatus   TicketChangeType = "status"
	ChangeTypeAssignee TicketChangeType = "assignee"
)

// TicketHistory is one recorded change on a ticket.
type TicketHistory struct {
	ID          string
	TicketID    string
	ChangedByID *string
	ChangeType  TicketChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
