package domain

// allowedTransitions fixes the ticket status flow:
// open -> in_progress -> resolved -> closed. Closed is terminal.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusResolved},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// CanTransition reports whether moving from current to next is legal.
// Staying put counts as an illegal move.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedNextStatuses returns the legal targets from the given status.
func AllowedNextStatuses(current TicketStatus) []TicketStatus {
	next := allowedTransitions[current]
	out := make([]TicketStatus, len(next))
	copy(out, next)
	return out
}
