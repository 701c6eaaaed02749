package domain

import "time"

// Category classifies tickets. Referenced by tickets, never mutated by the
// lifecycle engine.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
