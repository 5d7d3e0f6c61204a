package models

import "time"

// Trainer represents a club trainer. Trainers have their own lifecycle and are
// never referenced from event data.
type Trainer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
