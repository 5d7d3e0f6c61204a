package roster

// CreatePlayerRequest carries the fields for a new roster player.
type CreatePlayerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Level     int    `json:"level"`
}

// UpdatePlayerRequest carries a partial update; nil fields keep their current
// value. Validation runs against the merged record.
type UpdatePlayerRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Level     *int    `json:"level,omitempty"`
}

// CreateTrainerRequest carries the fields for a new trainer.
type CreateTrainerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateTrainerRequest carries a partial trainer update.
type UpdateTrainerRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}
