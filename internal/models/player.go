package models

import (
	"time"
)

// Skill level bounds for players.
const (
	MinLevel = 1
	MaxLevel = 5
)

// BirthDateLayout is the canonical wire format for player birth dates.
const BirthDateLayout = "2006-01-02"

// Player represents a member of the club roster. JSON tags follow the
// camelCase shape the browser clients persist, so records written by older
// versions of the app unmarshal unchanged.
type Player struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	BirthDate string    `json:"birthDate"` // YYYY-MM-DD, canonical; birth year is derived
	Level     int       `json:"level"`     // 1-5 skill tier
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// BirthYear returns the display year derived from BirthDate, or 0 when the
// date is absent or malformed.
func (p Player) BirthYear() int {
	t, err := time.Parse(BirthDateLayout, p.BirthDate)
	if err != nil {
		return 0
	}
	return t.Year()
}
