package models

import "time"

// Layouts for the calendar date and time-of-day fields carried on events and
// teams.
const (
	EventDateLayout = "2006-01-02"
	StartTimeLayout = "15:04"
)

// DefaultStartTime is applied to teams whose persisted records predate
// team-level start times.
const DefaultStartTime = "10:00"

// InvitationStatus is the response state of a per-player, per-event
// invitation.
type InvitationStatus string

const (
	InvitationOpen     InvitationStatus = "open"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Valid reports whether s is one of the known invitation states.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationOpen, InvitationAccepted, InvitationDeclined:
		return true
	}
	return false
}

// Event is a scheduled occasion owning its teams and invitations. Deleting an
// event removes both; they have no independent lifecycle.
type Event struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Date              string       `json:"date"` // YYYY-MM-DD
	MaxPlayersPerTeam int          `json:"maxPlayersPerTeam"`
	Teams             []Team       `json:"teams"`
	Invitations       []Invitation `json:"invitations"`
	CreatedAt         time.Time    `json:"createdAt,omitempty"`
}

// Team is a lineup within an event. SelectedPlayers holds roster player ids;
// a player id appears in at most one team per event.
type Team struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	StartTime       string   `json:"startTime"` // HH:MM
	SelectedPlayers []string `json:"selectedPlayers"`
}

// Invitation records whether a player was asked to an event and how they
// responded. At most one exists per (event, player) pair.
type Invitation struct {
	ID       string           `json:"id"`
	PlayerID string           `json:"playerId"`
	EventID  string           `json:"eventId"`
	Status   InvitationStatus `json:"status"`
}

// Normalize replaces absent optional collections with empty slices so callers
// never probe for nil. Applied at the storage boundary.
func (e *Event) Normalize() {
	if e.Teams == nil {
		e.Teams = []Team{}
	}
	for i := range e.Teams {
		if e.Teams[i].SelectedPlayers == nil {
			e.Teams[i].SelectedPlayers = []string{}
		}
	}
	if e.Invitations == nil {
		e.Invitations = []Invitation{}
	}
}

// Team returns the team with the given id, or nil if the event has none.
func (e *Event) Team(teamID string) *Team {
	for i := range e.Teams {
		if e.Teams[i].ID == teamID {
			return &e.Teams[i]
		}
	}
	return nil
}

// Invitation returns the invitation with the given id, or nil.
func (e *Event) Invitation(invitationID string) *Invitation {
	for i := range e.Invitations {
		if e.Invitations[i].ID == invitationID {
			return &e.Invitations[i]
		}
	}
	return nil
}

// InvitationFor returns the invitation referencing playerID, or nil.
func (e *Event) InvitationFor(playerID string) *Invitation {
	for i := range e.Invitations {
		if e.Invitations[i].PlayerID == playerID {
			return &e.Invitations[i]
		}
	}
	return nil
}

// AssignedPlayerIDs returns the union of all teams' selected players. The
// result contains no duplicates as long as the single-team-per-event
// invariant holds.
func (e *Event) AssignedPlayerIDs() []string {
	var ids []string
	for _, t := range e.Teams {
		ids = append(ids, t.SelectedPlayers...)
	}
	return ids
}

// IsAssigned reports whether playerID is selected into any team of the event.
func (e *Event) IsAssigned(playerID string) bool {
	for _, t := range e.Teams {
		for _, id := range t.SelectedPlayers {
			if id == playerID {
				return true
			}
		}
	}
	return false
}
