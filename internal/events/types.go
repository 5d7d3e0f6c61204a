package events

// CreateEventRequest carries the fields for a new event. StartTime is applied
// to every generated team.
type CreateEventRequest struct {
	Name              string `json:"name"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	NumberOfTeams     int    `json:"numberOfTeams"`
	MaxPlayersPerTeam int    `json:"maxPlayersPerTeam"`
}
