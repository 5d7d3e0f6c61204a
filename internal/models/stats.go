package models

// PlayerStats aggregates a single player's invitation, acceptance and
// selection history across all events. Counts are per event, not per record:
// an event contributes at most 1 to each counter.
type PlayerStats struct {
	Player         Player  `json:"player"`
	InvitedCount   int     `json:"invitedCount"`
	AcceptedCount  int     `json:"acceptedCount"`
	SelectedCount  int     `json:"selectedCount"`
	AcceptanceRate float64 `json:"acceptanceRate"` // accepted/invited * 100, 0 when never invited
	SelectionRate  float64 `json:"selectionRate"`  // selected/accepted * 100, 0 when never accepted
}

// Summary rolls player statistics up to club level. Averages are arithmetic
// means over all players and are left unrounded; presentation layers round to
// one decimal.
type Summary struct {
	TotalPlayers   int     `json:"totalPlayers"`
	TotalEvents    int     `json:"totalEvents"`
	AvgAcceptances float64 `json:"avgAcceptances"`
	AvgSelections  float64 `json:"avgSelections"`
}
