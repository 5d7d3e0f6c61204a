// Package stats is the read-side projection over the roster and event
// collections: selection eligibility and per-player statistics. Everything
// here is pure and recomputed on demand; nothing is cached or mutated.
package stats

import (
	"sort"
	"strings"

	"github.com/teamkit/roster/internal/models"
)

// AvailablePlayersForTeam returns the players currently eligible for
// selection into a team of event: an accepted invitation, not yet selected
// into any team of the event, and a level inside [minLevel, maxLevel]
// inclusive. Players deleted from the roster never appear, whatever event
// data still references them.
//
// The result is ordered by firstName ascending, case-sensitive. That matches
// the behavior the UI has always shown; switching to a case-insensitive sort
// would be a visible change and is left for a deliberate fix.
func AvailablePlayersForTeam(event models.Event, allPlayers []models.Player, minLevel, maxLevel int) []models.Player {
	accepted := make(map[string]bool)
	for _, inv := range event.Invitations {
		if inv.Status == models.InvitationAccepted {
			accepted[inv.PlayerID] = true
		}
	}
	assigned := make(map[string]bool)
	for _, id := range event.AssignedPlayerIDs() {
		assigned[id] = true
	}

	available := []models.Player{}
	for _, p := range allPlayers {
		if accepted[p.ID] && !assigned[p.ID] && p.Level >= minLevel && p.Level <= maxLevel {
			available = append(available, p)
		}
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].FirstName < available[j].FirstName
	})
	return available
}

// ComputePlayerStatistics aggregates each roster player's history across all
// events. Counts are per event: invitedCount is the number of events holding
// any invitation for the player, acceptedCount those with an accepted one,
// selectedCount those where the player appears in some team's selection.
// Rates are percentages with a zero denominator yielding 0.
//
// The result is ordered by lastName then firstName, case-insensitive
// ascending.
func ComputePlayerStatistics(allPlayers []models.Player, allEvents []models.Event) []models.PlayerStats {
	result := make([]models.PlayerStats, 0, len(allPlayers))
	for _, player := range allPlayers {
		s := models.PlayerStats{Player: player}
		for _, event := range allEvents {
			inv := event.InvitationFor(player.ID)
			if inv != nil {
				s.InvitedCount++
				if inv.Status == models.InvitationAccepted {
					s.AcceptedCount++
				}
			}
			if event.IsAssigned(player.ID) {
				s.SelectedCount++
			}
		}
		if s.InvitedCount > 0 {
			s.AcceptanceRate = float64(s.AcceptedCount) / float64(s.InvitedCount) * 100
		}
		if s.AcceptedCount > 0 {
			s.SelectionRate = float64(s.SelectedCount) / float64(s.AcceptedCount) * 100
		}
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		li := strings.ToLower(result[i].Player.LastName)
		lj := strings.ToLower(result[j].Player.LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(result[i].Player.FirstName) < strings.ToLower(result[j].Player.FirstName)
	})
	return result
}

// ComputeSummary rolls per-player statistics up to club level. Averages are
// arithmetic means over all players, 0 when the roster is empty, and are not
// rounded here; display layers round to one decimal.
func ComputeSummary(playerStats []models.PlayerStats, totalEvents int) models.Summary {
	summary := models.Summary{
		TotalPlayers: len(playerStats),
		TotalEvents:  totalEvents,
	}
	if len(playerStats) == 0 {
		return summary
	}

	var accepted, selected int
	for _, s := range playerStats {
		accepted += s.AcceptedCount
		selected += s.SelectedCount
	}
	summary.AvgAcceptances = float64(accepted) / float64(len(playerStats))
	summary.AvgSelections = float64(selected) / float64(len(playerStats))
	return summary
}
