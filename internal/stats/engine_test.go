package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamkit/roster/internal/models"
)

func player(id, first, last string, level int) models.Player {
	return models.Player{ID: id, FirstName: first, LastName: last, Level: level}
}

func eventWith(teams []models.Team, invitations []models.Invitation) models.Event {
	e := models.Event{ID: "e1", Name: "Training", Date: "2026-09-05", MaxPlayersPerTeam: 4, Teams: teams, Invitations: invitations}
	e.Normalize()
	return e
}

// TestAvailablePlayersForTeam_Filters tests the three eligibility conditions:
// accepted invitation, not assigned anywhere, level in range.
func TestAvailablePlayersForTeam_Filters(t *testing.T) {
	players := []models.Player{
		player("p1", "Anna", "Berg", 3),
		player("p2", "Ben", "Adler", 2),
		player("p3", "Carl", "Meyer", 5),
		player("p4", "Dora", "Lang", 3),
	}
	event := eventWith(
		[]models.Team{
			{ID: "t1", Name: "Team 1", SelectedPlayers: []string{"p2"}},
			{ID: "t2", Name: "Team 2", SelectedPlayers: []string{}},
		},
		[]models.Invitation{
			{ID: "i1", PlayerID: "p1", EventID: "e1", Status: models.InvitationAccepted},
			{ID: "i2", PlayerID: "p2", EventID: "e1", Status: models.InvitationAccepted},
			{ID: "i3", PlayerID: "p3", EventID: "e1", Status: models.InvitationAccepted},
			{ID: "i4", PlayerID: "p4", EventID: "e1", Status: models.InvitationDeclined},
		},
	)

	available := AvailablePlayersForTeam(event, players, 1, 5)

	// p2 is assigned to t1, p4 declined.
	require.Len(t, available, 2)
	assert.Equal(t, "p1", available[0].ID)
	assert.Equal(t, "p3", available[1].ID)
}

// TestAvailablePlayersForTeam_LevelRange tests the inclusive level bounds.
func TestAvailablePlayersForTeam_LevelRange(t *testing.T) {
	players := []models.Player{
		player("p1", "Anna", "Berg", 1),
		player("p2", "Ben", "Adler", 3),
		player("p3", "Carl", "Meyer", 5),
	}
	invitations := []models.Invitation{
		{ID: "i1", PlayerID: "p1", EventID: "e1", Status: models.InvitationAccepted},
		{ID: "i2", PlayerID: "p2", EventID: "e1", Status: models.InvitationAccepted},
		{ID: "i3", PlayerID: "p3", EventID: "e1", Status: models.InvitationAccepted},
	}
	event := eventWith(nil, invitations)

	available := AvailablePlayersForTeam(event, players, 3, 5)
	require.Len(t, available, 2)
	assert.Equal(t, "p2", available[0].ID)
	assert.Equal(t, "p3", available[1].ID)

	// Bounds are inclusive on both ends.
	available = AvailablePlayersForTeam(event, players, 1, 1)
	require.Len(t, available, 1)
	assert.Equal(t, "p1", available[0].ID)
}

// TestAvailablePlayersForTeam_SortOrder tests the case-sensitive firstName
// ordering.
func TestAvailablePlayersForTeam_SortOrder(t *testing.T) {
	players := []models.Player{
		player("p1", "bruno", "Zorn", 3),
		player("p2", "Anna", "Berg", 3),
		player("p3", "Zoe", "Adler", 3),
	}
	invitations := []models.Invitation{
		{ID: "i1", PlayerID: "p1", EventID: "e1", Status: models.InvitationAccepted},
		{ID: "i2", PlayerID: "p2", EventID: "e1", Status: models.InvitationAccepted},
		{ID: "i3", PlayerID: "p3", EventID: "e1", Status: models.InvitationAccepted},
	}
	event := eventWith(nil, invitations)

	available := AvailablePlayersForTeam(event, players, 1, 5)

	// Uppercase sorts before lowercase: Anna, Zoe, bruno.
	require.Len(t, available, 3)
	assert.Equal(t, []string{"Anna", "Zoe", "bruno"}, []string{
		available[0].FirstName, available[1].FirstName, available[2].FirstName,
	})
}

// TestAvailablePlayersForTeam_DeletedPlayerFiltered tests that ids referenced
// by event data without a roster entry never surface.
func TestAvailablePlayersForTeam_DeletedPlayerFiltered(t *testing.T) {
	players := []models.Player{player("p1", "Anna", "Berg", 3)}
	invitations := []models.Invitation{
		{ID: "i1", PlayerID: "p1", EventID: "e1", Status: models.InvitationAccepted},
		{ID: "i2", PlayerID: "ghost", EventID: "e1", Status: models.InvitationAccepted},
	}
	event := eventWith(nil, invitations)

	available := AvailablePlayersForTeam(event, players, 1, 5)
	require.Len(t, available, 1)
	assert.Equal(t, "p1", available[0].ID)
}

// TestComputePlayerStatistics_NoEvents tests the zero-history baseline.
func TestComputePlayerStatistics_NoEvents(t *testing.T) {
	players := []models.Player{player("p1", "Anna", "Berg", 3)}

	result := ComputePlayerStatistics(players, nil)

	require.Len(t, result, 1)
	assert.Equal(t, 0, result[0].InvitedCount)
	assert.Equal(t, 0, result[0].AcceptedCount)
	assert.Equal(t, 0, result[0].SelectedCount)
	assert.Equal(t, 0.0, result[0].AcceptanceRate)
	assert.Equal(t, 0.0, result[0].SelectionRate)
}

// TestComputePlayerStatistics_Rates tests the scenario: invited to two
// events, accepted one, selected in that one.
func TestComputePlayerStatistics_Rates(t *testing.T) {
	players := []models.Player{player("p1", "Anna", "Berg", 3)}

	e1 := models.Event{
		ID: "e1", MaxPlayersPerTeam: 4,
		Teams: []models.Team{{ID: "t1", SelectedPlayers: []string{"p1"}}},
		Invitations: []models.Invitation{
			{ID: "i1", PlayerID: "p1", EventID: "e1", Status: models.InvitationAccepted},
		},
	}
	e2 := models.Event{
		ID: "e2", MaxPlayersPerTeam: 4,
		Teams: []models.Team{{ID: "t2", SelectedPlayers: []string{}}},
		Invitations: []models.Invitation{
			{ID: "i2", PlayerID: "p1", EventID: "e2", Status: models.InvitationDeclined},
		},
	}

	result := ComputePlayerStatistics(players, []models.Event{e1, e2})

	require.Len(t, result, 1)
	s := result[0]
	assert.Equal(t, 2, s.InvitedCount)
	assert.Equal(t, 1, s.AcceptedCount)
	assert.Equal(t, 1, s.SelectedCount)
	assert.Equal(t, 50.0, s.AcceptanceRate)
	assert.Equal(t, 100.0, s.SelectionRate)
}

// TestComputePlayerStatistics_SortOrder tests ordering by lastName then
// firstName, case-insensitive.
func TestComputePlayerStatistics_SortOrder(t *testing.T) {
	players := []models.Player{
		player("p1", "Zoe", "meyer", 3),
		player("p2", "Anna", "Berg", 3),
		player("p3", "Ben", "Meyer", 3),
	}

	result := ComputePlayerStatistics(players, nil)

	require.Len(t, result, 3)
	assert.Equal(t, "p2", result[0].Player.ID) // Berg
	assert.Equal(t, "p3", result[1].Player.ID) // Meyer, Ben
	assert.Equal(t, "p1", result[2].Player.ID) // meyer, Zoe
}

// TestComputeSummary tests totals and averages.
func TestComputeSummary(t *testing.T) {
	playerStats := []models.PlayerStats{
		{AcceptedCount: 3, SelectedCount: 2},
		{AcceptedCount: 1, SelectedCount: 1},
	}

	summary := ComputeSummary(playerStats, 5)

	assert.Equal(t, 2, summary.TotalPlayers)
	assert.Equal(t, 5, summary.TotalEvents)
	assert.Equal(t, 2.0, summary.AvgAcceptances)
	assert.Equal(t, 1.5, summary.AvgSelections)
}

// TestComputeSummary_Empty tests the no-players case.
func TestComputeSummary_Empty(t *testing.T) {
	summary := ComputeSummary(nil, 0)

	assert.Equal(t, 0, summary.TotalPlayers)
	assert.Equal(t, 0.0, summary.AvgAcceptances)
	assert.Equal(t, 0.0, summary.AvgSelections)
}
