package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamkit/roster/internal/events"
	"github.com/teamkit/roster/internal/models"
	"github.com/teamkit/roster/internal/roster"
	"github.com/teamkit/roster/internal/storage"
)

// recordingNotifier collects broadcast collection names for assertions.
type recordingNotifier struct {
	collections []string
}

func (n *recordingNotifier) Broadcast(collection string) {
	n.collections = append(n.collections, collection)
}

type apiFixture struct {
	server   *httptest.Server
	notifier *recordingNotifier
	roster   *roster.App
	events   *events.App
	ctx      context.Context
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	log := zerolog.Nop()
	store := storage.NewMemory()
	clock := clockwork.NewFakeClock()

	rosterRepo := roster.NewRepository(store, log)
	rosterApp := roster.NewApp(rosterRepo, clock, log)
	eventsRepo := events.NewRepository(store, log)
	eventsApp := events.NewApp(eventsRepo, rosterRepo, clock, log)

	notifier := &recordingNotifier{}
	handler := NewHandler(rosterApp, eventsApp, notifier, log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &apiFixture{
		server:   server,
		notifier: notifier,
		roster:   rosterApp,
		events:   eventsApp,
		ctx:      context.Background(),
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResp[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// TestPlayers_CreateAndList tests the player lifecycle over HTTP.
func TestPlayers_CreateAndList(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/players", map[string]any{
		"firstName": "Anna",
		"lastName":  "Berg",
		"level":     3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeResp[models.Player](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Anna", created.FirstName)

	resp = f.do(t, http.MethodGet, "/api/players", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	players := decodeResp[[]models.Player](t, resp)
	require.Len(t, players, 1)
	assert.Equal(t, created.ID, players[0].ID)

	assert.Contains(t, f.notifier.collections, "players")
}

// TestPlayers_ValidationMapsTo400 tests that a validation failure surfaces
// as a 400 with an error body.
func TestPlayers_ValidationMapsTo400(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/players", map[string]any{
		"firstName": "Anna",
		"lastName":  "Berg",
		"level":     9,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeResp[map[string]string](t, resp)
	assert.NotEmpty(t, body["error"])
	assert.Empty(t, f.notifier.collections, "no broadcast on failure")
}

// TestPlayers_UpdateUnknownMapsTo404 tests the not-found mapping.
func TestPlayers_UpdateUnknownMapsTo404(t *testing.T) {
	f := newAPIFixture(t)

	name := "Someone"
	resp := f.do(t, http.MethodPut, "/api/players/nope", roster.UpdatePlayerRequest{FirstName: &name})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestAssign_CapacityMapsTo409 tests that overfilling a team returns a
// conflict and leaves the team untouched.
func TestAssign_CapacityMapsTo409(t *testing.T) {
	f := newAPIFixture(t)

	var playerIDs []string
	for i := 0; i < 3; i++ {
		p, err := f.roster.AddPlayer(f.ctx, roster.CreatePlayerRequest{
			FirstName: fmt.Sprintf("Player%d", i),
			LastName:  "Test",
			Level:     3,
		})
		require.NoError(t, err)
		playerIDs = append(playerIDs, p.ID)
	}

	event, err := f.events.CreateEvent(f.ctx, events.CreateEventRequest{
		Name:              "Saturday Match",
		Date:              "2026-09-05",
		StartTime:         "10:00",
		NumberOfTeams:     1,
		MaxPlayersPerTeam: 2,
	})
	require.NoError(t, err)
	for _, id := range playerIDs {
		inv, err := f.events.InvitePlayer(f.ctx, event.ID, id)
		require.NoError(t, err)
		_, err = f.events.RespondToInvitation(f.ctx, event.ID, inv.ID, models.InvitationAccepted)
		require.NoError(t, err)
	}
	teamID := event.Teams[0].ID

	resp := f.do(t, http.MethodPost, "/api/events/"+event.ID+"/teams/"+teamID+"/players",
		map[string]any{"playerIds": playerIDs})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	after, err := f.events.GetEvent(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Teams[0].SelectedPlayers, "failed assignment must not mutate the team")
}

// TestEvents_FullFlowOverHTTP tests create, invite, respond, assign and
// available-players end to end through the routes.
func TestEvents_FullFlowOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	p, err := f.roster.AddPlayer(f.ctx, roster.CreatePlayerRequest{
		FirstName: "Mila",
		LastName:  "Koch",
		Level:     4,
	})
	require.NoError(t, err)

	resp := f.do(t, http.MethodPost, "/api/events", map[string]any{
		"name":              "Training",
		"date":              "2026-09-12",
		"startTime":         "18:30",
		"numberOfTeams":     2,
		"maxPlayersPerTeam": 6,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	event := decodeResp[models.Event](t, resp)
	require.Len(t, event.Teams, 2)
	assert.Equal(t, "18:30", event.Teams[0].StartTime)

	resp = f.do(t, http.MethodPost, "/api/events/"+event.ID+"/invitations",
		map[string]any{"playerId": p.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decodeResp[models.Invitation](t, resp)

	resp = f.do(t, http.MethodPut, "/api/events/"+event.ID+"/invitations/"+inv.ID,
		map[string]any{"status": "accepted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	teamID := event.Teams[0].ID
	resp = f.do(t, http.MethodGet, "/api/events/"+event.ID+"/teams/"+teamID+"/available", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	available := decodeResp[[]models.Player](t, resp)
	require.Len(t, available, 1)
	assert.Equal(t, p.ID, available[0].ID)

	resp = f.do(t, http.MethodPost, "/api/events/"+event.ID+"/teams/"+teamID+"/players",
		map[string]any{"playerIds": []string{p.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	team := decodeResp[models.Team](t, resp)
	assert.Equal(t, []string{p.ID}, team.SelectedPlayers)

	// Assigned players drop out of the eligible set.
	resp = f.do(t, http.MethodGet, "/api/events/"+event.ID+"/teams/"+teamID+"/available", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeResp[[]models.Player](t, resp))
}

// TestAvailable_LevelRangeQuery tests the minLevel/maxLevel query filters.
func TestAvailable_LevelRangeQuery(t *testing.T) {
	f := newAPIFixture(t)

	low, err := f.roster.AddPlayer(f.ctx, roster.CreatePlayerRequest{FirstName: "Lea", LastName: "Low", Level: 1})
	require.NoError(t, err)
	high, err := f.roster.AddPlayer(f.ctx, roster.CreatePlayerRequest{FirstName: "Hana", LastName: "High", Level: 5})
	require.NoError(t, err)

	event, err := f.events.CreateEvent(f.ctx, events.CreateEventRequest{
		Name:              "Cup",
		Date:              "2026-10-03",
		StartTime:         "10:00",
		NumberOfTeams:     1,
		MaxPlayersPerTeam: 6,
	})
	require.NoError(t, err)
	for _, id := range []string{low.ID, high.ID} {
		inv, err := f.events.InvitePlayer(f.ctx, event.ID, id)
		require.NoError(t, err)
		_, err = f.events.RespondToInvitation(f.ctx, event.ID, inv.ID, models.InvitationAccepted)
		require.NoError(t, err)
	}

	path := "/api/events/" + event.ID + "/teams/" + event.Teams[0].ID + "/available?minLevel=4&maxLevel=5"
	resp := f.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	available := decodeResp[[]models.Player](t, resp)
	require.Len(t, available, 1)
	assert.Equal(t, high.ID, available[0].ID)
}

// TestStatistics_Endpoint tests the aggregated statistics payload.
func TestStatistics_Endpoint(t *testing.T) {
	f := newAPIFixture(t)

	p, err := f.roster.AddPlayer(f.ctx, roster.CreatePlayerRequest{FirstName: "Nora", LastName: "Falk", Level: 2})
	require.NoError(t, err)
	event, err := f.events.CreateEvent(f.ctx, events.CreateEventRequest{
		Name:              "Friendly",
		Date:              "2026-09-20",
		StartTime:         "10:00",
		NumberOfTeams:     1,
		MaxPlayersPerTeam: 6,
	})
	require.NoError(t, err)
	inv, err := f.events.InvitePlayer(f.ctx, event.ID, p.ID)
	require.NoError(t, err)
	_, err = f.events.RespondToInvitation(f.ctx, event.ID, inv.ID, models.InvitationAccepted)
	require.NoError(t, err)

	resp := f.do(t, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Summary models.Summary       `json:"summary"`
		Players []models.PlayerStats `json:"players"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Summary.TotalPlayers)
	assert.Equal(t, 1, body.Summary.TotalEvents)
	require.Len(t, body.Players, 1)
	assert.Equal(t, 1, body.Players[0].InvitedCount)
	assert.Equal(t, 1, body.Players[0].AcceptedCount)
	assert.InDelta(t, 100.0, body.Players[0].AcceptanceRate, 0.001)
}

// TestInvalidBody_MapsTo400 tests malformed JSON handling.
func TestInvalidBody_MapsTo400(t *testing.T) {
	f := newAPIFixture(t)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/players", bytes.NewBufferString("{nope"))
	require.NoError(t, err)
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
