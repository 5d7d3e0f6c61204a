package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/teamkit/roster/internal/apperrors"
	"github.com/teamkit/roster/internal/events"
	"github.com/teamkit/roster/internal/models"
	"github.com/teamkit/roster/internal/roster"
	"github.com/teamkit/roster/internal/stats"
)

// RosterApp defines what the handlers need from the roster application.
type RosterApp interface {
	AddPlayer(ctx context.Context, req roster.CreatePlayerRequest) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id string, req roster.UpdatePlayerRequest) (*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	ListPlayers(ctx context.Context) []models.Player
	AddTrainer(ctx context.Context, req roster.CreateTrainerRequest) (*models.Trainer, error)
	UpdateTrainer(ctx context.Context, id string, req roster.UpdateTrainerRequest) (*models.Trainer, error)
	DeleteTrainer(ctx context.Context, id string) error
	ListTrainers(ctx context.Context) []models.Trainer
}

// EventsApp defines what the handlers need from the events application.
type EventsApp interface {
	CreateEvent(ctx context.Context, req events.CreateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) []models.Event
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	InvitePlayer(ctx context.Context, eventID, playerID string) (*models.Invitation, error)
	RespondToInvitation(ctx context.Context, eventID, invitationID string, status models.InvitationStatus) (*models.Invitation, error)
	AssignPlayersToTeam(ctx context.Context, eventID, teamID string, playerIDs []string) (*models.Team, error)
	RemovePlayerFromTeam(ctx context.Context, eventID, teamID, playerID string) (*models.Team, error)
	RenameTeam(ctx context.Context, eventID, teamID, name string) (*models.Team, error)
}

// Notifier receives a collection name after every successful mutation.
type Notifier interface {
	Broadcast(collection string)
}

// Handler exposes the roster and event applications as a REST JSON API for
// the browser UI.
type Handler struct {
	roster   RosterApp
	events   EventsApp
	notifier Notifier
	log      zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(rosterApp RosterApp, eventsApp EventsApp, notifier Notifier, log zerolog.Logger) *Handler {
	return &Handler{
		roster:   rosterApp,
		events:   eventsApp,
		notifier: notifier,
		log:      log,
	}
}

// RegisterRoutes attaches all API routes to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", h.listPlayers)
	mux.HandleFunc("POST /api/players", h.addPlayer)
	mux.HandleFunc("PUT /api/players/{id}", h.updatePlayer)
	mux.HandleFunc("DELETE /api/players/{id}", h.deletePlayer)

	mux.HandleFunc("GET /api/trainers", h.listTrainers)
	mux.HandleFunc("POST /api/trainers", h.addTrainer)
	mux.HandleFunc("PUT /api/trainers/{id}", h.updateTrainer)
	mux.HandleFunc("DELETE /api/trainers/{id}", h.deleteTrainer)

	mux.HandleFunc("GET /api/events", h.listEvents)
	mux.HandleFunc("POST /api/events", h.createEvent)
	mux.HandleFunc("GET /api/events/{id}", h.getEvent)
	mux.HandleFunc("DELETE /api/events/{id}", h.deleteEvent)

	mux.HandleFunc("POST /api/events/{id}/invitations", h.invitePlayer)
	mux.HandleFunc("PUT /api/events/{id}/invitations/{invitationId}", h.respondToInvitation)

	mux.HandleFunc("PUT /api/events/{id}/teams/{teamId}", h.renameTeam)
	mux.HandleFunc("POST /api/events/{id}/teams/{teamId}/players", h.assignPlayers)
	mux.HandleFunc("DELETE /api/events/{id}/teams/{teamId}/players/{playerId}", h.removePlayer)
	mux.HandleFunc("GET /api/events/{id}/teams/{teamId}/available", h.availablePlayers)

	mux.HandleFunc("GET /api/statistics", h.statistics)
}

func (h *Handler) listPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.roster.ListPlayers(r.Context()))
}

func (h *Handler) addPlayer(w http.ResponseWriter, r *http.Request) {
	var req roster.CreatePlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, err := h.roster.AddPlayer(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("players")
	writeJSON(w, http.StatusCreated, player)
}

func (h *Handler) updatePlayer(w http.ResponseWriter, r *http.Request) {
	var req roster.UpdatePlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, err := h.roster.UpdatePlayer(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("players")
	writeJSON(w, http.StatusOK, player)
}

func (h *Handler) deletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.DeletePlayer(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("players")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTrainers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.roster.ListTrainers(r.Context()))
}

func (h *Handler) addTrainer(w http.ResponseWriter, r *http.Request) {
	var req roster.CreateTrainerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	trainer, err := h.roster.AddTrainer(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("trainers")
	writeJSON(w, http.StatusCreated, trainer)
}

func (h *Handler) updateTrainer(w http.ResponseWriter, r *http.Request) {
	var req roster.UpdateTrainerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	trainer, err := h.roster.UpdateTrainer(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("trainers")
	writeJSON(w, http.StatusOK, trainer)
}

func (h *Handler) deleteTrainer(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.DeleteTrainer(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("trainers")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.events.ListEvents(r.Context()))
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req events.CreateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	event, err := h.events.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	writeJSON(w, http.StatusCreated, event)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invitePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	inv, err := h.events.InvitePlayer(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	writeJSON(w, http.StatusCreated, inv)
}

func (h *Handler) respondToInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.InvitationStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	inv, err := h.events.RespondToInvitation(r.Context(), r.PathValue("id"), r.PathValue("invitationId"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) renameTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	team, err := h.events.RenameTeam(r.Context(), r.PathValue("id"), r.PathValue("teamId"), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	writeJSON(w, http.StatusOK, team)
}

func (h *Handler) assignPlayers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerIDs []string `json:"playerIds"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	team, err := h.events.AssignPlayersToTeam(r.Context(), r.PathValue("id"), r.PathValue("teamId"), req.PlayerIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	writeJSON(w, http.StatusOK, team)
}

func (h *Handler) removePlayer(w http.ResponseWriter, r *http.Request) {
	team, err := h.events.RemovePlayerFromTeam(r.Context(), r.PathValue("id"), r.PathValue("teamId"), r.PathValue("playerId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.notifier.Broadcast("events")
	writeJSON(w, http.StatusOK, team)
}

// availablePlayers answers the eligibility query the UI runs before offering
// an assignment. minLevel/maxLevel default to the full 1-5 range.
func (h *Handler) availablePlayers(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if event.Team(r.PathValue("teamId")) == nil {
		h.writeError(w, &apperrors.NotFoundError{Entity: "team", ID: r.PathValue("teamId")})
		return
	}

	minLevel := queryInt(r, "minLevel", models.MinLevel)
	maxLevel := queryInt(r, "maxLevel", models.MaxLevel)

	available := stats.AvailablePlayersForTeam(*event, h.roster.ListPlayers(r.Context()), minLevel, maxLevel)
	writeJSON(w, http.StatusOK, available)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	players := h.roster.ListPlayers(r.Context())
	allEvents := h.events.ListEvents(r.Context())

	playerStats := stats.ComputePlayerStatistics(players, allEvents)
	writeJSON(w, http.StatusOK, struct {
		Summary models.Summary       `json:"summary"`
		Players []models.PlayerStats `json:"players"`
	}{
		Summary: stats.ComputeSummary(playerStats, len(allEvents)),
		Players: playerStats,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsConflict(err), apperrors.IsCapacity(err), apperrors.IsInvalidState(err):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
