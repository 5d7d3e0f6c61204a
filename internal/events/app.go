package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/teamkit/roster/internal/apperrors"
	"github.com/teamkit/roster/internal/models"
)

// EventsRepository defines what the app layer needs from the repository.
type EventsRepository interface {
	LoadEvents(ctx context.Context) []models.Event
	SaveEvents(ctx context.Context, events []models.Event) error
}

// PlayerSource defines what the app layer needs from the roster for
// cross-entity validation: inviting or assigning a player requires the id to
// exist in the current roster.
type PlayerSource interface {
	LoadPlayers(ctx context.Context) []models.Player
}

// App handles event, team and invitation business logic. Assignment
// invariants are re-checked at write time, never trusted from an earlier
// eligibility read: state may have changed between the two (another tab, for
// instance).
type App struct {
	repo    EventsRepository
	players PlayerSource
	clock   clockwork.Clock
	log     zerolog.Logger
}

// NewApp creates a new events App.
func NewApp(repo EventsRepository, players PlayerSource, clock clockwork.Clock, log zerolog.Logger) *App {
	return &App{
		repo:    repo,
		players: players,
		clock:   clock,
		log:     log,
	}
}

// CreateEvent validates the request and appends a new event with
// numberOfTeams generated teams, each named "Team {n}" and carrying the
// requested start time, and an empty invitation list.
func (a *App) CreateEvent(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	if err := validateCreateEventRequest(req); err != nil {
		return nil, err
	}

	event := models.Event{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Date:              req.Date,
		MaxPlayersPerTeam: req.MaxPlayersPerTeam,
		Teams:             make([]models.Team, 0, req.NumberOfTeams),
		Invitations:       []models.Invitation{},
		CreatedAt:         a.clock.Now().UTC(),
	}
	for n := 1; n <= req.NumberOfTeams; n++ {
		event.Teams = append(event.Teams, models.Team{
			ID:              uuid.NewString(),
			Name:            fmt.Sprintf("Team %d", n),
			StartTime:       req.StartTime,
			SelectedPlayers: []string{},
		})
	}

	all := a.repo.LoadEvents(ctx)
	all = append(all, event)
	if err := a.repo.SaveEvents(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	a.log.Info().Str("event_id", event.ID).Str("name", event.Name).Int("teams", req.NumberOfTeams).Msg("created event")
	return &event, nil
}

// DeleteEvent removes the event and everything it owns. Deleting an absent id
// is not an error.
func (a *App) DeleteEvent(ctx context.Context, id string) error {
	all := a.repo.LoadEvents(ctx)
	filtered := all[:0:0]
	for _, e := range all {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == len(all) {
		return nil
	}

	if err := a.repo.SaveEvents(ctx, filtered); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	a.log.Info().Str("event_id", id).Msg("deleted event")
	return nil
}

// ListEvents returns all events in stable insertion order.
func (a *App) ListEvents(ctx context.Context) []models.Event {
	return a.repo.LoadEvents(ctx)
}

// GetEvent looks an event up by id.
func (a *App) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	for _, e := range a.repo.LoadEvents(ctx) {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, &apperrors.NotFoundError{Entity: "event", ID: id}
}

// InvitePlayer creates an open invitation for the player. At most one
// invitation exists per (event, player) pair.
func (a *App) InvitePlayer(ctx context.Context, eventID, playerID string) (*models.Invitation, error) {
	if !a.playerExists(ctx, playerID) {
		return nil, &apperrors.NotFoundError{Entity: "player", ID: playerID}
	}

	all := a.repo.LoadEvents(ctx)
	idx := eventIndex(all, eventID)
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "event", ID: eventID}
	}

	if all[idx].InvitationFor(playerID) != nil {
		return nil, &apperrors.ConflictError{
			Reason: fmt.Sprintf("player %s is already invited to event %s", playerID, eventID),
		}
	}

	inv := models.Invitation{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		EventID:  eventID,
		Status:   models.InvitationOpen,
	}
	all[idx].Invitations = append(all[idx].Invitations, inv)

	if err := a.repo.SaveEvents(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to invite player: %w", err)
	}

	a.log.Info().Str("event_id", eventID).Str("player_id", playerID).Msg("invited player")
	return &inv, nil
}

// RespondToInvitation resolves an open invitation to accepted or declined.
// Resolved invitations are immutable; there is no transition back to open.
func (a *App) RespondToInvitation(ctx context.Context, eventID, invitationID string, status models.InvitationStatus) (*models.Invitation, error) {
	if status != models.InvitationAccepted && status != models.InvitationDeclined {
		return nil, &apperrors.ValidationError{Field: "status", Reason: "must be accepted or declined"}
	}

	all := a.repo.LoadEvents(ctx)
	idx := eventIndex(all, eventID)
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "event", ID: eventID}
	}

	inv := all[idx].Invitation(invitationID)
	if inv == nil {
		return nil, &apperrors.NotFoundError{Entity: "invitation", ID: invitationID}
	}
	if inv.Status != models.InvitationOpen {
		return nil, &apperrors.InvalidStateError{Current: string(inv.Status), Attempt: string(status)}
	}
	inv.Status = status

	if err := a.repo.SaveEvents(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to respond to invitation: %w", err)
	}

	a.log.Info().Str("invitation_id", invitationID).Str("status", string(status)).Msg("invitation resolved")
	return inv, nil
}

// AssignPlayersToTeam adds playerIDs to the team after re-validating every
// invariant against current state: each candidate must exist in the roster,
// hold an accepted invitation for the event, and not be selected into any
// team of the event; the resulting team size must stay within
// maxPlayersPerTeam. Any violation fails the whole call with nothing
// assigned.
func (a *App) AssignPlayersToTeam(ctx context.Context, eventID, teamID string, playerIDs []string) (*models.Team, error) {
	all := a.repo.LoadEvents(ctx)
	idx := eventIndex(all, eventID)
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "event", ID: eventID}
	}
	event := &all[idx]
	team := event.Team(teamID)
	if team == nil {
		return nil, &apperrors.NotFoundError{Entity: "team", ID: teamID}
	}

	if len(team.SelectedPlayers)+len(playerIDs) > event.MaxPlayersPerTeam {
		return nil, &apperrors.CapacityError{
			TeamID:     teamID,
			Current:    len(team.SelectedPlayers),
			Adding:     len(playerIDs),
			MaxAllowed: event.MaxPlayersPerTeam,
		}
	}

	seen := make(map[string]bool, len(playerIDs))
	for _, pid := range playerIDs {
		if seen[pid] {
			return nil, &apperrors.ConflictError{Reason: fmt.Sprintf("player %s listed twice", pid)}
		}
		seen[pid] = true

		if !a.playerExists(ctx, pid) {
			return nil, &apperrors.NotFoundError{Entity: "player", ID: pid}
		}
		inv := event.InvitationFor(pid)
		if inv == nil || inv.Status != models.InvitationAccepted {
			return nil, &apperrors.ConflictError{
				Reason: fmt.Sprintf("player %s has no accepted invitation for event %s", pid, eventID),
			}
		}
		if event.IsAssigned(pid) {
			return nil, &apperrors.ConflictError{
				Reason: fmt.Sprintf("player %s is already selected into a team of event %s", pid, eventID),
			}
		}
	}

	team.SelectedPlayers = append(team.SelectedPlayers, playerIDs...)

	if err := a.repo.SaveEvents(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to assign players: %w", err)
	}

	a.log.Info().Str("event_id", eventID).Str("team_id", teamID).Int("added", len(playerIDs)).Msg("assigned players to team")
	return team, nil
}

// RemovePlayerFromTeam removes the player from the team's selection.
// Removing an unselected player is not an error.
func (a *App) RemovePlayerFromTeam(ctx context.Context, eventID, teamID, playerID string) (*models.Team, error) {
	all := a.repo.LoadEvents(ctx)
	idx := eventIndex(all, eventID)
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "event", ID: eventID}
	}
	team := all[idx].Team(teamID)
	if team == nil {
		return nil, &apperrors.NotFoundError{Entity: "team", ID: teamID}
	}

	kept := make([]string, 0, len(team.SelectedPlayers))
	for _, pid := range team.SelectedPlayers {
		if pid != playerID {
			kept = append(kept, pid)
		}
	}
	if len(kept) == len(team.SelectedPlayers) {
		return team, nil
	}
	team.SelectedPlayers = kept

	if err := a.repo.SaveEvents(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to remove player: %w", err)
	}

	a.log.Info().Str("event_id", eventID).Str("team_id", teamID).Str("player_id", playerID).Msg("removed player from team")
	return team, nil
}

// RenameTeam sets a team's display name.
func (a *App) RenameTeam(ctx context.Context, eventID, teamID, name string) (*models.Team, error) {
	if name == "" {
		return nil, &apperrors.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	all := a.repo.LoadEvents(ctx)
	idx := eventIndex(all, eventID)
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "event", ID: eventID}
	}
	team := all[idx].Team(teamID)
	if team == nil {
		return nil, &apperrors.NotFoundError{Entity: "team", ID: teamID}
	}
	team.Name = name

	if err := a.repo.SaveEvents(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to rename team: %w", err)
	}

	a.log.Info().Str("team_id", teamID).Str("name", name).Msg("renamed team")
	return team, nil
}

func (a *App) playerExists(ctx context.Context, playerID string) bool {
	for _, p := range a.players.LoadPlayers(ctx) {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func eventIndex(events []models.Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

func validateCreateEventRequest(req CreateEventRequest) error {
	if req.Name == "" {
		return &apperrors.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if _, err := time.Parse(models.EventDateLayout, req.Date); err != nil {
		return &apperrors.ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
	}
	if _, err := time.Parse(models.StartTimeLayout, req.StartTime); err != nil {
		return &apperrors.ValidationError{Field: "startTime", Reason: "must be formatted HH:MM"}
	}
	if req.NumberOfTeams < 1 {
		return &apperrors.ValidationError{Field: "numberOfTeams", Reason: "must be at least 1"}
	}
	if req.MaxPlayersPerTeam < 1 {
		return &apperrors.ValidationError{Field: "maxPlayersPerTeam", Reason: "must be at least 1"}
	}
	return nil
}
