package roster

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

// RosterRepository defines what the app layer needs from the repository.
type RosterRepository interface {
	LoadPlayers(ctx context.Context) []models.Player
	SavePlayers(ctx context.Context, players []models.Player) error
	LoadTrainers(ctx context.Context) []models.Trainer
	SaveTrainers(ctx context.Context, trainers []models.Trainer) error
}

// App handles roster business logic: player and trainer CRUD with
// validation. It performs no cross-entity checks against event data; those
// belong to the eligibility engine.
type App struct {
	repo  RosterRepository
	clock clockwork.Clock
	log   zerolog.Logger
}

// NewApp creates a new roster App.
func NewApp(repo RosterRepository, clock clockwork.Clock, log zerolog.Logger) *App {
	return &App{
		repo:  repo,
		clock: clock,
		log:   log,
	}
}

// AddPlayer validates the request and appends a new player with a fresh id.
func (a *App) AddPlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	player := models.Player{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Level:     req.Level,
		CreatedAt: a.clock.Now().UTC(),
	}
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	players := a.repo.LoadPlayers(ctx)
	players = append(players, player)
	if err := a.repo.SavePlayers(ctx, players); err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}

	a.log.Info().Str("player_id", player.ID).Str("name", player.FirstName+" "+player.LastName).Msg("added player")
	return &player, nil
}

// UpdatePlayer merges the non-nil fields of req into the stored player and
// re-validates the result. The id is immutable.
func (a *App) UpdatePlayer(ctx context.Context, id string, req UpdatePlayerRequest) (*models.Player, error) {
	players := a.repo.LoadPlayers(ctx)
	idx := -1
	for i := range players {
		if players[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "player", ID: id}
	}

	updated := players[idx]
	if req.FirstName != nil {
		updated.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		updated.LastName = *req.LastName
	}
	if req.BirthDate != nil {
		updated.BirthDate = *req.BirthDate
	}
	if req.Level != nil {
		updated.Level = *req.Level
	}
	if err := validatePlayer(updated); err != nil {
		return nil, err
	}

	players[idx] = updated
	if err := a.repo.SavePlayers(ctx, players); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	a.log.Info().Str("player_id", id).Msg("updated player")
	return &updated, nil
}

// DeletePlayer removes the player if present. Deleting an absent id is not an
// error. Event data referencing the id is left alone; read-side projections
// filter against the current roster.
func (a *App) DeletePlayer(ctx context.Context, id string) error {
	players := a.repo.LoadPlayers(ctx)
	filtered := players[:0:0]
	for _, p := range players {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == len(players) {
		return nil
	}

	if err := a.repo.SavePlayers(ctx, filtered); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	a.log.Info().Str("player_id", id).Msg("deleted player")
	return nil
}

// ListPlayers returns the roster in stable insertion order.
func (a *App) ListPlayers(ctx context.Context) []models.Player {
	return a.repo.LoadPlayers(ctx)
}

// GetPlayer looks a player up by id.
func (a *App) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	for _, p := range a.repo.LoadPlayers(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &apperrors.NotFoundError{Entity: "player", ID: id}
}

// AddTrainer validates the request and appends a new trainer.
func (a *App) AddTrainer(ctx context.Context, req CreateTrainerRequest) (*models.Trainer, error) {
	trainer := models.Trainer{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: a.clock.Now().UTC(),
	}
	if err := validateTrainer(trainer); err != nil {
		return nil, err
	}

	trainers := a.repo.LoadTrainers(ctx)
	trainers = append(trainers, trainer)
	if err := a.repo.SaveTrainers(ctx, trainers); err != nil {
		return nil, fmt.Errorf("failed to add trainer: %w", err)
	}

	a.log.Info().Str("trainer_id", trainer.ID).Msg("added trainer")
	return &trainer, nil
}

// UpdateTrainer merges the non-nil fields of req into the stored trainer.
func (a *App) UpdateTrainer(ctx context.Context, id string, req UpdateTrainerRequest) (*models.Trainer, error) {
	trainers := a.repo.LoadTrainers(ctx)
	idx := -1
	for i := range trainers {
		if trainers[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &apperrors.NotFoundError{Entity: "trainer", ID: id}
	}

	updated := trainers[idx]
	if req.FirstName != nil {
		updated.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		updated.LastName = *req.LastName
	}
	if err := validateTrainer(updated); err != nil {
		return nil, err
	}

	trainers[idx] = updated
	if err := a.repo.SaveTrainers(ctx, trainers); err != nil {
		return nil, fmt.Errorf("failed to update trainer: %w", err)
	}

	a.log.Info().Str("trainer_id", id).Msg("updated trainer")
	return &updated, nil
}

// DeleteTrainer removes the trainer if present; absent ids are not an error.
func (a *App) DeleteTrainer(ctx context.Context, id string) error {
	trainers := a.repo.LoadTrainers(ctx)
	filtered := trainers[:0:0]
	for _, t := range trainers {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == len(trainers) {
		return nil
	}

	if err := a.repo.SaveTrainers(ctx, filtered); err != nil {
		return fmt.Errorf("failed to delete trainer: %w", err)
	}

	a.log.Info().Str("trainer_id", id).Msg("deleted trainer")
	return nil
}

// ListTrainers returns all trainers in stable insertion order.
func (a *App) ListTrainers(ctx context.Context) []models.Trainer {
	return a.repo.LoadTrainers(ctx)
}

func validatePlayer(p models.Player) error {
	if p.FirstName == "" {
		return &apperrors.ValidationError{Field: "firstName", Reason: "must not be empty"}
	}
	if p.LastName == "" {
		return &apperrors.ValidationError{Field: "lastName", Reason: "must not be empty"}
	}
	if p.Level < models.MinLevel || p.Level > models.MaxLevel {
		return &apperrors.ValidationError{
			Field:  "level",
			Reason: fmt.Sprintf("must be between %d and %d", models.MinLevel, models.MaxLevel),
		}
	}
	if p.BirthDate != "" {
		if _, err := time.Parse(models.BirthDateLayout, p.BirthDate); err != nil {
			return &apperrors.ValidationError{Field: "birthDate", Reason: "must be formatted YYYY-MM-DD"}
		}
	}
	return nil
}

func validateTrainer(t models.Trainer) error {
	if t.FirstName == "" {
		return &apperrors.ValidationError{Field: "firstName", Reason: "must not be empty"}
	}
	if t.LastName == "" {
		return &apperrors.ValidationError{Field: "lastName", Reason: "must not be empty"}
	}
	return nil
}
