package roster

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teamkit/roster/internal/models"
	"github.com/teamkit/roster/internal/storage"
)

// Repository persists the player and trainer collections through the blob
// store. Each collection is read and written whole; callers mutate in memory
// between Load and Save.
type Repository struct {
	store storage.Store
	log   zerolog.Logger
}

// NewRepository creates a roster repository over the given store.
func NewRepository(store storage.Store, log zerolog.Logger) *Repository {
	return &Repository{store: store, log: log}
}

// LoadPlayers returns the persisted player collection. Absent, unreadable or
// malformed data degrades to an empty collection so the read path never
// fails; the condition is logged.
func (r *Repository) LoadPlayers(ctx context.Context) []models.Player {
	data, err := r.store.Get(ctx, storage.KeyPlayers)
	if err != nil {
		r.log.Error().Err(err).Str("collection", storage.KeyPlayers).Msg("read failed, using empty collection")
		return []models.Player{}
	}
	if data == nil {
		return []models.Player{}
	}

	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		r.log.Error().Err(err).Str("collection", storage.KeyPlayers).Msg("malformed data, using empty collection")
		return []models.Player{}
	}
	if players == nil {
		players = []models.Player{}
	}
	return players
}

// SavePlayers replaces the persisted player collection.
func (r *Repository) SavePlayers(ctx context.Context, players []models.Player) error {
	data, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("marshaling players: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyPlayers, data); err != nil {
		return fmt.Errorf("failed to save players: %w", err)
	}
	return nil
}

// LoadTrainers returns the persisted trainer collection, degrading to empty
// like LoadPlayers.
func (r *Repository) LoadTrainers(ctx context.Context) []models.Trainer {
	data, err := r.store.Get(ctx, storage.KeyTrainers)
	if err != nil {
		r.log.Error().Err(err).Str("collection", storage.KeyTrainers).Msg("read failed, using empty collection")
		return []models.Trainer{}
	}
	if data == nil {
		return []models.Trainer{}
	}

	var trainers []models.Trainer
	if err := json.Unmarshal(data, &trainers); err != nil {
		r.log.Error().Err(err).Str("collection", storage.KeyTrainers).Msg("malformed data, using empty collection")
		return []models.Trainer{}
	}
	if trainers == nil {
		trainers = []models.Trainer{}
	}
	return trainers
}

// SaveTrainers replaces the persisted trainer collection.
func (r *Repository) SaveTrainers(ctx context.Context, trainers []models.Trainer) error {
	data, err := json.Marshal(trainers)
	if err != nil {
		return fmt.Errorf("marshaling trainers: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyTrainers, data); err != nil {
		return fmt.Errorf("failed to save trainers: %w", err)
	}
	return nil
}
