package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teamkit/roster/internal/models"
	"github.com/teamkit/roster/internal/storage"
)

// Repository persists the event collection through the blob store. Events own
// their teams and invitations, so the collection is self-contained and read
// and written whole.
type Repository struct {
	store storage.Store
	log   zerolog.Logger
}

// NewRepository creates an events repository over the given store.
func NewRepository(store storage.Store, log zerolog.Logger) *Repository {
	return &Repository{store: store, log: log}
}

// LoadEvents returns the persisted event collection with optional fields
// normalized to empty slices. Absent, unreadable or malformed data degrades
// to an empty collection; the condition is logged.
func (r *Repository) LoadEvents(ctx context.Context) []models.Event {
	data, err := r.store.Get(ctx, storage.KeyEvents)
	if err != nil {
		r.log.Error().Err(err).Str("collection", storage.KeyEvents).Msg("read failed, using empty collection")
		return []models.Event{}
	}
	if data == nil {
		return []models.Event{}
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		r.log.Error().Err(err).Str("collection", storage.KeyEvents).Msg("malformed data, using empty collection")
		return []models.Event{}
	}
	if events == nil {
		events = []models.Event{}
	}
	for i := range events {
		events[i].Normalize()
	}
	return events
}

// SaveEvents replaces the persisted event collection.
func (r *Repository) SaveEvents(ctx context.Context, events []models.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshaling events: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyEvents, data); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	return nil
}
