// Package migrate rewrites persisted collections from legacy shapes to the
// current one. Migrations run on every startup, work on the raw JSON so they
// can see fields the current models no longer carry, and are idempotent: a
// record already in the latest shape passes through untouched.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teamkit/roster/internal/models"
	"github.com/teamkit/roster/internal/storage"
)

// Runner applies all migrations against one blob store.
type Runner struct {
	store storage.Store
	log   zerolog.Logger
}

// NewRunner creates a migration runner over the given store.
func NewRunner(store storage.Store, log zerolog.Logger) *Runner {
	return &Runner{store: store, log: log}
}

// Run applies every migration in order. A collection that cannot be parsed is
// left untouched and logged; that is not fatal, the repositories will degrade
// it to empty at read time.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.migrateEvents(ctx); err != nil {
		return fmt.Errorf("migrating events: %w", err)
	}
	if err := r.migratePlayers(ctx); err != nil {
		return fmt.Errorf("migrating players: %w", err)
	}
	return nil
}

// migrateEvents moves event-level startTime down to each team (defaulting to
// "10:00" when absent) and folds a legacy flat selectedPlayers list into the
// first team, capped at the event's capacity.
func (r *Runner) migrateEvents(ctx context.Context) error {
	data, err := r.store.Get(ctx, storage.KeyEvents)
	if err != nil {
		return err
	}
	if data == nil {
		r.log.Debug().Msg("no events to migrate")
		return nil
	}

	var events []map[string]any
	if err := json.Unmarshal(data, &events); err != nil {
		r.log.Error().Err(err).Msg("events collection unparseable, skipping migration")
		return nil
	}

	changed := 0
	for _, event := range events {
		if migrateStartTime(event) {
			changed++
		}
		if migrateFlatSelection(event) {
			changed++
		}
	}
	if changed == 0 {
		return nil
	}

	out, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshaling migrated events: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyEvents, out); err != nil {
		return err
	}
	r.log.Info().Int("changed", changed).Msg("event migration completed")
	return nil
}

// migrateStartTime reports whether the event record was rewritten.
func migrateStartTime(event map[string]any) bool {
	teams, _ := event["teams"].([]any)

	// Already migrated once the first team carries the field.
	if len(teams) > 0 {
		if first, ok := teams[0].(map[string]any); ok {
			if _, has := first["startTime"]; has {
				return false
			}
		}
	} else if _, has := event["startTime"]; !has {
		return false
	}

	startTime, _ := event["startTime"].(string)
	if startTime == "" {
		startTime = models.DefaultStartTime
	}
	for _, t := range teams {
		if team, ok := t.(map[string]any); ok {
			team["startTime"] = startTime
		}
	}
	delete(event, "startTime")
	return true
}

// migrateFlatSelection reports whether a legacy event-level selectedPlayers
// list was folded into the first team.
func migrateFlatSelection(event map[string]any) bool {
	raw, has := event["selectedPlayers"]
	if !has {
		return false
	}
	delete(event, "selectedPlayers")

	selected, _ := raw.([]any)
	teams, _ := event["teams"].([]any)
	if len(selected) == 0 || len(teams) == 0 {
		return true
	}
	first, ok := teams[0].(map[string]any)
	if !ok {
		return true
	}
	if existing, _ := first["selectedPlayers"].([]any); len(existing) > 0 {
		return true
	}

	max := len(selected)
	if m, ok := event["maxPlayersPerTeam"].(float64); ok && int(m) < max {
		max = int(m)
	}
	first["selectedPlayers"] = selected[:max]
	return true
}

// migratePlayers renames score to level and converts birthYear to the
// canonical birthDate.
func (r *Runner) migratePlayers(ctx context.Context) error {
	data, err := r.store.Get(ctx, storage.KeyPlayers)
	if err != nil {
		return err
	}
	if data == nil {
		r.log.Debug().Msg("no players to migrate")
		return nil
	}

	var players []map[string]any
	if err := json.Unmarshal(data, &players); err != nil {
		r.log.Error().Err(err).Msg("players collection unparseable, skipping migration")
		return nil
	}

	changed := 0
	for _, player := range players {
		rewritten := false
		if score, has := player["score"]; has {
			if _, hasLevel := player["level"]; !hasLevel {
				player["level"] = score
			}
			delete(player, "score")
			rewritten = true
		}
		if year, has := player["birthYear"]; has {
			if _, hasDate := player["birthDate"]; !hasDate {
				if y, ok := year.(float64); ok {
					player["birthDate"] = fmt.Sprintf("%04d-01-01", int(y))
				}
			}
			delete(player, "birthYear")
			rewritten = true
		}
		if rewritten {
			changed++
		}
	}
	if changed == 0 {
		return nil
	}

	out, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("marshaling migrated players: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyPlayers, out); err != nil {
		return err
	}
	r.log.Info().Int("changed", changed).Msg("player migration completed")
	return nil
}
