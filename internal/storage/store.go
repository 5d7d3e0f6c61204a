// Package storage provides the key-value blob medium the roster and event
// repositories persist into. Collections are stored whole: one key per
// collection, value is the JSON-encoded slice. Every mutation is a full
// read-modify-write by the caller; the medium's own Set is atomic per key.
package storage

import "context"

// Collection keys used by the repositories and migrations.
const (
	KeyPlayers  = "players"
	KeyTrainers = "trainers"
	KeyEvents   = "events"
)

// Store is the blob contract shared by all backends. Get returns (nil, nil)
// when the key has never been written. Implementations must treat Set as
// atomic per key; no cross-key transaction is offered.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}
