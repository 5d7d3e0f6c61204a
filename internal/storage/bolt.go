package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/teamkit/roster/internal/apperrors"
)

const bucketCollections = "collections"

// Bolt persists collections in a single-file bbolt database, one key per
// collection inside one bucket.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens (or creates) the database at path and ensures the collections
// bucket exists.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCollections))
		if err != nil {
			return fmt.Errorf("creating collections bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the underlying database file.
func (s *Bolt) Close() error {
	return s.db.Close()
}

// Get returns the stored blob for key, or (nil, nil) when absent.
func (s *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketCollections)).Get([]byte(key))
		if data == nil {
			return nil
		}
		// The slice is only valid inside the transaction.
		out = make([]byte, len(data))
		copy(out, data)
		return nil
	})
	if err != nil {
		return nil, &apperrors.StorageError{Op: "get", Key: key, Err: err}
	}
	return out, nil
}

// Set writes the blob for key in a single transaction.
func (s *Bolt) Set(ctx context.Context, key string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCollections)).Put([]byte(key), data)
	})
	if err != nil {
		return &apperrors.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}
