// Package kvstore provides a typed key-value store for user-facing state
// that does not belong in the agents table: settings blobs and the
// recently-viewed list. The store is injected so callers can be tested
// against the in-memory database.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oneai-dev/oneai/internal/catalog/database"
)

// Store reads and writes JSON-encoded values by key.
type Store struct {
	db database.Database
}

// New creates a Store over the given database.
func New(db database.Database) *Store {
	return &Store{db: db}
}

// Get decodes the value stored under key into out. Returns
// database.ErrNotFound when the key is absent.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	raw, err := s.db.GetSetting(ctx, nil, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("corrupt value for key %q: %w", key, err)
	}
	return nil
}

// Put encodes value as JSON and upserts it under key.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}
	return s.db.PutSetting(ctx, nil, key, raw)
}
