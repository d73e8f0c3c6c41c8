package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("datastore: not found")

// Store is the embedded key-value database backing all client-side state:
// the offline report queue, the recent-submissions history, and the
// delivery-attempt journal. It is the durable store the widget survives
// restarts with; there is no server-side mirror of its contents.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) a persistent store in the given directory.
// The caller must Close it when done.
func OpenStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("datastore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemoryStore opens a non-persistent store. Used by tests; data is
// lost on Close.
func OpenInMemoryStore() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database. Pending writes are flushed.
func (s *Store) Close() error {
	return s.db.Close()
}

// update runs fn inside a read-write transaction after checking ctx.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return s.db.Update(fn)
}

// view runs fn inside a read-only transaction after checking ctx.
func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return s.db.View(fn)
}

// readJSON loads and unmarshals the value at key into out. Returns
// ErrNotFound when the key does not exist.
func readJSON(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, out); err != nil {
			return fmt.Errorf("failed to decode value at key %s: %w", key, err)
		}
		return nil
	})
}

// writeJSON marshals v and stores it at key.
func writeJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}
	if err := txn.Set(key, data); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}
