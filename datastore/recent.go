package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/fkanj70/Accelerated-Report/models"
)

// recentKey holds the bounded recent-submissions history as one JSON array,
// newest first.
var recentKey = []byte("recent_submissions")

// RecentRepository persists the user-facing history of successfully
// delivered reports. The collection never exceeds models.MaxRecentEntries;
// inserting past the cap evicts the oldest entry.
type RecentRepository struct {
	store *Store
	mu    sync.Mutex
}

func NewRecentRepository(store *Store) *RecentRepository {
	return &RecentRepository{store: store}
}

// Add prepends a delivered report to the history, evicting the oldest
// entry when the cap is exceeded.
func (r *RecentRepository) Add(ctx context.Context, entry *models.RecentEntry) error {
	if entry == nil {
		return errors.New("entry must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.update(ctx, func(txn *badger.Txn) error {
		recent, err := loadRecent(txn)
		if err != nil {
			return err
		}
		recent = append([]models.RecentEntry{*entry}, recent...)
		if len(recent) > models.MaxRecentEntries {
			recent = recent[:models.MaxRecentEntries]
		}
		return writeJSON(txn, recentKey, recent)
	})
}

// List returns the history, most recent first.
func (r *RecentRepository) List(ctx context.Context) ([]models.RecentEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var recent []models.RecentEntry
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		recent, err = loadRecent(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent submissions: %w", err)
	}
	return recent, nil
}

func loadRecent(txn *badger.Txn) ([]models.RecentEntry, error) {
	var recent []models.RecentEntry
	err := readJSON(txn, recentKey, &recent)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return recent, nil
}
