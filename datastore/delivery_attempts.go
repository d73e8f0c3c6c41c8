package datastore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/google/uuid"
)

// attemptKeyPrefix namespaces attempt-journal records. Keys embed the
// creation time in fixed-width nanoseconds so lexical order is time order.
const attemptKeyPrefix = "attempt:"

// AttemptRepository keeps an append-only journal of delivery attempts,
// covering both direct submissions and scheduler retries. Records are
// diagnostic only and never consulted by the retry logic.
type AttemptRepository struct {
	store *Store
}

func NewAttemptRepository(store *Store) *AttemptRepository {
	return &AttemptRepository{store: store}
}

// Record journals a single attempt.
func (r *AttemptRepository) Record(ctx context.Context, attempt *models.DeliveryAttempt) error {
	if _, err := uuid.Parse(attempt.ID); err != nil {
		return fmt.Errorf("invalid attempt ID format: %w", err)
	}
	if attempt.Status != models.AttemptStatusDelivered && attempt.Status != models.AttemptStatusFailed {
		return fmt.Errorf("invalid attempt status %q", attempt.Status)
	}

	key := []byte(fmt.Sprintf("%s%020d:%s", attemptKeyPrefix, attempt.CreatedAt.UnixNano(), attempt.ID))
	err := r.store.update(ctx, func(txn *badger.Txn) error {
		return writeJSON(txn, key, attempt)
	})
	if err != nil {
		return fmt.Errorf("failed to journal delivery attempt: %w", err)
	}
	return nil
}

// ListRecent returns up to limit attempts, newest first.
func (r *AttemptRepository) ListRecent(ctx context.Context, limit int) ([]models.DeliveryAttempt, error) {
	if limit <= 0 {
		return nil, nil
	}

	var attempts []models.DeliveryAttempt
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(attemptKeyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the end of the prefix range.
		seekKey := append([]byte(attemptKeyPrefix), 0xFF)
		for it.Seek(seekKey); it.Valid() && len(attempts) < limit; it.Next() {
			var attempt models.DeliveryAttempt
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &attempt)
			})
			if err != nil {
				return fmt.Errorf("failed to decode attempt record: %w", err)
			}
			attempts = append(attempts, attempt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
