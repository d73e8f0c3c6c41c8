package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fkanj70/Accelerated-Report/models"
)

// queueKey holds the full pending queue as a single JSON array, mirroring
// the browser-storage layout the queue originally lived in.
var queueKey = []byte("report_queue")

// QueueRepository persists the FIFO queue of reports awaiting delivery.
// Every operation is a full read-modify-write of the collection inside one
// transaction, serialized by a mutex so a scheduler tick and a UI enqueue
// can never interleave partial updates.
type QueueRepository struct {
	store *Store
	mu    sync.Mutex
}

func NewQueueRepository(store *Store) *QueueRepository {
	return &QueueRepository{store: store}
}

// Enqueue appends a report to the tail with a zeroed retry count and the
// enqueue timestamp set.
func (r *QueueRepository) Enqueue(ctx context.Context, report *models.QueuedReport) error {
	if report == nil {
		return errors.New("report must not be nil")
	}
	report.RetryCount = 0
	if report.QueuedAt.IsZero() {
		report.QueuedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.update(ctx, func(txn *badger.Txn) error {
		queue, err := loadQueue(txn)
		if err != nil {
			return err
		}
		queue = append(queue, *report)
		return writeJSON(txn, queueKey, queue)
	})
}

// PeekHead returns the first pending entry without removing it, or nil
// when the queue is empty.
func (r *QueueRepository) PeekHead(ctx context.Context) (*models.QueuedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var head *models.QueuedReport
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		queue, err := loadQueue(txn)
		if err != nil {
			return err
		}
		if len(queue) > 0 {
			h := queue[0]
			head = &h
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return head, nil
}

// RemoveHead drops the first entry. Used on successful delivery and on
// retry exhaustion. Returns ErrNotFound when the queue is empty.
func (r *QueueRepository) RemoveHead(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.update(ctx, func(txn *badger.Txn) error {
		queue, err := loadQueue(txn)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			return ErrNotFound
		}
		return writeJSON(txn, queueKey, queue[1:])
	})
}

// ReplaceHead overwrites the first entry, persisting an incremented retry
// count after a failed attempt. Returns ErrNotFound when the queue is empty.
func (r *QueueRepository) ReplaceHead(ctx context.Context, updated *models.QueuedReport) error {
	if updated == nil {
		return errors.New("updated report must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.update(ctx, func(txn *badger.Txn) error {
		queue, err := loadQueue(txn)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			return ErrNotFound
		}
		queue[0] = *updated
		return writeJSON(txn, queueKey, queue)
	})
}

// Len returns the number of pending entries.
func (r *QueueRepository) Len(ctx context.Context) (int, error) {
	all, err := r.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// All returns the pending entries in FIFO order.
func (r *QueueRepository) All(ctx context.Context) ([]models.QueuedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var queue []models.QueuedReport
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		queue, err = loadQueue(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load report queue: %w", err)
	}
	return queue, nil
}

// loadQueue reads the queue array, treating a missing key as empty.
func loadQueue(txn *badger.Txn) ([]models.QueuedReport, error) {
	var queue []models.QueuedReport
	err := readJSON(txn, queueKey, &queue)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return queue, nil
}
