package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testReport(message string) *models.QueuedReport {
	return &models.QueuedReport{
		Type:       models.ReportTypeBug,
		Message:    message,
		Platform:   models.PlatformWeb,
		AppVersion: "1.0.0",
	}
}

// TestQueueEnqueuePeekOrder verifies FIFO order and that enqueue zeroes the
// retry count and stamps the enqueue time.
func TestQueueEnqueuePeekOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(newTestStore(t))

	first := testReport("first")
	first.RetryCount = 7 // must be reset by Enqueue
	require.NoError(t, repo.Enqueue(ctx, first))
	require.NoError(t, repo.Enqueue(ctx, testReport("second")))

	head, err := repo.PeekHead(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, "first", head.Message)
	assert.Equal(t, 0, head.RetryCount)
	assert.False(t, head.QueuedAt.IsZero())

	length, err := repo.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, length)
}

// TestQueuePeekEmpty verifies an empty queue peeks as nil without error.
func TestQueuePeekEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(newTestStore(t))

	head, err := repo.PeekHead(ctx)
	require.NoError(t, err)
	assert.Nil(t, head)
}

// TestQueueRemoveHead verifies head removal advances the queue and that
// removing from an empty queue reports ErrNotFound.
func TestQueueRemoveHead(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(newTestStore(t))

	require.NoError(t, repo.Enqueue(ctx, testReport("first")))
	require.NoError(t, repo.Enqueue(ctx, testReport("second")))

	require.NoError(t, repo.RemoveHead(ctx))

	head, err := repo.PeekHead(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, "second", head.Message)

	require.NoError(t, repo.RemoveHead(ctx))
	assert.ErrorIs(t, repo.RemoveHead(ctx), ErrNotFound)
}

// TestQueueReplaceHead verifies the incremented retry count persists while
// entries behind the head are untouched.
func TestQueueReplaceHead(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(newTestStore(t))

	require.NoError(t, repo.Enqueue(ctx, testReport("head")))
	require.NoError(t, repo.Enqueue(ctx, testReport("tail")))

	head, err := repo.PeekHead(ctx)
	require.NoError(t, err)

	updated := *head
	updated.RetryCount++
	require.NoError(t, repo.ReplaceHead(ctx, &updated))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].RetryCount)
	assert.Equal(t, "head", all[0].Message)
	assert.Equal(t, 0, all[1].RetryCount)
	assert.Equal(t, "tail", all[1].Message)
}

// TestQueueReplaceHeadEmpty verifies ReplaceHead on an empty queue fails.
func TestQueueReplaceHeadEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(newTestStore(t))

	err := repo.ReplaceHead(ctx, testReport("ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestQueuePersistsAcrossReopen verifies queued entries survive a store
// restart, the offline-durability guarantee the queue exists for.
func TestQueuePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := OpenStore(dir)
	require.NoError(t, err)

	repo := NewQueueRepository(store)
	require.NoError(t, repo.Enqueue(ctx, testReport("survives restart")))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	head, err := NewQueueRepository(reopened).PeekHead(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, "survives restart", head.Message)
}

// TestQueueContextCancelled verifies operations respect cancellation.
func TestQueueContextCancelled(t *testing.T) {
	repo := NewQueueRepository(newTestStore(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Enqueue(ctx, testReport("cancelled"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

// TestQueueGrowthUnderFailure verifies queue length increases by exactly
// one per enqueue and never decreases except via RemoveHead.
func TestQueueGrowthUnderFailure(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(newTestStore(t))

	for i := 1; i <= 5; i++ {
		report := testReport("report")
		report.QueuedAt = time.Now().UTC()
		require.NoError(t, repo.Enqueue(ctx, report))

		length, err := repo.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, length)
	}
}
