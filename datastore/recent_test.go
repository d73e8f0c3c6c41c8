package datastore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecentAddAndList verifies entries come back newest first.
func TestRecentAddAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewRecentRepository(newTestStore(t))

	for i := 1; i <= 3; i++ {
		entry := models.RecentEntry{
			ID:        fmt.Sprintf("report-%d", i),
			Type:      models.ReportTypeBug,
			Message:   "x",
			Timestamp: time.Now().UTC(),
		}
		require.NoError(t, repo.Add(ctx, &entry))
	}

	recent, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "report-3", recent[0].ID)
	assert.Equal(t, "report-1", recent[2].ID)
}

// TestRecentCapEvictsOldest verifies the collection never exceeds the cap
// and that inserting a sixth entry evicts the oldest.
func TestRecentCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	repo := NewRecentRepository(newTestStore(t))

	for i := 1; i <= models.MaxRecentEntries+1; i++ {
		entry := models.RecentEntry{
			ID:        fmt.Sprintf("report-%d", i),
			Type:      models.ReportTypeCrash,
			Message:   "x",
			Timestamp: time.Now().UTC(),
		}
		require.NoError(t, repo.Add(ctx, &entry))
	}

	recent, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, recent, models.MaxRecentEntries)

	// report-1, the oldest, is gone; report-6 leads.
	assert.Equal(t, "report-6", recent[0].ID)
	assert.Equal(t, "report-2", recent[len(recent)-1].ID)
}

// TestRecentListEmpty verifies a fresh store lists an empty history.
func TestRecentListEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewRecentRepository(newTestStore(t))

	recent, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
