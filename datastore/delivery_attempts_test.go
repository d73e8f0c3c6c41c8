package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/fkanj70/Accelerated-Report/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAttemptRecordAndListRecent verifies journal ordering (newest first)
// and the listing limit.
func TestAttemptRecordAndListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptRepository(newTestStore(t))

	base := time.Now().UTC()
	statuses := []models.AttemptStatus{
		models.AttemptStatusFailed,
		models.AttemptStatusFailed,
		models.AttemptStatusDelivered,
	}
	for i, status := range statuses {
		attempt := models.DeliveryAttempt{
			ID:         uuid.NewString(),
			ReportType: models.ReportTypeSlow,
			Message:    "spinner forever",
			RetryCount: i,
			Status:     status,
			CreatedAt:  base.Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, repo.Record(ctx, &attempt))
	}

	attempts, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, models.AttemptStatusDelivered, attempts[0].Status)
	assert.Equal(t, 2, attempts[0].RetryCount)
	assert.Equal(t, 0, attempts[2].RetryCount)

	limited, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

// TestAttemptRecordValidation verifies malformed records are rejected.
func TestAttemptRecordValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptRepository(newTestStore(t))

	err := repo.Record(ctx, &models.DeliveryAttempt{
		ID:        "not-a-uuid",
		Status:    models.AttemptStatusFailed,
		CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attempt ID")

	err = repo.Record(ctx, &models.DeliveryAttempt{
		ID:        uuid.NewString(),
		Status:    "exploded",
		CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attempt status")
}
