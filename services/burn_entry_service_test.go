package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBurnEntryLogTruncatesToDay(t *testing.T) {
	db := newTestDB(t)
	burns := NewBurnEntryService(db)

	recordedAt := time.Date(2025, 3, 10, 18, 42, 11, 0, time.UTC)
	entry, err := burns.Log(context.Background(), 1, recordedAt, 350, "Evening ride")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", entry.RecordedOn.Format("2006-01-02"))
	assert.Equal(t, 0, entry.RecordedOn.Hour())
	assert.Equal(t, 350, entry.Calories)
	assert.Equal(t, "Evening ride", entry.Description)
}

func TestBurnEntryDeleteEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	burns := NewBurnEntryService(db)
	ctx := context.Background()

	entry, err := burns.Log(ctx, 1, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), 200, "Walk")
	require.NoError(t, err)

	_, err = burns.Delete(ctx, 2, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	removed, err := burns.Delete(ctx, 1, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", removed.RecordedOn.Format("2006-01-02"))

	_, err = burns.Delete(ctx, 1, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
