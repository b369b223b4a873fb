package services

import (
	"context"
	"testing"

	"github.com/captenmasin/tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroGoalUpsertKeepsSingleRow(t *testing.T) {
	db := newTestDB(t)
	goals := NewMacroGoalService(db)
	ctx := context.Background()

	missing, err := goals.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	first, err := goals.Upsert(ctx, 1, 2000, 30, 40, 30)
	require.NoError(t, err)
	assert.Equal(t, 2000, first.DailyCalorieGoal)

	second, err := goals.Upsert(ctx, 1, 1800, 35, 35, 30)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1800, second.DailyCalorieGoal)
	assert.Equal(t, 35.0, second.ProteinPercentage)

	var count int64
	require.NoError(t, db.Model(&models.MacroGoal{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := goals.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1800, got.DailyCalorieGoal)
}
