package services

import (
	"context"
	"testing"
	"time"

	"github.com/captenmasin/tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func entryTestDay() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestLogFromLibraryScalesByQuantity(t *testing.T) {
	db := newTestDB(t)
	foods := NewFoodService(db)
	entries := NewFoodEntryService(db, foods)
	ctx := context.Background()

	food, err := foods.Create(ctx, 1, FoodInput{
		Name:               "Oatmeal",
		ServingSize:        40,
		ServingUnit:        "g",
		CaloriesPerServing: 320,
		ProteinGrams:       12,
		CarbGrams:          54,
		FatGrams:           6,
	})
	require.NoError(t, err)

	entry, err := entries.Log(ctx, 1, FoodEntryInput{
		FoodID:     &food.ID,
		ConsumedOn: entryTestDay(),
		Quantity:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Oatmeal", entry.Name)
	assert.Equal(t, 2.0, entry.Quantity)
	assert.Equal(t, "40 g", entry.ServingUnit)
	assert.Equal(t, 640.0, entry.Calories)
	assert.Equal(t, 24.0, entry.ProteinGrams)
	assert.Equal(t, 108.0, entry.CarbGrams)
	assert.Equal(t, 12.0, entry.FatGrams)
	assert.Equal(t, models.EntrySourceFood, entry.Source)
	require.NotNil(t, entry.FoodID)
	assert.Equal(t, food.ID, *entry.FoodID)
}

func TestLogFromLibraryEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	foods := NewFoodService(db)
	entries := NewFoodEntryService(db, foods)
	ctx := context.Background()

	food, err := foods.Create(ctx, 1, FoodInput{Name: "Private Snack", ServingSize: 1})
	require.NoError(t, err)

	_, err = entries.Log(ctx, 2, FoodEntryInput{
		FoodID:     &food.ID,
		ConsumedOn: entryTestDay(),
		Quantity:   1,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLogManualSeedsLibrary(t *testing.T) {
	db := newTestDB(t)
	foods := NewFoodService(db)
	entries := NewFoodEntryService(db, foods)
	ctx := context.Background()

	entry, err := entries.Log(ctx, 1, FoodEntryInput{
		Name:             "Protein Bar",
		Barcode:          "5901234123457",
		ConsumedOn:       entryTestDay(),
		Quantity:         2,
		ServingSizeValue: 45,
		ServingUnitRaw:   "g",
		Calories:         420,
		ProteinGrams:     40,
		CarbGrams:        30,
		FatGrams:         14,
	})
	require.NoError(t, err)

	assert.Equal(t, models.EntrySourceManual, entry.Source)
	assert.Equal(t, "45 g", entry.ServingUnit)
	assert.Equal(t, 420.0, entry.Calories)

	// The manual entry left a per-serving template in the library.
	food, err := foods.FindByBarcode(ctx, 1, "5901234123457")
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, "Protein Bar", food.Name)
	assert.Equal(t, 45.0, food.ServingSize)
	assert.Equal(t, "g", food.ServingUnit)
	assert.Equal(t, 210.0, food.CaloriesPerServing)
	assert.Equal(t, 20.0, food.ProteinGrams)

	// Logging the same barcode again updates the template in place.
	_, err = entries.Log(ctx, 1, FoodEntryInput{
		Name:             "Protein Bar",
		Barcode:          "5901234123457",
		ConsumedOn:       entryTestDay(),
		Quantity:         1,
		ServingSizeValue: 45,
		ServingUnitRaw:   "g",
		Calories:         215,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Food{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	food, err = foods.FindByBarcode(ctx, 1, "5901234123457")
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, 215.0, food.CaloriesPerServing)
}

func TestLogManualParsesServingFromDescription(t *testing.T) {
	db := newTestDB(t)
	foods := NewFoodService(db)
	entries := NewFoodEntryService(db, foods)
	ctx := context.Background()

	// No explicit serving size value; the unit text carries one.
	entry, err := entries.Log(ctx, 1, FoodEntryInput{
		Name:        "Soup",
		ConsumedOn:  entryTestDay(),
		Quantity:    1,
		ServingUnit: "250 ml",
		Calories:    180,
	})
	require.NoError(t, err)
	assert.Equal(t, "250 ml", entry.ServingUnit)

	list, err := foods.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 250.0, list[0].ServingSize)
	assert.Equal(t, "ml", list[0].ServingUnit)
	assert.Equal(t, 180.0, list[0].CaloriesPerServing)
}

func TestLogDefaultsQuantityToOne(t *testing.T) {
	db := newTestDB(t)
	entries := NewFoodEntryService(db, NewFoodService(db))

	entry, err := entries.Log(context.Background(), 1, FoodEntryInput{
		Name:       "Banana",
		ConsumedOn: entryTestDay(),
		Quantity:   0,
		Calories:   105,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, entry.Quantity)
	assert.Equal(t, 105.0, entry.Calories)
}

func TestDeleteEntryEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	entries := NewFoodEntryService(db, NewFoodService(db))
	ctx := context.Background()

	entry, err := entries.Log(ctx, 1, FoodEntryInput{
		Name:       "Toast",
		ConsumedOn: entryTestDay(),
		Quantity:   1,
		Calories:   150,
	})
	require.NoError(t, err)

	_, err = entries.Delete(ctx, 2, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	removed, err := entries.Delete(ctx, 1, entry.ID)
	require.NoError(t, err)
	// The removed row identifies the day that changed.
	assert.Equal(t, "2025-03-10", removed.ConsumedOn.Format("2006-01-02"))

	_, err = entries.Delete(ctx, 1, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
