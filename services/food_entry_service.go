package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/captenmasin/tracker/models"
	"github.com/captenmasin/tracker/utils"

	"gorm.io/gorm"
)

type FoodEntryService struct {
	db    *gorm.DB
	foods *FoodService
}

func NewFoodEntryService(db *gorm.DB, foods *FoodService) *FoodEntryService {
	return &FoodEntryService{db: db, foods: foods}
}

type FoodEntryInput struct {
	FoodID           *uint
	Name             string
	Barcode          string
	ConsumedOn       time.Time
	Quantity         float64
	ServingSizeValue float64
	ServingUnit      string
	ServingUnitRaw   string
	Calories         float64
	ProteinGrams     float64
	CarbGrams        float64
	FatGrams         float64
	Source           string
}

// Log records a consumption event. Library-sourced entries snapshot the
// food's per-serving macros scaled by quantity; manual entries keep the
// given absolute macros and seed the library with a per-serving
// template so the food can be re-logged later.
func (s *FoodEntryService) Log(ctx context.Context, userID uint, in FoodEntryInput) (*models.FoodEntry, error) {
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	entry := models.FoodEntry{
		UserID:     userID,
		ConsumedOn: dayStart(in.ConsumedOn),
		Quantity:   quantity,
	}

	if in.FoodID != nil {
		var food models.Food
		if err := s.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", *in.FoodID, userID).
			First(&food).Error; err != nil {
			return nil, err
		}

		serving := strings.TrimSpace(fmt.Sprintf("%g %s", food.ServingSize, food.ServingUnit))
		if serving == "" {
			serving = food.ServingUnit
		}

		entry.FoodID = &food.ID
		entry.Name = food.Name
		entry.Barcode = food.Barcode
		entry.ServingUnit = serving
		entry.Calories = round2(food.CaloriesPerServing * quantity)
		entry.ProteinGrams = round2(food.ProteinGrams * quantity)
		entry.CarbGrams = round2(food.CarbGrams * quantity)
		entry.FatGrams = round2(food.FatGrams * quantity)
		entry.Source = models.EntrySourceFood

		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	}

	servingUnitRaw := in.ServingUnitRaw
	if servingUnitRaw == "" {
		servingUnitRaw = in.ServingUnit
	}
	if servingUnitRaw == "" {
		servingUnitRaw = "g"
	}

	servingDescription := in.ServingUnit
	if in.ServingSizeValue > 0 {
		servingDescription = strings.TrimSpace(fmt.Sprintf("%g %s", in.ServingSizeValue, servingUnitRaw))
	}
	if servingDescription == "" {
		servingDescription = servingUnitRaw
	}

	source := in.Source
	if source == "" {
		source = models.EntrySourceManual
	}

	if barcode := strings.TrimSpace(in.Barcode); barcode != "" {
		entry.Barcode = &barcode
	}

	entry.Name = in.Name
	entry.ServingUnit = servingDescription
	entry.Calories = round2(in.Calories)
	entry.ProteinGrams = round2(in.ProteinGrams)
	entry.CarbGrams = round2(in.CarbGrams)
	entry.FatGrams = round2(in.FatGrams)
	entry.Source = source

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	if err := s.seedLibrary(ctx, userID, &entry, in); err != nil {
		return nil, err
	}

	return &entry, nil
}

// Delete removes an entry and returns the removed row, so callers know
// which day changed.
func (s *FoodEntryService) Delete(ctx context.Context, userID, entryID uint) (*models.FoodEntry, error) {
	var entry models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// seedLibrary derives a per-serving template from a manual entry and
// merges it into the user's food library by barcode or name.
func (s *FoodEntryService) seedLibrary(ctx context.Context, userID uint, entry *models.FoodEntry, in FoodEntryInput) error {
	quantity := entry.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	servingSize := in.ServingSizeValue
	servingUnit := in.ServingUnitRaw
	if servingSize <= 0 {
		if parsed, unit, ok := utils.ParseServingSize(entry.ServingUnit); ok {
			servingSize = parsed
			if servingUnit == "" {
				servingUnit = unit
			}
		}
	}
	if servingUnit == "" {
		servingUnit = "g"
	}
	if servingSize <= 0 {
		servingSize = 1
	}

	_, err := s.foods.UpsertByNaturalKey(ctx, userID, FoodInput{
		Name:               entry.Name,
		Barcode:            in.Barcode,
		ServingSize:        servingSize,
		ServingUnit:        servingUnit,
		CaloriesPerServing: entry.Calories / quantity,
		ProteinGrams:       entry.ProteinGrams / quantity,
		CarbGrams:          entry.CarbGrams / quantity,
		FatGrams:           entry.FatGrams / quantity,
	})
	return err
}
