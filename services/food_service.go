package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/captenmasin/tracker/models"

	"gorm.io/gorm"
)

type FoodService struct{ db *gorm.DB }

func NewFoodService(db *gorm.DB) *FoodService { return &FoodService{db: db} }

type FoodInput struct {
	Name               string
	Barcode            string
	ServingSize        float64
	ServingUnit        string
	CaloriesPerServing float64
	ProteinGrams       float64
	CarbGrams          float64
	FatGrams           float64
}

func (s *FoodService) List(ctx context.Context, userID uint) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&foods).Error
	return foods, err
}

func (s *FoodService) Create(ctx context.Context, userID uint, in FoodInput) (*models.Food, error) {
	food := models.Food{UserID: userID}
	applyFoodInput(&food, in)

	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *FoodService) Update(ctx context.Context, userID, foodID uint, in FoodInput) (*models.Food, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", foodID, userID).
		First(&food).Error; err != nil {
		return nil, err
	}

	applyFoodInput(&food, in)

	if err := s.db.WithContext(ctx).Save(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *FoodService) Delete(ctx context.Context, userID, foodID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", foodID, userID).
		Delete(&models.Food{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByBarcode returns the user's library food for a barcode, or nil
// when none exists.
func (s *FoodService) FindByBarcode(ctx context.Context, userID uint, barcode string) (*models.Food, error) {
	var food models.Food
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND barcode = ?", userID, barcode).
		First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// UpsertByNaturalKey merges a per-serving template into the library,
// keyed by barcode when present, otherwise by name. Used when manual
// entries seed the library, so logging the same food twice updates one
// row instead of duplicating it.
func (s *FoodService) UpsertByNaturalKey(ctx context.Context, userID uint, in FoodInput) (*models.Food, error) {
	barcode := strings.TrimSpace(in.Barcode)

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if barcode != "" {
		query = query.Where("barcode = ?", barcode)
	} else {
		query = query.Where("name = ?", in.Name)
	}

	var food models.Food
	err := query.First(&food).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		food = models.Food{UserID: userID}
	}

	applyFoodInput(&food, in)

	if err := s.db.WithContext(ctx).Save(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func applyFoodInput(food *models.Food, in FoodInput) {
	food.Name = in.Name

	if barcode := strings.TrimSpace(in.Barcode); barcode != "" {
		food.Barcode = &barcode
	}

	servingUnit := in.ServingUnit
	if servingUnit == "" {
		servingUnit = "serving"
	}

	food.ServingSize = round2(math.Max(in.ServingSize, 0))
	food.ServingUnit = servingUnit
	food.CaloriesPerServing = round2(math.Max(in.CaloriesPerServing, 0))
	food.ProteinGrams = round2(math.Max(in.ProteinGrams, 0))
	food.CarbGrams = round2(math.Max(in.CarbGrams, 0))
	food.FatGrams = round2(math.Max(in.FatGrams, 0))
}
