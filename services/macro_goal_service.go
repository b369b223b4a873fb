package services

import (
	"context"
	"errors"

	"github.com/captenmasin/tracker/models"

	"gorm.io/gorm"
)

type MacroGoalService struct{ db *gorm.DB }

func NewMacroGoalService(db *gorm.DB) *MacroGoalService { return &MacroGoalService{db: db} }

// Get returns the user's macro goal, or nil when none has been set.
func (s *MacroGoalService) Get(ctx context.Context, userID uint) (*models.MacroGoal, error) {
	var goal models.MacroGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Upsert keeps the single per-user goal row current.
func (s *MacroGoalService) Upsert(ctx context.Context, userID uint, calorieGoal int, proteinPct, carbPct, fatPct float64) (*models.MacroGoal, error) {
	var goal models.MacroGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.MacroGoal{UserID: userID}
	}

	goal.DailyCalorieGoal = calorieGoal
	goal.ProteinPercentage = proteinPct
	goal.CarbPercentage = carbPct
	goal.FatPercentage = fatPct

	if err := s.db.WithContext(ctx).Save(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}
