package services

import (
	"context"
	"time"

	"github.com/captenmasin/tracker/models"

	"gorm.io/gorm"
)

type BurnEntryService struct{ db *gorm.DB }

func NewBurnEntryService(db *gorm.DB) *BurnEntryService { return &BurnEntryService{db: db} }

func (s *BurnEntryService) Log(ctx context.Context, userID uint, recordedOn time.Time, calories int, description string) (*models.CalorieBurnEntry, error) {
	entry := models.CalorieBurnEntry{
		UserID:      userID,
		RecordedOn:  dayStart(recordedOn),
		Calories:    calories,
		Description: description,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes a burn entry and returns the removed row, so callers
// know which day changed.
func (s *BurnEntryService) Delete(ctx context.Context, userID, entryID uint) (*models.CalorieBurnEntry, error) {
	var entry models.CalorieBurnEntry
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
