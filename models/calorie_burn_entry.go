package models

import (
	"time"

	"gorm.io/gorm"
)

// One calorie-expenditure event (a workout, a walk, ...).
type CalorieBurnEntry struct {
	gorm.Model
	UserID      uint      `gorm:"index:idx_burn_entries_user_day;not null"`
	RecordedOn  time.Time `gorm:"type:date;index:idx_burn_entries_user_day;not null"` // truncate to YYYY-MM-DD
	Calories    int       `gorm:"not null"`
	Description string    `gorm:"size:191"`
}
