package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EntrySourceFood   = "food"
	EntrySourceManual = "manual"
)

// One consumption event. Nutrient fields are absolute for the entry,
// already scaled by quantity. Rows are immutable after creation except
// for delete.
type FoodEntry struct {
	gorm.Model
	UserID       uint      `gorm:"index:idx_food_entries_user_day;not null"`
	FoodID       *uint     `gorm:"index"`
	Name         string    `gorm:"size:191;not null"`
	Barcode      *string   `gorm:"size:32"`
	ConsumedOn   time.Time `gorm:"type:date;index:idx_food_entries_user_day;not null"` // truncate to YYYY-MM-DD
	Quantity     float64   `gorm:"default:1"`
	ServingUnit  string    `gorm:"size:64"`
	Calories     float64
	ProteinGrams float64
	CarbGrams    float64
	FatGrams     float64
	Source       string `gorm:"size:16;default:manual"` // "food" | "manual"
}
