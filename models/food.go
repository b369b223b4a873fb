package models

import "gorm.io/gorm"

// A reusable per-serving nutrition template in the user's library.
// Barcode is unique per user when present.
type Food struct {
	gorm.Model
	UserID             uint    `gorm:"index;uniqueIndex:idx_foods_user_barcode;not null"`
	Name               string  `gorm:"size:191;not null"`
	Barcode            *string `gorm:"size:32;uniqueIndex:idx_foods_user_barcode"`
	ServingSize        float64 `gorm:"default:1"`
	ServingUnit        string  `gorm:"size:32;default:serving"`
	CaloriesPerServing float64
	ProteinGrams       float64
	CarbGrams          float64
	FatGrams           float64
}
