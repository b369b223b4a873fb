package models

import (
	"math"

	"gorm.io/gorm"
)

// MacroGoal holds a user's daily calorie target and macro split.
// At most one row per user; percentages sum to 100.
type MacroGoal struct {
	gorm.Model
	UserID            uint `gorm:"uniqueIndex;not null"`
	DailyCalorieGoal  int  `gorm:"not null"` // e.g. 2000 kcal
	ProteinPercentage float64
	CarbPercentage    float64
	FatPercentage     float64
}

// MacroGramTargets converts the percentage split into daily gram targets.
// Protein and carbs count 4 kcal per gram, fat 9.
func (g *MacroGoal) MacroGramTargets() map[string]float64 {
	calories := float64(g.DailyCalorieGoal)

	return map[string]float64{
		"protein": round2(g.ProteinPercentage / 100 * calories / 4),
		"carb":    round2(g.CarbPercentage / 100 * calories / 4),
		"fat":     round2(g.FatPercentage / 100 * calories / 9),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
