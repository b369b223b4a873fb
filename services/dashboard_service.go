package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/captenmasin/tracker/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type DashboardService struct{ db *gorm.DB }

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{db: db} }

// ---------- Summary payload ----------

type DateInfo struct {
	Current  string `json:"current"`
	Display  string `json:"display"`
	Previous string `json:"previous"`
	Next     string `json:"next"`
	IsToday  bool   `json:"isToday"`
}

type CalorieSummary struct {
	Consumed  float64  `json:"consumed"`
	Burned    float64  `json:"burned"`
	Net       float64  `json:"net"`
	Goal      *int     `json:"goal"`
	Remaining *float64 `json:"remaining"`
}

// MacroProgress tracks one macronutrient against its goal. Goal,
// Remaining and Percentage are nil when the user has no macro goal.
type MacroProgress struct {
	Consumed   float64  `json:"consumed"`
	Goal       *float64 `json:"goal"`
	Remaining  *float64 `json:"remaining"`
	Percentage *float64 `json:"percentage"`
	Allowance  float64  `json:"allowance"`
}

type FoodEntryView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	ServingUnit  string  `json:"serving_unit"`
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	CarbGrams    float64 `json:"carb_grams"`
	FatGrams     float64 `json:"fat_grams"`
	ConsumedOn   string  `json:"consumed_on"`
	Source       string  `json:"source"`
	Barcode      *string `json:"barcode"`
}

type BurnEntryView struct {
	ID          uint   `json:"id"`
	Calories    int    `json:"calories"`
	Description string `json:"description"`
	RecordedOn  string `json:"recorded_on"`
}

type EntryLists struct {
	Foods []FoodEntryView `json:"foods"`
	Burns []BurnEntryView `json:"burns"`
}

type MacroGoalView struct {
	DailyCalorieGoal  int                `json:"daily_calorie_goal"`
	ProteinPercentage float64            `json:"protein_percentage"`
	CarbPercentage    float64            `json:"carb_percentage"`
	FatPercentage     float64            `json:"fat_percentage"`
	Targets           map[string]float64 `json:"targets"`
}

type DayMacros struct {
	Protein float64 `json:"protein"`
	Carb    float64 `json:"carb"`
	Fat     float64 `json:"fat"`
}

type WeeklyDay struct {
	Date     string    `json:"date"`
	Weekday  string    `json:"weekday"`
	Calories float64   `json:"calories"`
	Burned   float64   `json:"burned"`
	Net      float64   `json:"net"`
	Macros   DayMacros `json:"macros"`
}

type WeeklyTotals struct {
	Calories float64 `json:"calories"`
	Burned   float64 `json:"burned"`
	Net      float64 `json:"net"`
	Protein  float64 `json:"protein"`
	Carb     float64 `json:"carb"`
	Fat      float64 `json:"fat"`
}

type WeeklySummary struct {
	Start  string       `json:"start"`
	End    string       `json:"end"`
	Days   []WeeklyDay  `json:"days"`
	Totals WeeklyTotals `json:"totals"`
}

type DashboardSummary struct {
	Date      DateInfo                 `json:"date"`
	Calories  CalorieSummary           `json:"calories"`
	Macros    map[string]MacroProgress `json:"macros"`
	Entries   EntryLists               `json:"entries"`
	MacroGoal *MacroGoalView           `json:"macro_goal"`
	Weekly    WeeklySummary            `json:"weekly"`
}

// DayFoodTotals is one day's pre-aggregated consumption, keyed by date
// string in the weekly maps.
type DayFoodTotals struct {
	Calories float64
	Protein  float64
	Carb     float64
	Fat      float64
}

// ---------- Builder ----------

// BuildDashboardSummary computes the dashboard payload for one day plus
// the trailing week. Pure: the caller supplies entries already scoped to
// the user and keyed aggregates for the 7-day window ending at
// selectedDate.
func BuildDashboardSummary(
	foodEntries []models.FoodEntry,
	burnEntries []models.CalorieBurnEntry,
	goal *models.MacroGoal,
	weeklyFood map[string]DayFoodTotals,
	weeklyBurn map[string]float64,
	selectedDate time.Time,
) *DashboardSummary {
	selectedDate = dayStart(selectedDate)

	var consumed, protein, carb, fat float64
	for _, e := range foodEntries {
		consumed += e.Calories
		protein += e.ProteinGrams
		carb += e.CarbGrams
		fat += e.FatGrams
	}

	var burned float64
	for _, b := range burnEntries {
		burned += float64(b.Calories)
	}
	net := consumed - burned

	var targets map[string]float64
	if goal != nil {
		targets = goal.MacroGramTargets()
	}
	allowances := macroAllowances(goal, burned)

	calories := CalorieSummary{
		Consumed: round2(consumed),
		Burned:   round2(burned),
		Net:      round2(net),
	}
	if goal != nil {
		g := goal.DailyCalorieGoal
		calories.Goal = &g
		// Remaining counts against net intake: burning calories earns
		// headroom back.
		remaining := math.Max(round2(float64(g)-net), 0)
		calories.Remaining = &remaining
	}

	summary := &DashboardSummary{
		Date: DateInfo{
			Current:  selectedDate.Format(dateLayout),
			Display:  selectedDate.Format("January 2, 2006"),
			Previous: selectedDate.AddDate(0, 0, -1).Format(dateLayout),
			Next:     selectedDate.AddDate(0, 0, 1).Format(dateLayout),
			IsToday:  selectedDate.Format(dateLayout) == time.Now().Format(dateLayout),
		},
		Calories: calories,
		Macros: map[string]MacroProgress{
			"protein": macroProgress(protein, targets, allowances, "protein"),
			"carb":    macroProgress(carb, targets, allowances, "carb"),
			"fat":     macroProgress(fat, targets, allowances, "fat"),
		},
		Entries: EntryLists{
			Foods: foodEntryViews(foodEntries),
			Burns: burnEntryViews(burnEntries),
		},
		Weekly: buildWeekly(selectedDate, weeklyFood, weeklyBurn),
	}

	if goal != nil {
		summary.MacroGoal = &MacroGoalView{
			DailyCalorieGoal:  goal.DailyCalorieGoal,
			ProteinPercentage: goal.ProteinPercentage,
			CarbPercentage:    goal.CarbPercentage,
			FatPercentage:     goal.FatPercentage,
			Targets:           targets,
		}
	}

	return summary
}

// macroAllowances redistributes burned calories into extra grams allowed
// per macro at the user's target ratios: 4 kcal per gram of protein or
// carbs, 9 per gram of fat. Zero across the board without a goal or a
// positive burn.
func macroAllowances(goal *models.MacroGoal, burned float64) map[string]float64 {
	if goal == nil || burned <= 0 {
		return map[string]float64{"protein": 0, "carb": 0, "fat": 0}
	}

	return map[string]float64{
		"protein": round2(burned * (goal.ProteinPercentage / 100) / 4),
		"carb":    round2(burned * (goal.CarbPercentage / 100) / 4),
		"fat":     round2(burned * (goal.FatPercentage / 100) / 9),
	}
}

func macroProgress(consumed float64, targets, allowances map[string]float64, key string) MacroProgress {
	p := MacroProgress{
		Consumed:  round2(consumed),
		Allowance: round2(allowances[key]),
	}

	base, ok := targets[key]
	if !ok {
		return p
	}

	goal := round2(base + allowances[key])
	p.Goal = &goal

	remaining := math.Max(round2(goal-consumed), 0)
	p.Remaining = &remaining

	if goal > 0 {
		pct := math.Min(round1(consumed/goal*100), 999.9)
		p.Percentage = &pct
	}

	return p
}

func buildWeekly(selectedDate time.Time, weeklyFood map[string]DayFoodTotals, weeklyBurn map[string]float64) WeeklySummary {
	start := selectedDate.AddDate(0, 0, -6)

	days := make([]WeeklyDay, 0, 7)
	var totals WeeklyTotals

	for d := start; !d.After(selectedDate); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		food := weeklyFood[key] // zero value when the day has no entries
		burn := weeklyBurn[key]
		net := food.Calories - burn

		days = append(days, WeeklyDay{
			Date:     key,
			Weekday:  d.Format("Mon"),
			Calories: round2(food.Calories),
			Burned:   round2(burn),
			Net:      round2(net),
			Macros: DayMacros{
				Protein: round2(food.Protein),
				Carb:    round2(food.Carb),
				Fat:     round2(food.Fat),
			},
		})

		// Accumulate unrounded; round once at the end so per-day rounding
		// error cannot compound.
		totals.Calories += food.Calories
		totals.Burned += burn
		totals.Net += net
		totals.Protein += food.Protein
		totals.Carb += food.Carb
		totals.Fat += food.Fat
	}

	totals.Calories = round2(totals.Calories)
	totals.Burned = round2(totals.Burned)
	totals.Net = round2(totals.Net)
	totals.Protein = round2(totals.Protein)
	totals.Carb = round2(totals.Carb)
	totals.Fat = round2(totals.Fat)

	return WeeklySummary{
		Start:  start.Format(dateLayout),
		End:    selectedDate.Format(dateLayout),
		Days:   days,
		Totals: totals,
	}
}

// ---------- DB plumbing ----------

// Summary loads a user's entries for the selected day and trailing week
// and builds the dashboard payload.
func (s *DashboardService) Summary(ctx context.Context, userID uint, date time.Time) (*DashboardSummary, error) {
	day := dayStart(date)
	weekStart := day.AddDate(0, 0, -6)

	var foodEntries []models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND consumed_on = ?", userID, day).
		Order("consumed_on DESC, created_at DESC").
		Find(&foodEntries).Error; err != nil {
		return nil, err
	}

	var burnEntries []models.CalorieBurnEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recorded_on = ?", userID, day).
		Order("recorded_on DESC, created_at DESC").
		Find(&burnEntries).Error; err != nil {
		return nil, err
	}

	goal, err := s.macroGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	weeklyFood, weeklyBurn, err := s.weeklyAggregates(ctx, userID, weekStart, day)
	if err != nil {
		return nil, err
	}

	return BuildDashboardSummary(foodEntries, burnEntries, goal, weeklyFood, weeklyBurn, day), nil
}

// WeekEntries returns the raw entry lists for the weekly overview page:
// foods ordered by day then name, burns by day then largest burn first.
func (s *DashboardService) WeekEntries(ctx context.Context, userID uint, from, to time.Time) ([]models.FoodEntry, []models.CalorieBurnEntry, error) {
	var foods []models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND consumed_on BETWEEN ? AND ?", userID, dayStart(from), dayStart(to)).
		Order("consumed_on ASC, name ASC").
		Find(&foods).Error; err != nil {
		return nil, nil, err
	}

	var burns []models.CalorieBurnEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recorded_on BETWEEN ? AND ?", userID, dayStart(from), dayStart(to)).
		Order("recorded_on ASC, calories DESC").
		Find(&burns).Error; err != nil {
		return nil, nil, err
	}

	return foods, burns, nil
}

func (s *DashboardService) macroGoal(ctx context.Context, userID uint) (*models.MacroGoal, error) {
	var goal models.MacroGoal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goal, nil
}

func (s *DashboardService) weeklyAggregates(ctx context.Context, userID uint, from, to time.Time) (map[string]DayFoodTotals, map[string]float64, error) {
	var entries []models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND consumed_on BETWEEN ? AND ?", userID, from, to).
		Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	food := make(map[string]DayFoodTotals, 7)
	for _, e := range entries {
		key := e.ConsumedOn.Format(dateLayout)
		day := food[key]
		day.Calories += e.Calories
		day.Protein += e.ProteinGrams
		day.Carb += e.CarbGrams
		day.Fat += e.FatGrams
		food[key] = day
	}

	var burns []models.CalorieBurnEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recorded_on BETWEEN ? AND ?", userID, from, to).
		Find(&burns).Error; err != nil {
		return nil, nil, err
	}

	burn := make(map[string]float64, 7)
	for _, b := range burns {
		burn[b.RecordedOn.Format(dateLayout)] += float64(b.Calories)
	}

	return food, burn, nil
}

// ---------- views & helpers ----------

func NewFoodEntryView(e *models.FoodEntry) FoodEntryView {
	return FoodEntryView{
		ID:           e.ID,
		Name:         e.Name,
		Quantity:     e.Quantity,
		ServingUnit:  e.ServingUnit,
		Calories:     round2(e.Calories),
		ProteinGrams: round2(e.ProteinGrams),
		CarbGrams:    round2(e.CarbGrams),
		FatGrams:     round2(e.FatGrams),
		ConsumedOn:   e.ConsumedOn.Format(dateLayout),
		Source:       e.Source,
		Barcode:      e.Barcode,
	}
}

func NewBurnEntryView(e *models.CalorieBurnEntry) BurnEntryView {
	return BurnEntryView{
		ID:          e.ID,
		Calories:    e.Calories,
		Description: e.Description,
		RecordedOn:  e.RecordedOn.Format(dateLayout),
	}
}

func foodEntryViews(entries []models.FoodEntry) []FoodEntryView {
	views := make([]FoodEntryView, 0, len(entries))
	for i := range entries {
		views = append(views, NewFoodEntryView(&entries[i]))
	}
	return views
}

func burnEntryViews(entries []models.CalorieBurnEntry) []BurnEntryView {
	views := make([]BurnEntryView, 0, len(entries))
	for i := range entries {
		views = append(views, NewBurnEntryView(&entries[i]))
	}
	return views
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
