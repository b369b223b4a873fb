package controllers

import (
	"net/http"
	"time"

	"github.com/captenmasin/tracker/models"
	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type DashboardController struct {
	Dashboard *services.DashboardService
	Foods     *services.FoodService
}

func NewDashboardController(dashboard *services.DashboardService, foods *services.FoodService) *DashboardController {
	return &DashboardController{Dashboard: dashboard, Foods: foods}
}

// GET /dashboard?date=YYYY-MM-DD
func (dc *DashboardController) Summary(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := resolveDate(c.Query("date"))

	summary, err := dc.Dashboard.Summary(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	foods, err := dc.Foods.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"foods":   foodViews(foods),
	})
}

// GET /dashboard/weekly?date=YYYY-MM-DD
func (dc *DashboardController) WeeklyOverview(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := resolveDate(c.Query("date"))
	weekStart := date.AddDate(0, 0, -6)

	summary, err := dc.Dashboard.Summary(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	foodEntries, burnEntries, err := dc.Dashboard.WeekEntries(c.Request.Context(), userID, weekStart, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week":       summary.Weekly,
		"macro_goal": summary.MacroGoal,
		"date": gin.H{
			"current":  date.Format(dateLayout),
			"previous": date.AddDate(0, 0, -7).Format(dateLayout),
			"next":     date.AddDate(0, 0, 7).Format(dateLayout),
		},
		"foods": weekFoodViews(foodEntries),
		"burns": weekBurnViews(burnEntries),
	})
}

// --- helpers shared across controllers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

// resolveDate parses a YYYY-MM-DD query value, falling back to today.
// All dates are handled as UTC midnights so stored and queried values
// line up.
func resolveDate(raw string) time.Time {
	if d, err := time.Parse(dateLayout, raw); err == nil {
		return d
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type weekFoodView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carb        float64 `json:"carb"`
	Fat         float64 `json:"fat"`
	Quantity    float64 `json:"quantity"`
	ServingUnit string  `json:"serving_unit"`
	ConsumedOn  string  `json:"consumed_on"`
	Weekday     string  `json:"weekday"`
}

type weekBurnView struct {
	ID          uint   `json:"id"`
	Calories    int    `json:"calories"`
	Description string `json:"description"`
	RecordedOn  string `json:"recorded_on"`
	Weekday     string `json:"weekday"`
}

func weekFoodViews(entries []models.FoodEntry) []weekFoodView {
	views := make([]weekFoodView, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		v := services.NewFoodEntryView(e)
		views = append(views, weekFoodView{
			ID:          v.ID,
			Name:        v.Name,
			Calories:    v.Calories,
			Protein:     v.ProteinGrams,
			Carb:        v.CarbGrams,
			Fat:         v.FatGrams,
			Quantity:    v.Quantity,
			ServingUnit: v.ServingUnit,
			ConsumedOn:  v.ConsumedOn,
			Weekday:     e.ConsumedOn.Format("Mon"),
		})
	}
	return views
}

func weekBurnViews(entries []models.CalorieBurnEntry) []weekBurnView {
	views := make([]weekBurnView, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		views = append(views, weekBurnView{
			ID:          e.ID,
			Calories:    e.Calories,
			Description: e.Description,
			RecordedOn:  e.RecordedOn.Format(dateLayout),
			Weekday:     e.RecordedOn.Format("Mon"),
		})
	}
	return views
}
