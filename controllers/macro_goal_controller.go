package controllers

import (
	"math"
	"net/http"

	"github.com/captenmasin/tracker/models"
	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
)

type MacroGoalController struct {
	Goals *services.MacroGoalService
	Hub   *services.RealtimeHub
}

func NewMacroGoalController(goals *services.MacroGoalService, hub *services.RealtimeHub) *MacroGoalController {
	return &MacroGoalController{Goals: goals, Hub: hub}
}

// Percentages are inclusive 0..100; a zero share for one macro is a
// legitimate split, so the sum check below is the real gate.
type macroGoalInput struct {
	DailyCalorieGoal  int     `json:"daily_calorie_goal" binding:"required,min=800,max=15000"`
	ProteinPercentage float64 `json:"protein_percentage" binding:"gte=0,lte=100"`
	CarbPercentage    float64 `json:"carb_percentage" binding:"gte=0,lte=100"`
	FatPercentage     float64 `json:"fat_percentage" binding:"gte=0,lte=100"`
}

// GET /settings/macro-goal
func (mc *MacroGoalController) Show(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goal, err := mc.Goals.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if goal == nil {
		c.JSON(http.StatusOK, gin.H{"goal": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": macroGoalView(goal)})
}

// PUT /settings/macro-goal
func (mc *MacroGoalController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in macroGoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sum := in.ProteinPercentage + in.CarbPercentage + in.FatPercentage
	if math.Abs(sum-100) > 0.1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "macro percentages must sum to 100"})
		return
	}

	goal, err := mc.Goals.Upsert(c.Request.Context(), userID, in.DailyCalorieGoal, in.ProteinPercentage, in.CarbPercentage, in.FatPercentage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mc.Hub.BroadcastRefresh(userID, services.RefreshEvent{Event: "goal.updated"})

	c.JSON(http.StatusOK, gin.H{"goal": macroGoalView(goal)})
}

// macroGoalView matches the dashboard's macro_goal block, gram targets
// included.
func macroGoalView(goal *models.MacroGoal) *services.MacroGoalView {
	return &services.MacroGoalView{
		DailyCalorieGoal:  goal.DailyCalorieGoal,
		ProteinPercentage: goal.ProteinPercentage,
		CarbPercentage:    goal.CarbPercentage,
		FatPercentage:     goal.FatPercentage,
		Targets:           goal.MacroGramTargets(),
	}
}
