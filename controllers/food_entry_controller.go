package controllers

import (
	"net/http"

	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FoodEntryController struct {
	Entries *services.FoodEntryService
	Hub     *services.RealtimeHub
}

func NewFoodEntryController(entries *services.FoodEntryService, hub *services.RealtimeHub) *FoodEntryController {
	return &FoodEntryController{Entries: entries, Hub: hub}
}

type foodEntryInput struct {
	FoodID           *uint   `json:"food_id"`
	Name             string  `json:"name" binding:"required_without=FoodID,omitempty,max=191"`
	Barcode          string  `json:"barcode" binding:"omitempty,max=32"`
	ConsumedOn       string  `json:"consumed_on"`
	Quantity         float64 `json:"quantity" binding:"required,gt=0"`
	ServingSizeValue float64 `json:"serving_size_value" binding:"omitempty,gte=0"`
	ServingUnit      string  `json:"serving_unit" binding:"omitempty,max=32"`
	ServingUnitRaw   string  `json:"serving_unit_raw" binding:"omitempty,max=16"`
	Calories         float64 `json:"calories" binding:"gte=0"`
	ProteinGrams     float64 `json:"protein_grams" binding:"gte=0"`
	CarbGrams        float64 `json:"carb_grams" binding:"gte=0"`
	FatGrams         float64 `json:"fat_grams" binding:"gte=0"`
	Source           string  `json:"source" binding:"omitempty,oneof=food manual"`
}

// POST /food-entries
func (ec *FoodEntryController) Store(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in foodEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consumedOn := resolveDate(in.ConsumedOn)

	entry, err := ec.Entries.Log(c.Request.Context(), userID, services.FoodEntryInput{
		FoodID:           in.FoodID,
		Name:             in.Name,
		Barcode:          in.Barcode,
		ConsumedOn:       consumedOn,
		Quantity:         in.Quantity,
		ServingSizeValue: in.ServingSizeValue,
		ServingUnit:      in.ServingUnit,
		ServingUnitRaw:   in.ServingUnitRaw,
		Calories:         in.Calories,
		ProteinGrams:     in.ProteinGrams,
		CarbGrams:        in.CarbGrams,
		FatGrams:         in.FatGrams,
		Source:           in.Source,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ec.Hub.BroadcastRefresh(userID, services.RefreshEvent{
		Event: "entries.updated",
		Date:  consumedOn.Format(dateLayout),
	})

	c.JSON(http.StatusCreated, gin.H{"entry": services.NewFoodEntryView(entry)})
}

// DELETE /food-entries/:id
func (ec *FoodEntryController) Destroy(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entryID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	entry, err := ec.Entries.Delete(c.Request.Context(), userID, entryID)
	if err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ec.Hub.BroadcastRefresh(userID, services.RefreshEvent{
		Event: "entries.updated",
		Date:  entry.ConsumedOn.Format(dateLayout),
	})

	c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
}
