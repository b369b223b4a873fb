package controllers

import (
	"net/http"

	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CalorieBurnController struct {
	Burns *services.BurnEntryService
	Hub   *services.RealtimeHub
}

func NewCalorieBurnController(burns *services.BurnEntryService, hub *services.RealtimeHub) *CalorieBurnController {
	return &CalorieBurnController{Burns: burns, Hub: hub}
}

type burnEntryInput struct {
	Calories    int    `json:"calories" binding:"required,min=1,max=20000"`
	RecordedOn  string `json:"recorded_on"`
	Description string `json:"description" binding:"omitempty,max=191"`
}

// POST /calorie-burn-entries
func (bc *CalorieBurnController) Store(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in burnEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordedOn := resolveDate(in.RecordedOn)

	entry, err := bc.Burns.Log(c.Request.Context(), userID, recordedOn, in.Calories, in.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	bc.Hub.BroadcastRefresh(userID, services.RefreshEvent{
		Event: "burns.updated",
		Date:  recordedOn.Format(dateLayout),
	})

	c.JSON(http.StatusCreated, gin.H{"entry": services.NewBurnEntryView(entry)})
}

// DELETE /calorie-burn-entries/:id
func (bc *CalorieBurnController) Destroy(c *gin.Context) {
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

	entry, err := bc.Burns.Delete(c.Request.Context(), userID, entryID)
	if err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	bc.Hub.BroadcastRefresh(userID, services.RefreshEvent{
		Event: "burns.updated",
		Date:  entry.RecordedOn.Format(dateLayout),
	})

	c.JSON(http.StatusOK, gin.H{"message": "burn entry removed"})
}
