package controllers

import (
	"net/http"
	"strconv"

	"github.com/captenmasin/tracker/models"
	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FoodController struct {
	Foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{Foods: foods}
}

type foodInput struct {
	Name               string  `json:"name" binding:"required,max=191"`
	Barcode            string  `json:"barcode" binding:"omitempty,max=32"`
	ServingSize        float64 `json:"serving_size" binding:"required,gt=0"`
	ServingUnit        string  `json:"serving_unit" binding:"omitempty,max=32"`
	CaloriesPerServing float64 `json:"calories_per_serving" binding:"gte=0"`
	ProteinGrams       float64 `json:"protein_grams" binding:"gte=0"`
	CarbGrams          float64 `json:"carb_grams" binding:"gte=0"`
	FatGrams           float64 `json:"fat_grams" binding:"gte=0"`
}

type foodView struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Barcode            *string `json:"barcode"`
	ServingSize        float64 `json:"serving_size"`
	ServingUnit        string  `json:"serving_unit"`
	CaloriesPerServing float64 `json:"calories_per_serving"`
	ProteinGrams       float64 `json:"protein_grams"`
	CarbGrams          float64 `json:"carb_grams"`
	FatGrams           float64 `json:"fat_grams"`
}

func newFoodView(f *models.Food) foodView {
	return foodView{
		ID:                 f.ID,
		Name:               f.Name,
		Barcode:            f.Barcode,
		ServingSize:        f.ServingSize,
		ServingUnit:        f.ServingUnit,
		CaloriesPerServing: f.CaloriesPerServing,
		ProteinGrams:       f.ProteinGrams,
		CarbGrams:          f.CarbGrams,
		FatGrams:           f.FatGrams,
	}
}

func foodViews(foods []models.Food) []foodView {
	views := make([]foodView, 0, len(foods))
	for i := range foods {
		views = append(views, newFoodView(&foods[i]))
	}
	return views
}

// POST /foods
func (fc *FoodController) Store(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in foodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := fc.Foods.Create(c.Request.Context(), userID, services.FoodInput{
		Name:               in.Name,
		Barcode:            in.Barcode,
		ServingSize:        in.ServingSize,
		ServingUnit:        in.ServingUnit,
		CaloriesPerServing: in.CaloriesPerServing,
		ProteinGrams:       in.ProteinGrams,
		CarbGrams:          in.CarbGrams,
		FatGrams:           in.FatGrams,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, newFoodView(food))
}

// PUT /foods/:id
func (fc *FoodController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	foodID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var in foodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := fc.Foods.Update(c.Request.Context(), userID, foodID, services.FoodInput{
		Name:               in.Name,
		Barcode:            in.Barcode,
		ServingSize:        in.ServingSize,
		ServingUnit:        in.ServingUnit,
		CaloriesPerServing: in.CaloriesPerServing,
		ProteinGrams:       in.ProteinGrams,
		CarbGrams:          in.CarbGrams,
		FatGrams:           in.FatGrams,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newFoodView(food))
}

// DELETE /foods/:id
func (fc *FoodController) Destroy(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	foodID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := fc.Foods.Delete(c.Request.Context(), userID, foodID); err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "food removed"})
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
