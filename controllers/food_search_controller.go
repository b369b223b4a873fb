package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
)

const defaultSearchLimit = 10

type FoodSearchController struct {
	Foods     *services.FoodService
	Nutrition *services.OpenFoodFactsService
}

func NewFoodSearchController(foods *services.FoodService, nutrition *services.OpenFoodFactsService) *FoodSearchController {
	return &FoodSearchController{Foods: foods, Nutrition: nutrition}
}

// GET /foods/search?q=...&limit=...
func (sc *FoodSearchController) Search(c *gin.Context) {
	if _, ok := userIDFromCtx(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "query must be at least 2 characters"})
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 20 {
		limit = 20
	}

	products, err := sc.Nutrition.SearchByText(query, limit)
	if err != nil {
		// Upstream trouble degrades to an empty result set rather than
		// failing the whole search box.
		c.JSON(http.StatusOK, gin.H{"results": []services.NormalizedFood{}, "source": "external"})
		return
	}

	results := services.NormalizeProducts(products, limit)
	c.JSON(http.StatusOK, gin.H{"results": results, "source": "external"})
}

// GET /foods/barcode/:barcode
func (sc *FoodSearchController) Barcode(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	barcode := strings.TrimSpace(c.Param("barcode"))
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode required"})
		return
	}

	// The user's own library wins over the external database.
	food, err := sc.Foods.FindByBarcode(c.Request.Context(), userID, barcode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if food != nil {
		c.JSON(http.StatusOK, gin.H{"food": newFoodView(food), "source": "library"})
		return
	}

	product, err := sc.Nutrition.FetchByBarcode(barcode)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	normalized := services.NormalizeProduct(product, barcode)
	if normalized == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"food": normalized, "source": "external"})
}
