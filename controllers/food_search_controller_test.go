package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/captenmasin/tracker/models"
	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.FoodEntry{},
		&models.CalorieBurnEntry{},
		&models.MacroGoal{},
	))
	return db
}

// stubAuth plants a user ID the way the auth middleware would.
func stubAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newSearchRouter(t *testing.T, db *gorm.DB, upstream string) *gin.Engine {
	t.Helper()
	t.Setenv("NUTRITION_API_URL", upstream+"/product")
	t.Setenv("NUTRITION_SEARCH_API_URL", upstream+"/search")

	foodSvc := services.NewFoodService(db)
	ctrl := NewFoodSearchController(foodSvc, services.NewOpenFoodFactsService())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(stubAuth(1))
	r.GET("/foods/search", ctrl.Search)
	r.GET("/foods/barcode/:barcode", ctrl.Barcode)
	return r
}

func TestSearchRejectsShortQuery(t *testing.T) {
	r := newSearchRouter(t, newControllerTestDB(t), "http://127.0.0.1:0")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foods/search?q=a", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSearchReturnsNormalizedResults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.True(t, strings.HasPrefix(req.URL.Path, "/search"))
		fmt.Fprint(w, `{
			"products": [
				{"code": "1", "product_name": "Oat Milk", "product_quantity": "1000",
				 "product_quantity_unit": "ml", "nutriments": {"energy-kcal_100ml": 45}},
				{"code": "2"}
			]
		}`)
	}))
	defer upstream.Close()

	r := newSearchRouter(t, newControllerTestDB(t), upstream.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foods/search?q=oat+milk", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []services.NormalizedFood `json:"results"`
		Source  string                    `json:"source"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "external", body.Source)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Oat Milk", body.Results[0].Name)
	assert.Equal(t, "ml", body.Results[0].ServingUnit)
	assert.Equal(t, 450.0, body.Results[0].Calories)
}

func TestSearchDegradesToEmptyOnUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	r := newSearchRouter(t, newControllerTestDB(t), upstream.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foods/search?q=anything", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":[]`)
}

func TestBarcodePrefersLibrary(t *testing.T) {
	db := newControllerTestDB(t)

	var upstreamCalls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		upstreamCalls.Add(1)
		fmt.Fprint(w, `{"product": null}`)
	}))
	defer upstream.Close()

	foodSvc := services.NewFoodService(db)
	_, err := foodSvc.Create(context.Background(), 1, services.FoodInput{
		Name: "My Cola", Barcode: "5449000000996", ServingSize: 330, ServingUnit: "ml",
	})
	require.NoError(t, err)

	r := newSearchRouter(t, db, upstream.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foods/barcode/5449000000996", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"library"`)
	assert.Contains(t, w.Body.String(), "My Cola")
	assert.Equal(t, int32(0), upstreamCalls.Load())
}

func TestBarcodeFallsBackToExternal(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.True(t, strings.HasPrefix(req.URL.Path, "/product/737628064502"))
		fmt.Fprint(w, `{
			"product": {
				"code": "737628064502", "product_name": "Rice Noodles",
				"product_quantity": "155", "product_quantity_unit": "g",
				"nutriments": {"energy-kcal_100g": 385}
			}
		}`)
	}))
	defer upstream.Close()

	r := newSearchRouter(t, newControllerTestDB(t), upstream.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foods/barcode/737628064502", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"external"`)
	assert.Contains(t, w.Body.String(), "Rice Noodles")
}

func TestBarcodeNotFoundAnywhere(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"status": 0}`)
	}))
	defer upstream.Close()

	r := newSearchRouter(t, newControllerTestDB(t), upstream.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foods/barcode/0000000000000", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
