package routes

import (
	"github.com/captenmasin/tracker/config"
	"github.com/captenmasin/tracker/controllers"
	"github.com/captenmasin/tracker/middlewares"
	"github.com/captenmasin/tracker/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	db := config.DB

	hub := services.NewRealtimeHub()

	authSvc := services.NewAuthService(db)
	foodSvc := services.NewFoodService(db)
	entrySvc := services.NewFoodEntryService(db, foodSvc)
	burnSvc := services.NewBurnEntryService(db)
	goalSvc := services.NewMacroGoalService(db)
	dashboardSvc := services.NewDashboardService(db)
	nutritionSvc := services.NewOpenFoodFactsService()

	authCtrl := controllers.NewAuthController(authSvc)
	dashboardCtrl := controllers.NewDashboardController(dashboardSvc, foodSvc)
	foodCtrl := controllers.NewFoodController(foodSvc)
	entryCtrl := controllers.NewFoodEntryController(entrySvc, hub)
	burnCtrl := controllers.NewCalorieBurnController(burnSvc, hub)
	goalCtrl := controllers.NewMacroGoalController(goalSvc, hub)
	searchCtrl := controllers.NewFoodSearchController(foodSvc, nutritionSvc)
	realtimeCtrl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}

	// Protected routes
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/dashboard", dashboardCtrl.Summary)
		api.GET("/dashboard/weekly", dashboardCtrl.WeeklyOverview)

		api.POST("/foods", foodCtrl.Store)
		api.PUT("/foods/:id", foodCtrl.Update)
		api.DELETE("/foods/:id", foodCtrl.Destroy)
		api.GET("/foods/search", searchCtrl.Search)
		api.GET("/foods/barcode/:barcode", searchCtrl.Barcode)

		api.POST("/food-entries", entryCtrl.Store)
		api.DELETE("/food-entries/:id", entryCtrl.Destroy)

		api.POST("/calorie-burn-entries", burnCtrl.Store)
		api.DELETE("/calorie-burn-entries/:id", burnCtrl.Destroy)

		api.GET("/settings/macro-goal", goalCtrl.Show)
		api.PUT("/settings/macro-goal", goalCtrl.Update)

		api.GET("/ws/dashboard", realtimeCtrl.DashboardWS)
	}

	return r
}
