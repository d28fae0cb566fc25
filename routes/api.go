package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rental-search/app/controllers"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, searchController *controllers.SearchController, adminController *controllers.AdminController) {
	// API v1 group
	v1 := router.Group("/v1")
	{
		// Search routes
		search := v1.Group("/search")
		{
			search.POST("", searchController.Search)
			search.GET("/suggestions", searchController.Suggestions)
		}

		// City selection
		v1.POST("/cities/selected", searchController.SelectCity)

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.POST("/reindex", adminController.Reindex)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.GET("/stats", adminController.Stats)
		}

		// Health check route
		v1.GET("/health", searchController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, searchController *controllers.SearchController) {
	// Root health check
	router.GET("/health", searchController.HealthCheck)

	// Readiness check
	router.GET("/ready", searchController.HealthCheck)

	// Liveness check
	router.GET("/live", searchController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, searchController *controllers.SearchController, adminController *controllers.AdminController) {
	// Thiết lập middleware
	setupMiddleware(router)

	// Thiết lập các loại routes
	SetupWebRoutes(router)
	SetupHealthRoutes(router, searchController)
	SetupAPIRoutes(router, searchController, adminController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Logger middleware
	router.Use(gin.Logger())
}
