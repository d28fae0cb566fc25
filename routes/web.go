package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes (nếu cần trong tương lai)
func SetupWebRoutes(router *gin.Engine) {
	// Web routes group
	web := router.Group("/")
	{
		// Home page
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Rental Search Service",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		// API documentation
		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "Rental Search API v1",
				"endpoints": map[string]string{
					"search":      "POST /v1/search",
					"suggestions": "GET /v1/search/suggestions",
					"select_city": "POST /v1/cities/selected",
					"reindex":     "POST /v1/admin/reindex",
					"stats":       "GET /v1/admin/stats",
					"health":      "GET /v1/health",
				},
			})
		})

		// Status page
		web.GET("/status", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "running",
				"service": "Rental Search",
			})
		})
	}
}
