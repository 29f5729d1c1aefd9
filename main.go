package main

import (
	"log"
	"os"
	"time"

	"toto_api_go/config"
	"toto_api_go/config/seeders"
	"toto_api_go/controllers"
	"toto_api_go/middleware"
	"toto_api_go/routes"
	"toto_api_go/services"
	"toto_api_go/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.ConnectDB()
	seeders.SeedAllData()

	shkeeper := services.NewShkeeperClient(
		os.Getenv("SHKEEPER_URL"),
		os.Getenv("SHKEEPER_API_KEY"),
		os.Getenv("SHKEEPER_CALLBACK_URL"),
	)
	controllers.SetShkeeperClient(shkeeper)

	gameCache := utils.NewCache(2 * time.Minute)
	controllers.SetGameCache(gameCache)

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	limiter := middleware.NewIPRateLimiter(10, 20)

	routes.SetupAuthRoutes(router)
	routes.SetupProtectedRoutes(router)
	routes.SetupTotoRoutes(router)
	routes.SetupAdminRoutes(router)
	routes.SetupWebhookRoutes(router, limiter)

	// Closes open games whose deadline passed, so late stakes are shut out
	// even if no admin is around.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		services.CloseExpiredGames(config.DB)

		for range ticker.C {
			services.CloseExpiredGames(config.DB)
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			gameCache.Sweep()
		}
	}()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		controllers.CleanupExpiredBlacklistedTokens()

		for range ticker.C {
			controllers.CleanupExpiredBlacklistedTokens()
		}
	}()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Toto API is running",
		})
	})

	log.Println("Server starting on port 8080...")
	if err := router.Run("0.0.0.0:8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
