package routes

import (
	"toto_api_go/controllers"

	"github.com/gin-gonic/gin"
)

// SetupTotoRoutes configures the game browsing and staking surface.
func SetupTotoRoutes(router *gin.Engine) {
	games := router.Group("/api/games")
	{
		games.GET("", controllers.GetGames)
		games.GET("/:id", controllers.GetGame)
		games.GET("/:id/winners", controllers.GetGameWinners)
	}

	staking := router.Group("/api/games")
	staking.Use(controllers.AuthMiddleware())
	{
		staking.POST("/:id/predictions", controllers.SubmitPrediction)
		staking.POST("/:id/claim", controllers.ClaimPrize)
	}

	predictions := router.Group("/api/predictions")
	predictions.Use(controllers.AuthMiddleware())
	{
		predictions.GET("", controllers.GetMyPredictions)
	}
}
