package routes

import (
	"toto_api_go/controllers"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}
}

func SetupProtectedRoutes(router *gin.Engine) {
	protected := router.Group("/api")
	protected.Use(controllers.AuthMiddleware())
	{
		protected.GET("/profile", controllers.GetProfile)
		protected.PUT("/profile", controllers.UpdateProfile)
		protected.PUT("/change-password", controllers.ChangePassword)
		protected.POST("/logout", controllers.Logout)

		protected.GET("/transactions", controllers.GetTransactionHistory)

		protected.POST("/deposits", controllers.CreateDeposit)
		protected.GET("/deposits", controllers.GetDeposits)
		protected.POST("/withdrawals", controllers.CreateWithdrawal)
		protected.GET("/withdrawals", controllers.GetWithdrawals)
	}
}
