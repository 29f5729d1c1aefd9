package routes

import (
	"toto_api_go/controllers"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes configures admin routes that require admin privileges
func SetupAdminRoutes(router *gin.Engine) {
	admin := router.Group("/api/admin")
	admin.Use(controllers.AuthMiddleware())  // Require authentication
	admin.Use(controllers.AdminMiddleware()) // Require admin role
	{
		// Dashboard
		admin.GET("/dashboard", controllers.GetDashboardStats)

		// User management
		admin.GET("/users", controllers.GetAllUsers)
		admin.GET("/users/:id/transactions", controllers.GetUserTransactions)
		admin.POST("/users/:id/ban", controllers.BanUser)
		admin.POST("/users/:id/unban", controllers.UnbanUser)

		// Game lifecycle
		admin.POST("/games", controllers.CreateGame)
		admin.POST("/games/:id/close", controllers.CloseGame)
		admin.POST("/games/:id/results", controllers.SubmitResults)
		admin.POST("/games/:id/settle", controllers.SettleGame)
		admin.POST("/games/:id/cancel", controllers.CancelGame)

		// Payment reconciliation
		admin.GET("/withdrawals", controllers.GetPendingWithdrawals)
		admin.POST("/withdrawals/:id/approve", controllers.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", controllers.RejectWithdrawal)
		admin.POST("/deposits/:id/confirm", controllers.ConfirmDeposit)
		admin.POST("/deposits/:id/reject", controllers.RejectDeposit)
	}
}
