package routes

import (
	"toto_api_go/controllers"
	"toto_api_go/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWebhookRoutes configures the provider callback endpoint. It is
// rate limited per IP on top of the shared-secret header check.
func SetupWebhookRoutes(router *gin.Engine, limiter *middleware.IPRateLimiter) {
	webhooks := router.Group("/api/webhooks")
	webhooks.Use(limiter.RateLimit())
	{
		webhooks.POST("/shkeeper", controllers.ShkeeperWebhook)
	}
}
