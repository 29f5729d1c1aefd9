package controllers

import (
	"errors"
	"net/http"

	"toto_api_go/config"
	"toto_api_go/services"

	"github.com/gin-gonic/gin"
)

// ShkeeperWebhook receives the provider's payment notifications. The
// provider authenticates with the shared API key header; redeliveries are
// acknowledged with 200 so the provider stops retrying.
func ShkeeperWebhook(c *gin.Context) {
	if shkeeperClient == nil || c.GetHeader("X-Shkeeper-Api-Key") != shkeeperClient.APIKey() {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Message: "Invalid API key",
		})
		return
	}

	var payload services.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid webhook payload: " + err.Error(),
		})
		return
	}
	if payload.ExternalID == "" {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Missing external_id",
		})
		return
	}

	processed, err := services.ProcessDepositWebhook(config.DB, payload)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, AuthResponse{
				Success: false,
				Message: "Unknown deposit",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to process webhook",
		})
		return
	}

	message := "Webhook acknowledged"
	if processed {
		message = "Deposit processed"
	}
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: message,
	})
}
