package controllers

import (
	"errors"
	"net/http"

	"toto_api_go/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the engine's error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientFunds):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrProvider):
		status = http.StatusBadGateway
	}

	c.JSON(status, AuthResponse{
		Success: false,
		Message: err.Error(),
	})
}
