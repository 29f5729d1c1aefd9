package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"toto_api_go/config"
	"toto_api_go/models"
	"toto_api_go/services"
	"toto_api_go/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// gameCache holds responses of the public read endpoints. Injected from
// main; money-affecting paths never touch it.
var gameCache *utils.Cache

func SetGameCache(c *utils.Cache) {
	gameCache = c
}

func invalidateGameCache(gameID uint) {
	if gameCache == nil {
		return
	}
	gameCache.Delete("games:list")
	gameCache.Delete(fmt.Sprintf("games:%d", gameID))
}

// GetGames lists games, optionally filtered by status.
func GetGames(c *gin.Context) {
	status := c.Query("status")
	cacheKey := "games:list"

	if status == "" && gameCache != nil {
		if cached, ok := gameCache.Get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	query := config.DB.Preload("Matches").Order("deadline DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var games []models.TotoGame
	if err := query.Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch games",
		})
		return
	}

	response := AuthResponse{
		Success: true,
		Message: "Games retrieved successfully",
		Data:    gin.H{"games": games, "count": len(games)},
	}
	if status == "" && gameCache != nil {
		gameCache.Set(cacheKey, response)
	}
	c.JSON(http.StatusOK, response)
}

// GetGame returns one game with its matches.
func GetGame(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid game ID",
		})
		return
	}

	cacheKey := fmt.Sprintf("games:%d", gameID)
	if gameCache != nil {
		if cached, ok := gameCache.Get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var game models.TotoGame
	if err := config.DB.Preload("Matches").First(&game, gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, AuthResponse{
				Success: false,
				Message: "Game not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Database error",
		})
		return
	}

	response := AuthResponse{
		Success: true,
		Message: "Game retrieved successfully",
		Data:    gin.H{"game": game},
	}
	if gameCache != nil {
		gameCache.Set(cacheKey, response)
	}
	c.JSON(http.StatusOK, response)
}

type PredictionPickRequest struct {
	MatchID  uint   `json:"match_id" binding:"required"`
	Outcomes string `json:"outcomes" binding:"required"`
}

type SubmitPredictionRequest struct {
	Picks []PredictionPickRequest `json:"picks" binding:"required"`
}

// SubmitPrediction places a stake on an open game.
func SubmitPrediction(c *gin.Context) {
	userID := c.GetUint("user_id")

	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid game ID",
		})
		return
	}

	var req SubmitPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	picks := make([]services.PickInput, 0, len(req.Picks))
	for _, p := range req.Picks {
		outcomes, err := models.ParseOutcomes(p.Outcomes)
		if err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: fmt.Sprintf("Match %d: %s", p.MatchID, err.Error()),
			})
			return
		}
		picks = append(picks, services.PickInput{MatchID: p.MatchID, Outcomes: outcomes})
	}

	prediction, err := services.SubmitPrediction(config.DB, userID, uint(gameID), picks)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Prediction submitted successfully",
		Data: gin.H{
			"prediction": gin.H{
				"id":           prediction.ID,
				"toto_game_id": prediction.TotoGameID,
				"price":        prediction.Price,
				"picks":        prediction.Picks,
			},
		},
	})
}

// GetMyPredictions lists the caller's predictions, newest first.
func GetMyPredictions(c *gin.Context) {
	userID := c.GetUint("user_id")

	var predictions []models.Prediction
	err := config.DB.Preload("Picks").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&predictions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch predictions",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Predictions retrieved successfully",
		Data:    gin.H{"predictions": predictions, "count": len(predictions)},
	})
}

// ClaimPrize asks for the caller's prize of a completed game to be paid
// out; safe to call again after it was already credited.
func ClaimPrize(c *gin.Context) {
	userID := c.GetUint("user_id")

	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid game ID",
		})
		return
	}

	amount, alreadyCredited, err := services.ClaimPrize(config.DB, userID, uint(gameID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Prize credited successfully"
	if alreadyCredited {
		message = "Prize was already credited"
	}
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: message,
		Data: gin.H{
			"amount":           amount,
			"already_credited": alreadyCredited,
		},
	})
}

// GetGameWinners lists the recorded winners of a completed game.
func GetGameWinners(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid game ID",
		})
		return
	}

	var winners []models.TotoWinner
	err = config.DB.Where("toto_game_id = ?", gameID).
		Order("amount DESC").
		Find(&winners).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch winners",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Winners retrieved successfully",
		Data:    gin.H{"winners": winners, "count": len(winners)},
	})
}
