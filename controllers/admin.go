package controllers

import (
	"net/http"
	"strconv"
	"time"

	"toto_api_go/config"
	"toto_api_go/models"
	"toto_api_go/services"

	"github.com/gin-gonic/gin"
)

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != "admin" {
			c.JSON(http.StatusForbidden, AuthResponse{
				Success: false,
				Message: "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

type CreateMatchRequest struct {
	HomeTeam  string    `json:"home_team" binding:"required"`
	AwayTeam  string    `json:"away_team" binding:"required"`
	KickoffAt time.Time `json:"kickoff_at" binding:"required"`
}

type CreateGameRequest struct {
	Name     string               `json:"name" binding:"required"`
	Deadline time.Time            `json:"deadline" binding:"required"`
	Matches  []CreateMatchRequest `json:"matches" binding:"required"`
}

// CreateGame opens a new 15-match game.
func CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	matches := make([]services.MatchInput, 0, len(req.Matches))
	for _, m := range req.Matches {
		matches = append(matches, services.MatchInput{
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			KickoffAt: m.KickoffAt,
		})
	}

	game, err := services.CreateGame(config.DB, req.Name, req.Deadline, matches)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	invalidateGameCache(game.ID)

	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Game created successfully",
		Data:    gin.H{"game": game},
	})
}

type SubmitResultRequest struct {
	MatchID     uint   `json:"match_id" binding:"required"`
	Result      string `json:"result"`
	IsCancelled bool   `json:"is_cancelled"`
}

type SubmitResultsRequest struct {
	Results []SubmitResultRequest `json:"results" binding:"required"`
}

// SubmitResults records match results for a closed game; partial batches
// are fine, the game settles in a separate step.
func SubmitResults(c *gin.Context) {
	gameID, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req SubmitResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	results := make([]services.ResultInput, 0, len(req.Results))
	for _, r := range req.Results {
		results = append(results, services.ResultInput{
			MatchID:     r.MatchID,
			Result:      r.Result,
			IsCancelled: r.IsCancelled,
		})
	}

	if err := services.SubmitResults(config.DB, gameID, results); err != nil {
		respondServiceError(c, err)
		return
	}
	invalidateGameCache(gameID)

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Results submitted successfully",
	})
}

// CloseGame closes an open game ahead of its deadline.
func CloseGame(c *gin.Context) {
	gameID, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := services.CloseGame(config.DB, gameID); err != nil {
		respondServiceError(c, err)
		return
	}
	invalidateGameCache(gameID)

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Game closed successfully",
	})
}

// SettleGame scores predictions and pays prizes for a fully-resolved game.
func SettleGame(c *gin.Context) {
	gameID, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := services.SettleGame(config.DB, gameID); err != nil {
		respondServiceError(c, err)
		return
	}
	invalidateGameCache(gameID)

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Game settled successfully",
	})
}

// CancelGame cancels a game and refunds all stakes.
func CancelGame(c *gin.Context) {
	gameID, err := parseIDParam(c)
	if err != nil {
		return
	}

	refunded, alreadyRefunded, err := services.CancelGame(config.DB, gameID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	invalidateGameCache(gameID)

	message := "Game cancelled, stakes refunded"
	if alreadyRefunded {
		message = "Game was already cancelled"
	}
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: message,
		Data: gin.H{
			"refunded_predictions": refunded,
			"already_refunded":     alreadyRefunded,
		},
	})
}

// ApproveWithdrawal triggers the provider payout for a pending request.
func ApproveWithdrawal(c *gin.Context) {
	requestID, err := parseIDParam(c)
	if err != nil {
		return
	}
	adminID := c.GetUint("user_id")

	if err := services.ApproveWithdrawal(c.Request.Context(), config.DB, shkeeperClient, requestID, adminID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Withdrawal approved, payout task created",
	})
}

// RejectWithdrawal refuses a pending request and restores the balance.
func RejectWithdrawal(c *gin.Context) {
	requestID, err := parseIDParam(c)
	if err != nil {
		return
	}
	adminID := c.GetUint("user_id")

	if err := services.RejectWithdrawal(config.DB, requestID, adminID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Withdrawal rejected, amount refunded",
	})
}

// GetPendingWithdrawals lists withdrawal requests awaiting review.
func GetPendingWithdrawals(c *gin.Context) {
	var requests []models.WithdrawalRequest
	err := config.DB.Where("status = ?", models.WithdrawalStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch withdrawal requests",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Withdrawal requests retrieved successfully",
		Data:    gin.H{"withdrawals": requests, "count": len(requests)},
	})
}

type ConfirmDepositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// ConfirmDeposit resolves a stuck deposit intent in the user's favor.
func ConfirmDeposit(c *gin.Context) {
	depositID, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := services.ConfirmDepositManually(config.DB, depositID, req.Amount); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Deposit confirmed and credited",
	})
}

// RejectDeposit closes a stuck deposit intent without crediting.
func RejectDeposit(c *gin.Context) {
	depositID, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := services.RejectDepositManually(config.DB, depositID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Deposit rejected",
	})
}

func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch users",
		})
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":            u.ID,
			"username":      u.Username,
			"email":         u.Email,
			"role":          u.Role,
			"status":        u.Status,
			"balance":       u.Balance,
			"score":         u.Score,
			"referral_code": u.ReferralCode,
			"created_at":    u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    gin.H{"users": list, "count": len(list)},
	})
}

// GetUserTransactions returns one user's ledger for admin review.
func GetUserTransactions(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		return
	}

	var transactions []models.Transaction
	err = config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch transactions",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Transactions retrieved successfully",
		Data:    gin.H{"transactions": transactions, "count": len(transactions)},
	})
}

func BanUser(c *gin.Context) {
	setUserStatus(c, "banned", "User banned successfully")
}

func UnbanUser(c *gin.Context) {
	setUserStatus(c, "active", "User unbanned successfully")
}

func setUserStatus(c *gin.Context, status, message string) {
	userID, err := parseIDParam(c)
	if err != nil {
		return
	}

	res := config.DB.Model(&models.User{}).Where("id = ?", userID).Update("status", status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to update user status",
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, AuthResponse{
			Success: false,
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: message,
	})
}

// GetDashboardStats aggregates platform-wide counters for the admin panel.
func GetDashboardStats(c *gin.Context) {
	var totalUsers, openGames, pendingWithdrawals int64
	var totalPot, totalCommission float64

	config.DB.Model(&models.User{}).Count(&totalUsers)
	config.DB.Model(&models.TotoGame{}).Where("status = ?", models.GameStatusOpen).Count(&openGames)
	config.DB.Model(&models.WithdrawalRequest{}).
		Where("status = ?", models.WithdrawalStatusPending).
		Count(&pendingWithdrawals)
	config.DB.Model(&models.TotoGame{}).
		Where("status IN ?", []string{models.GameStatusClosed, models.GameStatusCompleted}).
		Select("COALESCE(SUM(total_pot), 0)").Scan(&totalPot)
	config.DB.Model(&models.TotoGame{}).
		Where("status IN ?", []string{models.GameStatusClosed, models.GameStatusCompleted}).
		Select("COALESCE(SUM(commission_amount), 0)").Scan(&totalCommission)

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Dashboard stats retrieved successfully",
		Data: gin.H{
			"total_users":         totalUsers,
			"open_games":          openGames,
			"pending_withdrawals": pendingWithdrawals,
			"total_pot":           totalPot,
			"total_commission":    totalCommission,
		},
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid ID parameter",
		})
		return 0, err
	}
	return uint(id), nil
}
