package controllers

import (
	"net/http"

	"toto_api_go/config"
	"toto_api_go/models"
	"toto_api_go/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// shkeeperClient is shared by the deposit and withdrawal surfaces; wired
// from main.
var shkeeperClient *services.ShkeeperClient

func SetShkeeperClient(sk *services.ShkeeperClient) {
	shkeeperClient = sk
}

func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, AuthResponse{
			Success: false,
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Profile retrieved successfully",
		Data: gin.H{
			"user": gin.H{
				"id":            user.ID,
				"username":      user.Username,
				"email":         user.Email,
				"role":          user.Role,
				"status":        user.Status,
				"balance":       user.Balance,
				"score":         user.Score,
				"referral_code": user.ReferralCode,
				"created_at":    user.CreatedAt,
			},
		},
	})
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
}

func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Nothing to update",
		})
		return
	}

	var conflict int64
	config.DB.Model(&models.User{}).
		Where("(email = ? OR username = ?) AND id != ?", req.Email, req.Username, userID).
		Count(&conflict)
	if conflict > 0 {
		c.JSON(http.StatusConflict, AuthResponse{
			Success: false,
			Message: "Username or email already taken",
		})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to update profile",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Profile updated successfully",
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, AuthResponse{
			Success: false,
			Message: "User not found",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Message: "Current password is incorrect",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to process password",
		})
		return
	}

	if err := config.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to change password",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// GetTransactionHistory returns the caller's ledger entries, newest first.
func GetTransactionHistory(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
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

type CreateDepositRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
	Network  string  `json:"network"`
}

// CreateDeposit opens a crypto payment intent and returns the deposit
// address to pay to.
func CreateDeposit(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	deposit, err := services.CreateDeposit(c.Request.Context(), config.DB, shkeeperClient,
		userID, req.Amount, req.Currency, req.Network)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Deposit created successfully",
		Data: gin.H{
			"deposit": gin.H{
				"id":              deposit.ID,
				"external_id":     deposit.ExternalID,
				"deposit_address": deposit.DepositAddress,
				"expected_amount": deposit.ExpectedAmount,
				"currency":        deposit.Currency,
				"network":         deposit.Network,
				"status":          deposit.Status,
			},
		},
	})
}

func GetDeposits(c *gin.Context) {
	userID := c.GetUint("user_id")

	var deposits []models.CryptoDeposit
	err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&deposits).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch deposits",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Deposits retrieved successfully",
		Data:    gin.H{"deposits": deposits, "count": len(deposits)},
	})
}

type CreateWithdrawalRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	WalletAddress string  `json:"wallet_address" binding:"required"`
	Network       string  `json:"network"`
}

// CreateWithdrawal reserves the amount from the balance and queues the
// request for admin review.
func CreateWithdrawal(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	request, err := services.CreateWithdrawal(config.DB, userID, req.Amount, req.WalletAddress, req.Network)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Withdrawal request created successfully",
		Data: gin.H{
			"withdrawal": gin.H{
				"id":             request.ID,
				"amount":         request.Amount,
				"wallet_address": request.WalletAddress,
				"network":        request.Network,
				"status":         request.Status,
			},
		},
	})
}

func GetWithdrawals(c *gin.Context) {
	userID := c.GetUint("user_id")

	var requests []models.WithdrawalRequest
	err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to fetch withdrawals",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Withdrawals retrieved successfully",
		Data:    gin.H{"withdrawals": requests, "count": len(requests)},
	})
}
