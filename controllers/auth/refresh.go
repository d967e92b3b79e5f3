package auth

import (
	"log"
	"net/http"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh rotates the refresh token: the presented token is revoked and
// a fresh access/refresh pair is issued.
func Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	stored, err := utils.ValidateRefreshToken(database.DB, req.RefreshToken)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid refresh token", "UNAUTHORIZED")
		return
	}

	var user models.User
	if err := database.DB.Where("id = ?", stored.UserID).First(&user).Error; err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid refresh token", "UNAUTHORIZED")
		return
	}
	if !user.IsActive {
		utils.Error(w, http.StatusUnauthorized, "Account is inactive", "UNAUTHORIZED")
		return
	}

	if err := database.DB.Model(stored).Update("revoked", true).Error; err != nil {
		log.Printf("[auth] refresh revocation failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not rotate token", "ERROR")
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, roleFor(&user), accessTokenTTL())
	if err != nil {
		log.Printf("[auth] access token issue failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not issue tokens", "ERROR")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(database.DB, user.ID)
	if err != nil {
		log.Printf("[auth] refresh token issue failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not issue tokens", "ERROR")
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(accessTokenTTL().Seconds()),
	})
}
