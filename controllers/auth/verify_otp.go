package auth

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	OTP         string `json:"otp" validate:"required,len=6"`
}

func accessTokenTTL() time.Duration {
	ttl := 15
	if s := os.Getenv("ACCESS_TTL_MIN"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			ttl = v
		}
	}
	return time.Duration(ttl) * time.Minute
}

func roleFor(user *models.User) string {
	if user.IsStaff {
		return utils.RoleStaff
	}
	return utils.RoleUser
}

// VerifyOTP validates the submitted code and issues the token pair.
// The verified mark commits together with token issuance, so a failed
// issuance leaves the code usable for a retry.
func VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		utils.Error(w, http.StatusBadRequest, "Invalid phone number", "INVALID_PHONE_NUMBER")
		return
	}

	var user models.User
	var accessToken, refreshToken string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, verr := services.VerifyOTP(tx, req.PhoneNumber, req.OTP); verr != nil {
			return verr
		}
		if lerr := tx.Where("phone_number = ?", req.PhoneNumber).First(&user).Error; lerr != nil {
			return lerr
		}
		var terr error
		accessToken, terr = utils.GenerateAccessToken(user.ID, roleFor(&user), accessTokenTTL())
		if terr != nil {
			return terr
		}
		refreshToken, terr = utils.GenerateRefreshToken(tx, user.ID)
		return terr
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPExpired):
			utils.Error(w, http.StatusBadRequest, "OTP expired", "INVALID_OTP")
		case errors.Is(err, services.ErrOTPNotFound),
			errors.Is(err, services.ErrOTPMismatch),
			errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(w, http.StatusBadRequest, "Invalid OTP", "INVALID_OTP")
		default:
			log.Printf("[auth] otp verification failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Could not verify OTP", "ERROR")
		}
		return
	}

	middleware.GetOTPRateLimiter().ResetPhoneLimit(req.PhoneNumber)

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"user_id":       user.ID,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(accessTokenTTL().Seconds()),
	})
}
