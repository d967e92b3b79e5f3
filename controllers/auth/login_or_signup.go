package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

var phonePattern = regexp.MustCompile(`^[0-9]{8,15}$`)

type loginOrSignUpRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	CountryCode string `json:"country_code"`
}

// LoginOrSignUp gets or creates the user for a phone number and issues
// an OTP. Both the phone number and the caller IP are rate limited.
func LoginOrSignUp(w http.ResponseWriter, r *http.Request) {
	var req loginOrSignUpRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		utils.Error(w, http.StatusBadRequest, "Invalid phone number", "INVALID_PHONE_NUMBER")
		return
	}

	limiter := middleware.GetOTPRateLimiter()
	ip := middleware.GetClientIP(r)
	if ok, wait, msg := limiter.CheckIPRateLimit(ip); !ok {
		writeRateLimited(w, wait, msg)
		return
	}
	if ok, wait, msg := limiter.CheckPhoneRateLimit(req.PhoneNumber); !ok {
		writeRateLimited(w, wait, msg)
		return
	}

	var user models.User
	err := database.DB.Where("phone_number = ?", req.PhoneNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			PhoneNumber: &req.PhoneNumber,
			CountryCode: utils.PtrString(req.CountryCode),
			IsActive:    true,
		}
		err = database.DB.Create(&user).Error
	}
	if err != nil {
		log.Printf("[auth] login_or_sign_up user lookup failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not process request", "ERROR")
		return
	}

	_, code, err := services.CreateOTP(database.DB, user.ID, req.PhoneNumber)
	if err != nil {
		log.Printf("[auth] otp creation failed for user %s: %v", user.ID, err)
		utils.Error(w, http.StatusInternalServerError, "Could not send OTP", "ERROR")
		return
	}
	services.SendOTP(req.PhoneNumber, code)

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"user_id": user.ID,
		"message": "OTP sent successfully",
	})
}

func writeRateLimited(w http.ResponseWriter, wait time.Duration, msg string) {
	secs := int(wait.Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	utils.WriteJSON(w, http.StatusTooManyRequests, map[string]interface{}{
		"response":            msg,
		"http_status_code":    http.StatusTooManyRequests,
		"res_status":          "RATE_LIMITED",
		"retry_after_seconds": secs,
	})
}
