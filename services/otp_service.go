package services

import (
	"crypto/rand"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

const otpLength = 6

var (
	ErrOTPNotFound = errors.New("no pending otp for phone number")
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("otp does not match")
)

// GenerateOTPCode returns a random 6-digit code. In development
// DEV_STATIC_OTP can pin the code so the flow is testable without an
// SMS provider.
func GenerateOTPCode() (string, error) {
	if static := os.Getenv("DEV_STATIC_OTP"); static != "" && len(static) == otpLength {
		return static, nil
	}
	b := make([]byte, otpLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	digits := make([]byte, otpLength)
	for i := range b {
		digits[i] = '0' + b[i]%10
	}
	return string(digits), nil
}

// CreateOTP issues a new OTP for the user. Only the bcrypt hash is
// persisted; the plaintext code is returned to the caller for delivery.
func CreateOTP(db *gorm.DB, userID, phoneNumber string) (*models.OTP, string, error) {
	code, err := GenerateOTPCode()
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	ttl := 5
	if s := os.Getenv("OTP_TTL_MIN"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			ttl = v
		}
	}

	otp := &models.OTP{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		CodeHash:    string(hash),
		ExpiresAt:   time.Now().Add(time.Duration(ttl) * time.Minute),
	}
	if err := db.Create(otp).Error; err != nil {
		return nil, "", err
	}
	return otp, code, nil
}

// SendOTP hands the code off for delivery. There is no SMS provider
// wired, so the code is logged; swap this for a gateway call in
// production.
func SendOTP(phoneNumber, code string) {
	log.Printf("[otp] delivery for %s: %s", phoneNumber, code)
}

// VerifyOTP checks the submitted code against the newest unverified OTP
// for the phone number and marks it verified on success.
func VerifyOTP(db *gorm.DB, phoneNumber, code string) (*models.OTP, error) {
	var otp models.OTP
	err := db.Where("phone_number = ? AND is_verified = ?", phoneNumber, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	if otp.IsExpired() {
		return nil, ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		return nil, ErrOTPMismatch
	}
	if err := db.Model(&otp).Update("is_verified", true).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}
