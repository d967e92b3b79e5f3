package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
)

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func issueOTP(t *testing.T, db *gorm.DB, phone string) string {
	t.Helper()
	user := models.User{PhoneNumber: &phone, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	_, code, err := services.CreateOTP(db, user.ID, phone)
	require.NoError(t, err)
	return code
}

func postVerifyOTP(phone, code string) *httptest.ResponseRecorder {
	body := `{"phone_number": "` + phone + `", "otp": "` + code + `"}`
	req := httptest.NewRequest("POST", "http://example.local/verify_otp/v1/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	VerifyOTP(rec, req)
	return rec
}

func TestVerifyOTP_IssuesTokens(t *testing.T) {
	db := newAuthTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")

	code := issueOTP(t, db, "9876543210")
	rec := postVerifyOTP("9876543210", code)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])

	var otp models.OTP
	require.NoError(t, db.Where("phone_number = ?", "9876543210").First(&otp).Error)
	assert.True(t, otp.IsVerified)
}

func TestVerifyOTP_TokenFailureDoesNotBurnCode(t *testing.T) {
	db := newAuthTestDB(t)
	// No signing secret: token issuance fails after the code checks out.
	t.Setenv("JWT_SECRET", "")

	code := issueOTP(t, db, "9876543210")
	rec := postVerifyOTP("9876543210", code)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var otp models.OTP
	require.NoError(t, db.Where("phone_number = ?", "9876543210").First(&otp).Error)
	assert.False(t, otp.IsVerified, "a failed issuance must leave the code usable")

	var refreshTokens int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&refreshTokens).Error)
	assert.Zero(t, refreshTokens)

	// The same code verifies once issuance can succeed.
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "")
	t.Setenv("JWT_ISS", "")
	rec = postVerifyOTP("9876543210", code)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
}

func TestVerifyOTP_WrongCodeRejected(t *testing.T) {
	db := newAuthTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	code := issueOTP(t, db, "9876543210")
	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}
	rec := postVerifyOTP("9876543210", wrong)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_OTP", body["res_status"])
}
