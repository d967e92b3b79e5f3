package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPCode_SixDigits(t *testing.T) {
	code, err := GenerateOTPCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, code)
}

func TestGenerateOTPCode_DevOverride(t *testing.T) {
	t.Setenv("DEV_STATIC_OTP", "123456")
	code, err := GenerateOTPCode()
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestCreateAndVerifyOTP(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "9876543210")

	otp, code, err := CreateOTP(db, user.ID, "9876543210")
	require.NoError(t, err)
	assert.NotEqual(t, code, otp.CodeHash, "plaintext code must not be stored")

	verified, err := VerifyOTP(db, "9876543210", code)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	// A verified OTP cannot be replayed.
	_, err = VerifyOTP(db, "9876543210", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "9876543210")

	_, code, err := CreateOTP(db, user.ID, "9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}
	_, err = VerifyOTP(db, "9876543210", wrong)
	assert.ErrorIs(t, err, ErrOTPMismatch)
}

func TestVerifyOTP_Expired(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "9876543210")

	otp, code, err := CreateOTP(db, user.ID, "9876543210")
	require.NoError(t, err)
	require.NoError(t, db.Model(otp).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = VerifyOTP(db, "9876543210", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyOTP_NoPendingOTP(t *testing.T) {
	db := newTestDB(t)
	_, err := VerifyOTP(db, "9876543210", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTP_LatestCodeWins(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "9876543210")

	t.Setenv("DEV_STATIC_OTP", "111111")
	_, first, err := CreateOTP(db, user.ID, "9876543210")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	t.Setenv("DEV_STATIC_OTP", "222222")
	_, second, err := CreateOTP(db, user.ID, "9876543210")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = VerifyOTP(db, "9876543210", first)
	assert.ErrorIs(t, err, ErrOTPMismatch, "only the newest OTP is checked")

	verified, err := VerifyOTP(db, "9876543210", second)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
}
