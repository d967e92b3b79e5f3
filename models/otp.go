package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTP stores a one-time password issued for a phone number. The code
// itself is kept only as a bcrypt hash.
type OTP struct {
	ID          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID      string    `gorm:"type:char(36);index" json:"user_id"`
	PhoneNumber string    `gorm:"size:15;index" json:"phone_number"`
	CodeHash    string    `gorm:"size:255;not null" json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OTP) TableName() string {
	return "otps"
}

func (o *OTP) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}
