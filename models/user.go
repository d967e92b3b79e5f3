package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	PhoneNumber *string   `gorm:"size:15;uniqueIndex" json:"phone_number"`
	CountryCode *string   `gorm:"size:5" json:"country_code"`
	Username    *string   `gorm:"size:150;uniqueIndex" json:"username,omitempty"`
	IsStaff     bool      `gorm:"default:false" json:"is_staff"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
