package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Seller struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Seller) TableName() string {
	return "sellers"
}

func (s *Seller) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SellerProfile links a Seller to the authenticated user account that
// operates it.
type SellerProfile struct {
	ID              string    `gorm:"primaryKey;type:char(36)" json:"id"`
	SellerID        string    `gorm:"type:char(36);uniqueIndex" json:"seller_id"`
	UserID          string    `gorm:"type:char(36);index" json:"user_id"`
	BusinessName    *string   `gorm:"size:255" json:"business_name"`
	BusinessAddress *string   `gorm:"type:text" json:"business_address"`
	PhoneNumber     *string   `gorm:"size:15" json:"phone_number"`
	Email           *string   `gorm:"size:254" json:"email"`
	IsVerified      bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Seller *Seller `gorm:"foreignKey:SellerID" json:"-"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

func (SellerProfile) TableName() string {
	return "seller_profiles"
}

func (s *SellerProfile) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
