package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SellerProductStatusDraft           = "draft"
	SellerProductStatusPendingApproval = "pending_approval"
	SellerProductStatusApproved        = "approved"
	SellerProductStatusRejected        = "rejected"
	SellerProductStatusListed          = "listed"
)

// SellerProduct is the seller-facing listing record for a Product. It
// carries the listing status and a copy of the submitted form answers.
type SellerProduct struct {
	ID              string            `gorm:"primaryKey;type:char(36)" json:"id"`
	ProductID       string            `gorm:"type:char(36);uniqueIndex" json:"product_id"`
	SellerID        string            `gorm:"type:char(36);index:idx_seller_products_seller_status" json:"seller_id"`
	Status          string            `gorm:"size:20;default:'draft';index:idx_seller_products_seller_status" json:"status"`
	RejectionReason *string           `gorm:"type:text" json:"rejection_reason"`
	ExtraInfo       datatypes.JSONMap `gorm:"type:json" json:"extra_info"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
	Seller  *Seller  `gorm:"foreignKey:SellerID" json:"-"`
}

func (SellerProduct) TableName() string {
	return "seller_products"
}

func (s *SellerProduct) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
