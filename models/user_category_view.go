package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserCategoryView logs category visits per user for recommendation
// ranking. At most the 3 most recent rows are kept per user.
type UserCategoryView struct {
	ID         string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID     string    `gorm:"type:char(36);uniqueIndex:idx_user_category_views_user_cat" json:"user_id"`
	CategoryID string    `gorm:"type:char(36);uniqueIndex:idx_user_category_views_user_cat" json:"category_id"`
	ViewedAt   time.Time `gorm:"index" json:"viewed_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (UserCategoryView) TableName() string {
	return "user_category_views"
}

func (v *UserCategoryView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
