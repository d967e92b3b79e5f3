package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCategoryDepth caps the category tree at 5 levels (root = level 0,
// deepest node = level 4).
const MaxCategoryDepth = 5

type Category struct {
	ID               string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	CategoryCode     string    `gorm:"size:50;uniqueIndex;not null" json:"category_code"`
	Description      *string   `gorm:"type:text" json:"description"`
	Order            int       `gorm:"column:order;default:0" json:"order"`
	ImageURL         *string   `gorm:"size:500" json:"image_url"`
	IsActive         bool      `gorm:"index:idx_categories_active_order" json:"is_active"`
	Level            int       `gorm:"default:0" json:"level"`
	ParentCategoryID *string   `gorm:"type:char(36);index" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	ParentCategory *Category `gorm:"foreignKey:ParentCategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
