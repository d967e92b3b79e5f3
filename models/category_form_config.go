package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryFormConfig holds the dynamic form definition for a leaf
// category. Schema is a JSON array of
// {field_name, field_label, field_type, is_required, order, options}.
type CategoryFormConfig struct {
	ID         string         `gorm:"primaryKey;type:char(36)" json:"id"`
	CategoryID string         `gorm:"type:char(36);uniqueIndex" json:"category_id"`
	IsActive   bool           `json:"is_active"`
	Schema     datatypes.JSON `gorm:"type:json" json:"schema"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (CategoryFormConfig) TableName() string {
	return "category_form_configs"
}

func (c *CategoryFormConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
