package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	State     string    `gorm:"size:100;not null;uniqueIndex:idx_locations_state_district" json:"state"`
	District  *string   `gorm:"size:100;uniqueIndex:idx_locations_state_district" json:"district"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
