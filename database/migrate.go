package database

import (
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

// AllModels lists every entity in migration-safe order (referenced
// tables before referencing ones).
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.OTP{},
		&models.RefreshToken{},
		&models.Category{},
		&models.CategoryFormConfig{},
		&models.Seller{},
		&models.SellerProfile{},
		&models.Location{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecification{},
		&models.SellerProduct{},
		&models.UserCategoryView{},
	}
}

// Migrate runs AutoMigrate for all models inside a transaction where
// the dialect supports it.
func Migrate(db *gorm.DB) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.AutoMigrate(AllModels()...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
