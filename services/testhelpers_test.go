package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, code string, level int, parent *models.Category) *models.Category {
	t.Helper()
	c := &models.Category{
		Name:         name,
		CategoryCode: code,
		Level:        level,
		IsActive:     true,
	}
	if parent != nil {
		c.ParentCategoryID = &parent.ID
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedSeller(t *testing.T, db *gorm.DB, name string) *models.Seller {
	t.Helper()
	s := &models.Seller{Name: name}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()
	u := &models.User{PhoneNumber: &phone, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}
