package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

func newCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCategoriesDetails_InvalidLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/?limit=0", nil)
	rec := httptest.NewRecorder()
	CategoriesDetails(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "INVALID_LIMIT", body["res_status"])
}

func TestCategoriesDetails_InvalidOffset(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/?offset=-1", nil)
	rec := httptest.NewRecorder()
	CategoriesDetails(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "INVALID_OFFSET", body["res_status"])
}

func TestCategoriesDetails_ListsActiveOnly(t *testing.T) {
	db := newCatalogTestDB(t)

	require.NoError(t, db.Create(&models.Category{
		Name: "Machines", CategoryCode: "MACHINES", IsActive: true, Level: 0,
	}).Error)
	require.NoError(t, db.Create(&models.Category{
		Name: "Hidden", CategoryCode: "HIDDEN", IsActive: false, Level: 0,
	}).Error)

	req := httptest.NewRequest("GET", "http://example.local/", nil)
	rec := httptest.NewRecorder()
	CategoriesDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "1", body["total_count"])

	details, ok := body["categories_details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)
	entry := details[0].(map[string]interface{})
	assert.Equal(t, "MACHINES", entry["category_code"])
	assert.Nil(t, entry["parent_category"])
}

func TestCategoryProductsDetails_MissingCode(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	rec := httptest.NewRecorder()
	CategoryProductsDetails(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "INVALID_CATEGORY_CODE", body["res_status"])
}

func TestCategoryProductsDetails_UnknownCategory(t *testing.T) {
	newCatalogTestDB(t)

	req := httptest.NewRequest("GET", "http://example.local/?category_code=NOPE", nil)
	rec := httptest.NewRecorder()
	CategoryProductsDetails(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CATEGORY_NOT_FOUND", body["res_status"])
}

func TestCategoryProductsDetails_AggregatesDescendants(t *testing.T) {
	db := newCatalogTestDB(t)

	root := models.Category{Name: "Machines", CategoryCode: "MACHINES", IsActive: true, Level: 0}
	require.NoError(t, db.Create(&root).Error)
	leaf := models.Category{Name: "Lathe", CategoryCode: "LATHE", IsActive: true, Level: 1, ParentCategoryID: &root.ID}
	require.NoError(t, db.Create(&leaf).Error)
	seller := models.Seller{Name: "Acme"}
	require.NoError(t, db.Create(&seller).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Heavy Lathe", ProductCode: "LATHE-PROD-AAAAAA",
		CategoryID: leaf.ID, SellerID: seller.ID, IsActive: true,
	}).Error)

	req := httptest.NewRequest("GET", "http://example.local/?category_code=MACHINES", nil)
	rec := httptest.NewRecorder()
	CategoryProductsDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "1", body["total_count"])
	details := body["products_details"].([]interface{})
	require.Len(t, details, 1)
	product := details[0].(map[string]interface{})
	assert.Equal(t, "LATHE-PROD-AAAAAA", product["product_code"])
}
