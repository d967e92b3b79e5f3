package sellerportal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
)

func newPortalTestDB(t *testing.T) *gorm.DB {
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

func formRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/form/{category_code}/", CategoryForm).Methods(http.MethodGet)
	return r
}

func portalBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func seedLeafForm(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	leaf := &models.Category{Name: "Lathe Machine", CategoryCode: "LATHE_MACHINE", IsActive: true, Level: 0}
	require.NoError(t, db.Create(leaf).Error)

	raw, err := json.Marshal([]services.FormField{
		{FieldName: "brand", FieldLabel: "Brand", FieldType: "text", IsRequired: true, Order: 1},
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CategoryFormConfig{
		CategoryID: leaf.ID,
		IsActive:   true,
		Schema:     datatypes.JSON(raw),
	}).Error)
	return leaf
}

func TestCategoryForm_UnknownCategory(t *testing.T) {
	newPortalTestDB(t)

	req := httptest.NewRequest("GET", "http://example.local/form/NOPE/", nil)
	rec := httptest.NewRecorder()
	formRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", portalBody(t, rec)["res_status"])
}

func TestCategoryForm_NotLeaf(t *testing.T) {
	db := newPortalTestDB(t)
	root := &models.Category{Name: "Machines", CategoryCode: "MACHINES", IsActive: true, Level: 0}
	require.NoError(t, db.Create(root).Error)
	require.NoError(t, db.Create(&models.Category{
		Name: "Lathe", CategoryCode: "LATHE", IsActive: true, Level: 1, ParentCategoryID: &root.ID,
	}).Error)

	req := httptest.NewRequest("GET", "http://example.local/form/MACHINES/", nil)
	rec := httptest.NewRecorder()
	formRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NOT_LEAF_CATEGORY", portalBody(t, rec)["res_status"])
}

func TestCategoryForm_MissingConfig(t *testing.T) {
	db := newPortalTestDB(t)
	require.NoError(t, db.Create(&models.Category{
		Name: "Lathe", CategoryCode: "LATHE", IsActive: true, Level: 0,
	}).Error)

	req := httptest.NewRequest("GET", "http://example.local/form/LATHE/", nil)
	rec := httptest.NewRecorder()
	formRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FORM_CONFIG_NOT_FOUND", portalBody(t, rec)["res_status"])
}

func TestCategoryForm_ReturnsSchema(t *testing.T) {
	db := newPortalTestDB(t)
	seedLeafForm(t, db)

	req := httptest.NewRequest("GET", "http://example.local/form/LATHE_MACHINE/", nil)
	rec := httptest.NewRecorder()
	formRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := portalBody(t, rec)

	category := body["category"].(map[string]interface{})
	assert.Equal(t, "LATHE_MACHINE", category["category_code"])

	fields := body["form_fields"].([]interface{})
	require.Len(t, fields, 1)
	field := fields[0].(map[string]interface{})
	assert.Equal(t, "brand", field["field_name"])
	assert.Equal(t, "Brand", field["field_label"])
	assert.Equal(t, true, field["is_required"])
}
