package sellerportal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

func TestCreateFormConfig_InactiveIsStored(t *testing.T) {
	db := newPortalTestDB(t)
	require.NoError(t, db.Create(&models.Category{
		Name: "Lathe Machine", CategoryCode: "LATHE_MACHINE", IsActive: true, Level: 0,
	}).Error)

	payload := `{
		"category_code": "LATHE_MACHINE",
		"schema": [{"field_name": "brand", "field_label": "Brand", "field_type": "text", "is_required": true, "order": 1}],
		"is_active": false
	}`
	req := httptest.NewRequest("POST", "http://example.local/category-form-configs/", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CreateFormConfig(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var config models.CategoryFormConfig
	require.NoError(t, db.First(&config).Error)
	assert.False(t, config.IsActive, "is_active false in the request must be stored")

	// A disabled config is invisible to the seller form endpoint.
	formReq := httptest.NewRequest("GET", "http://example.local/form/LATHE_MACHINE/", nil)
	formRec := httptest.NewRecorder()
	formRouter().ServeHTTP(formRec, formReq)
	assert.Equal(t, http.StatusNotFound, formRec.Code)
	assert.Equal(t, "FORM_CONFIG_NOT_FOUND", portalBody(t, formRec)["res_status"])
}

func TestCreateFormConfig_DuplicateRejected(t *testing.T) {
	db := newPortalTestDB(t)
	require.NoError(t, db.Create(&models.Category{
		Name: "Lathe Machine", CategoryCode: "LATHE_MACHINE", IsActive: true, Level: 0,
	}).Error)

	payload := `{
		"category_code": "LATHE_MACHINE",
		"schema": [{"field_name": "brand", "field_label": "Brand", "field_type": "text", "is_required": true, "order": 1}]
	}`
	first := httptest.NewRequest("POST", "http://example.local/category-form-configs/", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CreateFormConfig(rec, first)
	require.Equal(t, http.StatusCreated, rec.Code)

	second := httptest.NewRequest("POST", "http://example.local/category-form-configs/", strings.NewReader(payload))
	rec = httptest.NewRecorder()
	CreateFormConfig(rec, second)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATA", portalBody(t, rec)["res_status"])
}
