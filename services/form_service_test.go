package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

func latheSchema(t *testing.T) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal([]FormField{
		{FieldName: "brand", FieldLabel: "Brand", FieldType: "text", IsRequired: true, Order: 1},
		{FieldName: "year", FieldLabel: "Year of Manufacture", FieldType: "number", IsRequired: false, Order: 2},
		{FieldName: "condition", FieldLabel: "Condition", FieldType: "dropdown", IsRequired: true, Order: 3,
			Options: []FieldOption{{Value: "new", Label: "New"}, {Value: "used", Label: "Used"}}},
	})
	require.NoError(t, err)
	return raw
}

func TestDecodeSchema_SortsByOrder(t *testing.T) {
	raw, err := json.Marshal([]FormField{
		{FieldName: "b", FieldLabel: "B", FieldType: "text", Order: 2},
		{FieldName: "a", FieldLabel: "A", FieldType: "text", Order: 1},
	})
	require.NoError(t, err)

	fields, err := DecodeSchema(raw)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].FieldName)
	assert.Equal(t, "b", fields[1].FieldName)
}

func TestDecodeSchema_EmptyIsNil(t *testing.T) {
	fields, err := DecodeSchema(nil)
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestValidateFormData_MissingRequiredNamesLabel(t *testing.T) {
	fields, err := DecodeSchema(latheSchema(t))
	require.NoError(t, err)

	errs := ValidateFormData(fields, map[string]interface{}{})
	require.Len(t, errs, 2)
	assert.Contains(t, errs, "Brand is required")
	assert.Contains(t, errs, "Condition is required")
}

func TestValidateFormData_EmptyValuesAreMissing(t *testing.T) {
	fields := []FormField{
		{FieldName: "brand", FieldLabel: "Brand", FieldType: "text", IsRequired: true},
	}

	for name, value := range map[string]interface{}{
		"empty string": "",
		"nil":          nil,
		"empty array":  []interface{}{},
	} {
		errs := ValidateFormData(fields, map[string]interface{}{"brand": value})
		assert.Equal(t, []string{"Brand is required"}, errs, "case %s", name)
	}
}

func TestValidateFormData_OptionalAndFilledPass(t *testing.T) {
	fields, err := DecodeSchema(latheSchema(t))
	require.NoError(t, err)

	errs := ValidateFormData(fields, map[string]interface{}{
		"brand":     "HMT",
		"condition": "used",
	})
	assert.Empty(t, errs)
}

func TestInactiveFlagsPersistOnCreate(t *testing.T) {
	db := newTestDB(t)

	category := models.Category{Name: "Hidden", CategoryCode: "HIDDEN", IsActive: false}
	require.NoError(t, db.Create(&category).Error)
	var gotCategory models.Category
	require.NoError(t, db.First(&gotCategory, "id = ?", category.ID).Error)
	assert.False(t, gotCategory.IsActive, "a category created inactive must stay inactive")

	config := models.CategoryFormConfig{CategoryID: category.ID, IsActive: false, Schema: latheSchema(t)}
	require.NoError(t, db.Create(&config).Error)
	var gotConfig models.CategoryFormConfig
	require.NoError(t, db.First(&gotConfig, "id = ?", config.ID).Error)
	assert.False(t, gotConfig.IsActive, "a form config created inactive must stay inactive")
}

func TestGetFormConfig_CategoryNotFound(t *testing.T) {
	db := newTestDB(t)
	_, _, err := GetFormConfig(db, "NOPE")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetFormConfig_NotLeaf(t *testing.T) {
	db := newTestDB(t)
	root := seedCategory(t, db, "Machines", "MACHINES", 0, nil)
	seedCategory(t, db, "Lathe Machine", "LATHE_MACHINE", 1, root)

	_, _, err := GetFormConfig(db, "MACHINES")
	assert.ErrorIs(t, err, ErrNotLeafCategory)
}

func TestGetFormConfig_InactiveChildrenStillLeaf(t *testing.T) {
	db := newTestDB(t)
	root := seedCategory(t, db, "Machines", "MACHINES", 0, nil)
	child := seedCategory(t, db, "Lathe Machine", "LATHE_MACHINE", 1, root)
	require.NoError(t, db.Model(child).Update("is_active", false).Error)

	_, _, err := GetFormConfig(db, "MACHINES")
	assert.ErrorIs(t, err, ErrFormConfigNotFound, "inactive children must not block leaf classification")
}

func TestGetFormConfig_MissingConfig(t *testing.T) {
	db := newTestDB(t)
	seedCategory(t, db, "Lathe Machine", "LATHE_MACHINE", 0, nil)

	_, _, err := GetFormConfig(db, "LATHE_MACHINE")
	assert.ErrorIs(t, err, ErrFormConfigNotFound)
}

func TestGetFormConfig_Success(t *testing.T) {
	db := newTestDB(t)
	leaf := seedCategory(t, db, "Lathe Machine", "LATHE_MACHINE", 0, nil)
	require.NoError(t, db.Create(&models.CategoryFormConfig{
		CategoryID: leaf.ID,
		IsActive:   true,
		Schema:     latheSchema(t),
	}).Error)

	category, config, err := GetFormConfig(db, "LATHE_MACHINE")
	require.NoError(t, err)
	assert.Equal(t, leaf.ID, category.ID)

	fields, err := DecodeSchema(config.Schema)
	require.NoError(t, err)
	assert.Len(t, fields, 3)
}
