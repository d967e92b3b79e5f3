package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrFormConfigNotFound = errors.New("form config not found")
	ErrNotLeafCategory    = errors.New("category is not a leaf")
)

// FieldOption is one choice of a dropdown/radio form field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField is one entry of a category's dynamic form schema.
type FormField struct {
	FieldName  string        `json:"field_name"`
	FieldLabel string        `json:"field_label"`
	FieldType  string        `json:"field_type"`
	IsRequired bool          `json:"is_required"`
	Order      int           `json:"order"`
	Options    []FieldOption `json:"options,omitempty"`
}

// DecodeSchema parses the stored JSON schema into ordered fields.
func DecodeSchema(raw datatypes.JSON) ([]FormField, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var fields []FormField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode form schema: %w", err)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
	return fields, nil
}

// IsLeafCategory reports whether the category has no active children.
func IsLeafCategory(db *gorm.DB, categoryID string) (bool, error) {
	var count int64
	err := db.Model(&models.Category{}).
		Where("parent_category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// GetFormConfig resolves the active form config for a leaf category
// identified by code. Returns ErrCategoryNotFound, ErrNotLeafCategory
// or ErrFormConfigNotFound as appropriate.
func GetFormConfig(db *gorm.DB, categoryCode string) (*models.Category, *models.CategoryFormConfig, error) {
	var category models.Category
	err := db.Where("category_code = ? AND is_active = ?", categoryCode, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, err
	}

	leaf, err := IsLeafCategory(db, category.ID)
	if err != nil {
		return nil, nil, err
	}
	if !leaf {
		return &category, nil, ErrNotLeafCategory
	}

	var config models.CategoryFormConfig
	err = db.Where("category_id = ? AND is_active = ?", category.ID, true).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &category, nil, ErrFormConfigNotFound
		}
		return &category, nil, err
	}
	return &category, &config, nil
}

// ValidateFormData checks submitted values against the schema. Every
// required field must carry a non-empty value; the returned messages
// name the field label ("Brand is required").
func ValidateFormData(fields []FormField, data map[string]interface{}) []string {
	var errs []string
	for _, f := range fields {
		if !f.IsRequired {
			continue
		}
		v, ok := data[f.FieldName]
		if !ok || isEmptyValue(v) {
			errs = append(errs, fmt.Sprintf("%s is required", f.FieldLabel))
		}
	}
	return errs
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}
