package sellerportal

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

type formConfigRequest struct {
	CategoryCode string               `json:"category_code" validate:"required"`
	Schema       []services.FormField `json:"schema" validate:"required,min=1"`
	IsActive     *bool                `json:"is_active"`
}

func serializeFormConfig(config *models.CategoryFormConfig, category *models.Category) map[string]interface{} {
	out := map[string]interface{}{
		"id":         config.ID,
		"is_active":  config.IsActive,
		"schema":     json.RawMessage(config.Schema),
		"created_at": config.CreatedAt,
		"updated_at": config.UpdatedAt,
	}
	if category != nil {
		out["category"] = map[string]interface{}{
			"name":          category.Name,
			"category_code": category.CategoryCode,
			"level":         category.Level,
		}
	}
	return out
}

func validateSchemaFields(fields []services.FormField) string {
	for _, f := range fields {
		if f.FieldName == "" || f.FieldLabel == "" || f.FieldType == "" {
			return "each schema entry needs field_name, field_label and field_type"
		}
	}
	return ""
}

// ListFormConfigs lists form configs, optionally filtered by
// ?category_code=.
func ListFormConfigs(w http.ResponseWriter, r *http.Request) {
	query := database.DB.Preload("Category").Model(&models.CategoryFormConfig{})

	if code := r.URL.Query().Get("category_code"); code != "" {
		sub := database.DB.Model(&models.Category{}).
			Select("id").
			Where("category_code = ?", code)
		query = query.Where("category_id IN (?)", sub)
	}

	var configs []models.CategoryFormConfig
	if err := query.Order("created_at DESC").Find(&configs).Error; err != nil {
		log.Printf("[seller-portal] form config list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load form configs", "ERROR")
		return
	}

	out := make([]map[string]interface{}, 0, len(configs))
	for i := range configs {
		out = append(out, serializeFormConfig(&configs[i], configs[i].Category))
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"form_configs": out,
	})
}

// CreateFormConfig creates the form config for a leaf category. One
// config per category.
func CreateFormConfig(w http.ResponseWriter, r *http.Request) {
	var req formConfigRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if msg := validateSchemaFields(req.Schema); msg != "" {
		utils.Error(w, http.StatusBadRequest, msg, "INVALID_DATA")
		return
	}

	var category models.Category
	err := database.DB.Where("category_code = ? AND is_active = ?", req.CategoryCode, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Could not create form config", "ERROR")
		return
	}

	leaf, err := services.IsLeafCategory(database.DB, category.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Could not create form config", "ERROR")
		return
	}
	if !leaf {
		utils.Error(w, http.StatusBadRequest, "Only leaf categories carry form configs", "NOT_LEAF_CATEGORY")
		return
	}

	raw, err := json.Marshal(req.Schema)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid schema", "INVALID_DATA")
		return
	}

	config := models.CategoryFormConfig{
		CategoryID: category.ID,
		IsActive:   true,
		Schema:     datatypes.JSON(raw),
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}
	if err := database.DB.Create(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(w, http.StatusBadRequest, "Form config already exists for this category", "INVALID_DATA")
			return
		}
		log.Printf("[seller-portal] form config create failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not create form config", "ERROR")
		return
	}

	utils.Success(w, http.StatusCreated, serializeFormConfig(&config, &category))
}

func findConfigByCategoryCode(code string) (*models.CategoryFormConfig, *models.Category, error) {
	var category models.Category
	err := database.DB.Where("category_code = ?", code).First(&category).Error
	if err != nil {
		return nil, nil, err
	}
	var config models.CategoryFormConfig
	err = database.DB.Where("category_id = ?", category.ID).First(&config).Error
	if err != nil {
		return nil, &category, err
	}
	return &config, &category, nil
}

// GetFormConfig returns the form config for a category code.
func GetFormConfig(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["category_code"]
	config, category, err := findConfigByCategoryCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if category == nil {
				utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			} else {
				utils.Error(w, http.StatusNotFound, "Form config not found", "FORM_CONFIG_NOT_FOUND")
			}
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Could not load form config", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, serializeFormConfig(config, category))
}

type updateFormConfigRequest struct {
	Schema   []services.FormField `json:"schema"`
	IsActive *bool                `json:"is_active"`
}

// UpdateFormConfig replaces the schema and/or active flag.
func UpdateFormConfig(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["category_code"]
	config, category, err := findConfigByCategoryCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if category == nil {
				utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			} else {
				utils.Error(w, http.StatusNotFound, "Form config not found", "FORM_CONFIG_NOT_FOUND")
			}
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Could not update form config", "ERROR")
		return
	}

	var req updateFormConfigRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	updates := map[string]interface{}{}
	if req.Schema != nil {
		if msg := validateSchemaFields(req.Schema); msg != "" {
			utils.Error(w, http.StatusBadRequest, msg, "INVALID_DATA")
			return
		}
		raw, merr := json.Marshal(req.Schema)
		if merr != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid schema", "INVALID_DATA")
			return
		}
		updates["schema"] = datatypes.JSON(raw)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.Error(w, http.StatusBadRequest, "Nothing to update", "INVALID_DATA")
		return
	}

	if err := database.DB.Model(config).Updates(updates).Error; err != nil {
		log.Printf("[seller-portal] form config update failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not update form config", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, serializeFormConfig(config, category))
}

// DeleteFormConfig removes a category's form config.
func DeleteFormConfig(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["category_code"]
	config, category, err := findConfigByCategoryCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if category == nil {
				utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			} else {
				utils.Error(w, http.StatusNotFound, "Form config not found", "FORM_CONFIG_NOT_FOUND")
			}
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Could not delete form config", "ERROR")
		return
	}

	if err := database.DB.Delete(config).Error; err != nil {
		log.Printf("[seller-portal] form config delete failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not delete form config", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Form config deleted",
	})
}
