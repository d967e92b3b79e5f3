package sellerportal

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// CategoryForm returns the dynamic form schema for a leaf category.
func CategoryForm(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["category_code"]

	category, config, err := services.GetFormConfig(database.DB, code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
		case errors.Is(err, services.ErrNotLeafCategory):
			utils.Error(w, http.StatusBadRequest, "Category is not a leaf category", "NOT_LEAF_CATEGORY")
		case errors.Is(err, services.ErrFormConfigNotFound):
			utils.Error(w, http.StatusNotFound, "Form config not found", "FORM_CONFIG_NOT_FOUND")
		default:
			log.Printf("[seller-portal] form lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Could not load form", "ERROR")
		}
		return
	}

	fields, err := services.DecodeSchema(config.Schema)
	if err != nil {
		log.Printf("[seller-portal] schema decode failed for category %s: %v", category.ID, err)
		utils.Error(w, http.StatusInternalServerError, "Could not load form", "ERROR")
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"category": map[string]interface{}{
			"name":          category.Name,
			"category_code": category.CategoryCode,
			"level":         category.Level,
		},
		"form_fields": fields,
	})
}
