package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// CategoryProductsDetails lists the active products under a category.
// Non-leaf categories aggregate the products of all descendant leaves.
// Authenticated calls are tracked for recommendations.
func CategoryProductsDetails(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("category_code")
	if code == "" {
		utils.Error(w, http.StatusBadRequest, "category_code is required", "INVALID_CATEGORY_CODE")
		return
	}
	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var category models.Category
	err := database.DB.Where("category_code = ? AND is_active = ?", code, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		log.Printf("[catalog] category lookup failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load category", "ERROR")
		return
	}

	if userID, authed := middleware.GetUserID(r); authed {
		if terr := services.TrackCategoryView(database.DB, userID, category.ID); terr != nil {
			log.Printf("[catalog] view tracking failed for user %s: %v", userID, terr)
		}
	}

	leafIDs, err := services.DescendantLeafCategoryIDs(database.DB, category.ID)
	if err != nil {
		log.Printf("[catalog] leaf expansion failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
		return
	}

	base := database.DB.Model(&models.Product{}).
		Where("category_id IN ? AND is_active = ?", leafIDs, true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		log.Printf("[catalog] product count failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
		return
	}

	var products []models.Product
	err = database.DB.Preload("Images").Preload("Location").
		Where("category_id IN ? AND is_active = ?", leafIDs, true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		log.Printf("[catalog] product list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
		return
	}

	details := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		details = append(details, productSummary(&products[i]))
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"category":         categorySummary(&category),
		"products_details": details,
		"total_count":      strconv.FormatInt(total, 10),
	})
}
