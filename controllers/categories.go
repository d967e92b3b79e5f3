package controllers

import (
	"log"
	"net/http"
	"strconv"

	"gorm.io/gorm/clause"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// CategoriesDetails lists active categories ordered by (level, order,
// name). Authenticated callers additionally get recommended products
// for their recently-viewed categories.
func CategoriesDetails(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var total int64
	if err := database.DB.Model(&models.Category{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		log.Printf("[catalog] category count failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}

	var categories []models.Category
	err := database.DB.Preload("ParentCategory").
		Where("is_active = ?", true).
		Order("level ASC").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&categories).Error
	if err != nil {
		log.Printf("[catalog] category list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}

	details := make([]map[string]interface{}, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		entry := categorySummary(c)
		if c.ParentCategory != nil {
			entry["parent_category"] = map[string]interface{}{
				"name":          c.ParentCategory.Name,
				"category_code": c.ParentCategory.CategoryCode,
			}
		} else {
			entry["parent_category"] = nil
		}
		details = append(details, entry)
	}

	resp := map[string]interface{}{
		"categories_details": details,
		"total_count":        strconv.FormatInt(total, 10),
	}

	if userID, authed := middleware.GetUserID(r); authed {
		recs, rerr := services.RecommendedProducts(database.DB, userID)
		if rerr != nil {
			log.Printf("[catalog] recommendations failed for user %s: %v", userID, rerr)
		} else {
			recommended := make([]map[string]interface{}, 0, len(recs))
			for i := range recs {
				products := make([]map[string]interface{}, 0, len(recs[i].Products))
				for j := range recs[i].Products {
					products = append(products, productSummary(&recs[i].Products[j]))
				}
				recommended = append(recommended, map[string]interface{}{
					"category_name": recs[i].Category.Name,
					"category_code": recs[i].Category.CategoryCode,
					"products":      products,
				})
			}
			resp["recommended_products"] = recommended
		}
	}

	utils.Success(w, http.StatusOK, resp)
}
