package sellerportal

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// categoryNode is one entry of the seller drill-down tree.
func categoryNode(db *gorm.DB, c *models.Category) (map[string]interface{}, error) {
	isLeaf := false
	// Depth is capped, so the deepest level always terminates the walk.
	if c.Level >= models.MaxCategoryDepth-1 {
		isLeaf = true
	} else {
		leaf, err := services.IsLeafCategory(db, c.ID)
		if err != nil {
			return nil, err
		}
		isLeaf = leaf
	}
	return map[string]interface{}{
		"id":            c.ID,
		"name":          c.Name,
		"category_code": c.CategoryCode,
		"description":   c.Description,
		"image_url":     c.ImageURL,
		"order":         c.Order,
		"level":         c.Level,
		"is_leaf":       isLeaf,
	}, nil
}

func serializeNodes(db *gorm.DB, categories []models.Category) ([]map[string]interface{}, error) {
	nodes := make([]map[string]interface{}, 0, len(categories))
	for i := range categories {
		node, err := categoryNode(db, &categories[i])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// RootCategories lists the active level-0 categories for the seller
// drill-down, ordered by (order, name).
func RootCategories(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	err := database.DB.Where("level = ? AND parent_category_id IS NULL AND is_active = ?", 0, true).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		log.Printf("[seller-portal] root categories failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}

	nodes, err := serializeNodes(database.DB, categories)
	if err != nil {
		log.Printf("[seller-portal] leaf classification failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"categories": nodes,
	})
}

// ChildCategories lists the active direct children of a category,
// ordered by (order, name).
func ChildCategories(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["category_code"]

	var parent models.Category
	err := database.DB.Where("category_code = ? AND is_active = ?", code, true).
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		log.Printf("[seller-portal] category lookup failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}

	var children []models.Category
	err = database.DB.Where("parent_category_id = ? AND is_active = ?", parent.ID, true).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("name ASC").
		Find(&children).Error
	if err != nil {
		log.Printf("[seller-portal] child categories failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}

	nodes, err := serializeNodes(database.DB, children)
	if err != nil {
		log.Printf("[seller-portal] leaf classification failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"parent": map[string]interface{}{
			"name":          parent.Name,
			"category_code": parent.CategoryCode,
			"level":         parent.Level,
		},
		"categories": nodes,
	})
}

// CategoriesWithForms lists categories that have an active form config.
func CategoriesWithForms(w http.ResponseWriter, r *http.Request) {
	sub := database.DB.Model(&models.CategoryFormConfig{}).
		Select("category_id").
		Where("is_active = ?", true)

	var categories []models.Category
	err := database.DB.Where("id IN (?) AND is_active = ?", sub, true).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		log.Printf("[seller-portal] categories with forms failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}

	nodes, err := serializeNodes(database.DB, categories)
	if err != nil {
		log.Printf("[seller-portal] leaf classification failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load categories", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"categories": nodes,
	})
}
