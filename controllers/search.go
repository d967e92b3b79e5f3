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

type searchRequest struct {
	CategoryCode   string   `json:"category_code"`
	Search         string   `json:"search"`
	MinPrice       *float64 `json:"min_price"`
	MaxPrice       *float64 `json:"max_price"`
	Condition      []string `json:"condition"`
	YearFrom       *int     `json:"year_from"`
	YearTo         *int     `json:"year_to"`
	State          string   `json:"state"`
	District       string   `json:"district"`
	LocationSearch string   `json:"location_search"`
	Sort           string   `json:"sort"`
	Limit          int      `json:"limit"`
	Offset         int      `json:"offset"`
}

// ProductListingsSearch filters active products by category subtree,
// text, price range, condition/year specifications and location.
func ProductListingsSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	if req.Limit < 1 || req.Limit > maxLimit {
		utils.Error(w, http.StatusBadRequest, "limit must be between 1 and 100", "INVALID_LIMIT")
		return
	}
	if req.Offset < 0 {
		utils.Error(w, http.StatusBadRequest, "offset must be 0 or greater", "INVALID_OFFSET")
		return
	}

	var category *models.Category
	if req.CategoryCode != "" {
		var cat models.Category
		err := database.DB.Where("category_code = ? AND is_active = ?", req.CategoryCode, true).
			First(&cat).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
				return
			}
			log.Printf("[search] category lookup failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Search failed", "ERROR")
			return
		}
		category = &cat

		if userID, authed := middleware.GetUserID(r); authed {
			if terr := services.TrackCategoryView(database.DB, userID, cat.ID); terr != nil {
				log.Printf("[search] view tracking failed for user %s: %v", userID, terr)
			}
		}
	}

	query := database.DB.Model(&models.Product{}).Where("products.is_active = ?", true)

	if category != nil {
		leafIDs, err := services.DescendantLeafCategoryIDs(database.DB, category.ID)
		if err != nil {
			log.Printf("[search] leaf expansion failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Search failed", "ERROR")
			return
		}
		query = query.Where("category_id IN ?", leafIDs)
	}

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if req.MinPrice != nil {
		query = query.Where("price >= ?", *req.MinPrice)
	}
	if req.MaxPrice != nil {
		query = query.Where("price <= ?", *req.MaxPrice)
	}

	if len(req.Condition) > 0 {
		sub := database.DB.Model(&models.ProductSpecification{}).
			Select("product_id").
			Where("`key` = ? AND value IN ?", "condition", req.Condition)
		query = query.Where("id IN (?)", sub)
	}
	// Year values are stored as 4-digit strings, so lexical comparison
	// matches numeric order.
	if req.YearFrom != nil || req.YearTo != nil {
		sub := database.DB.Model(&models.ProductSpecification{}).
			Select("product_id").
			Where("`key` = ?", "year")
		if req.YearFrom != nil {
			sub = sub.Where("value >= ?", strconv.Itoa(*req.YearFrom))
		}
		if req.YearTo != nil {
			sub = sub.Where("value <= ?", strconv.Itoa(*req.YearTo))
		}
		query = query.Where("id IN (?)", sub)
	}

	if req.State != "" || req.District != "" || req.LocationSearch != "" {
		sub := database.DB.Model(&models.Location{}).Select("id")
		if req.State != "" {
			sub = sub.Where("state = ?", req.State)
		}
		if req.District != "" {
			sub = sub.Where("district = ?", req.District)
		}
		if req.LocationSearch != "" {
			like := "%" + req.LocationSearch + "%"
			sub = sub.Where("state LIKE ? OR district LIKE ?", like, like)
		}
		query = query.Where("location_id IN (?)", sub)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		log.Printf("[search] count failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Search failed", "ERROR")
		return
	}

	switch req.Sort {
	case "", "newest_first":
		query = query.Order("created_at DESC")
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		utils.Error(w, http.StatusBadRequest, "sort must be one of newest_first, price_asc, price_desc", "INVALID_DATA")
		return
	}

	var products []models.Product
	err := query.Preload("Images").Preload("Location").
		Limit(req.Limit).
		Offset(req.Offset).
		Find(&products).Error
	if err != nil {
		log.Printf("[search] query failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Search failed", "ERROR")
		return
	}

	details := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		details = append(details, productSummary(&products[i]))
	}

	resp := map[string]interface{}{
		"products_details": details,
		"total_count":      strconv.FormatInt(total, 10),
	}
	if category != nil {
		crumbs, berr := categoryBreadcrumbs(database.DB, category)
		if berr != nil {
			log.Printf("[search] breadcrumb walk failed: %v", berr)
		} else {
			resp["breadcrumbs"] = crumbs
		}
	}

	utils.Success(w, http.StatusOK, resp)
}
