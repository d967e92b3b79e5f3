package sellerportal

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/services"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// resolveSellerProfile loads the SellerProfile of the authenticated
// user. Writes the error envelope and returns nil when absent.
func resolveSellerProfile(w http.ResponseWriter, r *http.Request) *models.SellerProfile {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required", "UNAUTHORIZED")
		return nil
	}
	var profile models.SellerProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(w, http.StatusNotFound, "Seller profile not found", "SELLER_PROFILE_NOT_FOUND")
			return nil
		}
		log.Printf("[seller-portal] seller profile lookup failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not resolve seller", "ERROR")
		return nil
	}
	return &profile
}

func serializeSellerProduct(sp *models.SellerProduct) map[string]interface{} {
	out := map[string]interface{}{
		"id":               sp.ID,
		"status":           sp.Status,
		"rejection_reason": sp.RejectionReason,
		"extra_info":       sp.ExtraInfo,
		"created_at":       sp.CreatedAt,
		"updated_at":       sp.UpdatedAt,
	}
	if sp.Product != nil {
		p := sp.Product
		product := map[string]interface{}{
			"id":           p.ID,
			"name":         p.Name,
			"product_code": p.ProductCode,
			"description":  p.Description,
			"currency":     p.Currency,
			"availability": p.Availability,
			"tag":          p.Tag,
		}
		if p.Price.Valid {
			product["price"] = p.Price.Decimal.StringFixed(2)
		} else {
			product["price"] = nil
		}
		if p.Category != nil {
			product["category_code"] = p.Category.CategoryCode
			product["category_name"] = p.Category.Name
		}
		out["product"] = product
	}
	return out
}

func parseListPagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit = 20
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 100 {
			utils.Error(w, http.StatusBadRequest, "limit must be between 1 and 100", "INVALID_LIMIT")
			return 0, 0, false
		}
		limit = v
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			utils.Error(w, http.StatusBadRequest, "offset must be 0 or greater", "INVALID_OFFSET")
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}

// ListSellerProducts lists the seller's own listings with optional
// status and category filters.
func ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	profile := resolveSellerProfile(w, r)
	if profile == nil {
		return
	}
	limit, offset, ok := parseListPagination(w, r)
	if !ok {
		return
	}

	query := database.DB.Model(&models.SellerProduct{}).
		Where("seller_id = ?", profile.SellerID)

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := r.URL.Query().Get("category_code"); code != "" {
		var category models.Category
		err := database.DB.Where("category_code = ? AND is_active = ?", code, true).
			First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
			return
		}
		leafIDs, lerr := services.DescendantLeafCategoryIDs(database.DB, category.ID)
		if lerr != nil {
			utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
			return
		}
		sub := database.DB.Model(&models.Product{}).
			Select("id").
			Where("category_id IN ?", leafIDs)
		query = query.Where("product_id IN (?)", sub)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		log.Printf("[seller-portal] product count failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
		return
	}

	var listings []models.SellerProduct
	err := query.Preload("Product").Preload("Product.Category").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		log.Printf("[seller-portal] product list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load products", "ERROR")
		return
	}

	out := make([]map[string]interface{}, 0, len(listings))
	for i := range listings {
		out = append(out, serializeSellerProduct(&listings[i]))
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"products":    out,
		"total_count": strconv.FormatInt(total, 10),
	})
}

type createProductRequest struct {
	CategoryCode string                 `json:"category_code" validate:"required"`
	Name         string                 `json:"name" validate:"required,max=255"`
	Description  string                 `json:"description"`
	Price        string                 `json:"price"`
	Currency     string                 `json:"currency"`
	Tag          string                 `json:"tag"`
	Availability string                 `json:"availability"`
	State        string                 `json:"state"`
	District     string                 `json:"district"`
	Images       []string               `json:"images"`
	ExtraInfo    map[string]interface{} `json:"extra_info"`
}

// CreateSellerProduct runs the create-product transaction for the
// authenticated seller.
func CreateSellerProduct(w http.ResponseWriter, r *http.Request) {
	profile := resolveSellerProfile(w, r)
	if profile == nil {
		return
	}

	var req createProductRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var price decimal.NullDecimal
	if req.Price != "" {
		d, err := decimal.NewFromString(req.Price)
		if err != nil || d.IsNegative() {
			utils.Error(w, http.StatusBadRequest, "price must be a non-negative number", "INVALID_DATA")
			return
		}
		price = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	product, listing, err := services.CreateSellerProduct(database.DB, profile.SellerID, services.CreateProductInput{
		CategoryCode: req.CategoryCode,
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		Currency:     req.Currency,
		Tag:          req.Tag,
		Availability: req.Availability,
		State:        req.State,
		District:     req.District,
		Images:       req.Images,
		ExtraInfo:    req.ExtraInfo,
	})
	if err != nil {
		var verr *services.FormValidationError
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			utils.Error(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
		case errors.Is(err, services.ErrNotLeafCategory):
			utils.Error(w, http.StatusBadRequest, "Products can only be created under leaf categories", "NOT_LEAF_CATEGORY")
		case errors.As(err, &verr):
			utils.Error(w, http.StatusBadRequest, verr.Messages[0], "VALIDATION_ERROR")
		default:
			log.Printf("[seller-portal] product create failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Could not create product", "ERROR")
		}
		return
	}

	listing.Product = product
	utils.Success(w, http.StatusCreated, serializeSellerProduct(listing))
}

func findOwnListing(w http.ResponseWriter, sellerID, productID string) *models.SellerProduct {
	var listing models.SellerProduct
	err := database.DB.Preload("Product").Preload("Product.Category").
		Where("product_id = ? AND seller_id = ?", productID, sellerID).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND")
			return nil
		}
		log.Printf("[seller-portal] product lookup failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load product", "ERROR")
		return nil
	}
	return &listing
}

// GetSellerProduct returns one of the seller's own listings.
func GetSellerProduct(w http.ResponseWriter, r *http.Request) {
	profile := resolveSellerProfile(w, r)
	if profile == nil {
		return
	}
	listing := findOwnListing(w, profile.SellerID, mux.Vars(r)["product_id"])
	if listing == nil {
		return
	}
	utils.Success(w, http.StatusOK, serializeSellerProduct(listing))
}

// UpdateSellerProduct is not implemented yet; only draft and rejected
// listings would be editable.
func UpdateSellerProduct(w http.ResponseWriter, r *http.Request) {
	utils.Error(w, http.StatusNotImplemented, "Product update is not implemented", "NOT_IMPLEMENTED")
}

// DeleteSellerProduct removes a listing and its product rows in one
// transaction.
func DeleteSellerProduct(w http.ResponseWriter, r *http.Request) {
	profile := resolveSellerProfile(w, r)
	if profile == nil {
		return
	}
	listing := findOwnListing(w, profile.SellerID, mux.Vars(r)["product_id"])
	if listing == nil {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductSpecification{}, "product_id = ?", listing.ProductID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", listing.ProductID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SellerProduct{}, "id = ?", listing.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", listing.ProductID).Error
	})
	if err != nil {
		log.Printf("[seller-portal] product delete failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not delete product", "ERROR")
		return
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Product deleted",
	})
}
