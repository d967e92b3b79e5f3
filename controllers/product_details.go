package controllers

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/database"
	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// ProductDetails returns the full detail for one product: seller,
// location, ordered images, the specification map and the category
// breadcrumb chain.
func ProductDetails(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["product_code"]

	var product models.Product
	err := database.DB.Preload("Category").Preload("Seller").Preload("Location").
		Preload("Images").Preload("Specifications").
		Where("product_code = ? AND is_active = ?", code, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND")
			return
		}
		log.Printf("[catalog] product lookup failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Could not load product", "ERROR")
		return
	}

	specs := make(map[string]string, len(product.Specifications))
	for _, s := range product.Specifications {
		specs[s.Key] = s.Value
	}

	sort.Slice(product.Images, func(i, j int) bool {
		return product.Images[i].Order < product.Images[j].Order
	})
	images := make([]map[string]interface{}, 0, len(product.Images))
	for _, img := range product.Images {
		images = append(images, map[string]interface{}{
			"image_url": img.ImageURL,
			"order":     img.Order,
		})
	}

	detail := map[string]interface{}{
		"id":             product.ID,
		"name":           product.Name,
		"product_code":   product.ProductCode,
		"description":    product.Description,
		"price":          priceString(&product),
		"currency":       product.Currency,
		"availability":   product.Availability,
		"tag":            product.Tag,
		"images":         images,
		"specifications": specs,
		"created_at":     product.CreatedAt,
	}
	if product.Seller != nil {
		detail["seller"] = map[string]interface{}{
			"id":   product.Seller.ID,
			"name": product.Seller.Name,
		}
	}
	if product.Location != nil {
		detail["location"] = map[string]interface{}{
			"state":    product.Location.State,
			"district": product.Location.District,
		}
	}
	if product.Category != nil {
		crumbs, berr := categoryBreadcrumbs(database.DB, product.Category)
		if berr != nil {
			log.Printf("[catalog] breadcrumb walk failed: %v", berr)
		} else {
			detail["breadcrumbs"] = crumbs
		}
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"product_details": detail,
	})
}
