package controllers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// parsePagination validates ?limit= and ?offset=. Writes the error
// envelope and returns ok=false on invalid input.
func parsePagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit = defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxLimit {
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

func priceString(p *models.Product) interface{} {
	if !p.Price.Valid {
		return nil
	}
	return p.Price.Decimal.StringFixed(2)
}

func firstImageURL(p *models.Product) interface{} {
	if len(p.Images) == 0 {
		return nil
	}
	first := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.Order < first.Order {
			first = img
		}
	}
	return first.ImageURL
}

// productSummary is the list-view shape used by catalog and search
// responses.
func productSummary(p *models.Product) map[string]interface{} {
	out := map[string]interface{}{
		"id":           p.ID,
		"name":         p.Name,
		"product_code": p.ProductCode,
		"description":  p.Description,
		"price":        priceString(p),
		"currency":     p.Currency,
		"availability": p.Availability,
		"tag":          p.Tag,
		"image_url":    firstImageURL(p),
		"created_at":   p.CreatedAt,
	}
	if p.Location != nil {
		out["location"] = map[string]interface{}{
			"state":    p.Location.State,
			"district": p.Location.District,
		}
	}
	return out
}

func categorySummary(c *models.Category) map[string]interface{} {
	return map[string]interface{}{
		"id":            c.ID,
		"name":          c.Name,
		"category_code": c.CategoryCode,
		"description":   c.Description,
		"order":         c.Order,
		"image_url":     c.ImageURL,
		"level":         c.Level,
	}
}

// categoryBreadcrumbs walks parent pointers up to the root and returns
// the chain root-first. The walk is bounded by the tree depth cap.
func categoryBreadcrumbs(db *gorm.DB, category *models.Category) ([]map[string]interface{}, error) {
	chain := []*models.Category{category}
	current := category
	for i := 0; i < models.MaxCategoryDepth && current.ParentCategoryID != nil; i++ {
		var parent models.Category
		if err := db.Where("id = ?", *current.ParentCategoryID).First(&parent).Error; err != nil {
			return nil, err
		}
		chain = append(chain, &parent)
		current = &parent
	}

	crumbs := make([]map[string]interface{}, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		crumbs = append(crumbs, map[string]interface{}{
			"name":          chain[i].Name,
			"category_code": chain[i].CategoryCode,
			"level":         chain[i].Level,
		})
	}
	return crumbs, nil
}
