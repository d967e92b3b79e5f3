package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

const productCodeAttempts = 5

var ErrProductCodeExhausted = errors.New("could not allocate a unique product code")

// FormValidationError carries the per-field messages produced by
// ValidateFormData.
type FormValidationError struct {
	Messages []string
}

func (e *FormValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// CreateProductInput is the typed payload for the create-product
// transaction. ExtraInfo holds the dynamic-form answers.
type CreateProductInput struct {
	CategoryCode string
	Name         string
	Description  string
	Price        decimal.NullDecimal
	Currency     string
	Tag          string
	Availability string
	State        string
	District     string
	Images       []string
	ExtraInfo    map[string]interface{}
}

// newProductCode is a seam so tests can force code collisions.
var newProductCode = GenerateProductCode

// GenerateProductCode builds "{CATEGORY_CODE}-PROD-{6 random A-Z0-9}".
func GenerateProductCode(categoryCode string) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	suffix := make([]byte, 6)
	for i := range b {
		suffix[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return fmt.Sprintf("%s-PROD-%s", strings.ToUpper(categoryCode), string(suffix)), nil
}

// DescendantLeafCategoryIDs walks the active subtree under rootID and
// returns the IDs of its leaf categories. A leaf root returns itself.
// The walk is iterative and bounded by the tree depth cap.
func DescendantLeafCategoryIDs(db *gorm.DB, rootID string) ([]string, error) {
	frontier := []string{rootID}
	var leaves []string
	for depth := 0; depth < models.MaxCategoryDepth && len(frontier) > 0; depth++ {
		var children []models.Category
		err := db.Where("parent_category_id IN ? AND is_active = ?", frontier, true).
			Find(&children).Error
		if err != nil {
			return nil, err
		}
		childrenByParent := make(map[string]bool, len(children))
		next := make([]string, 0, len(children))
		for _, c := range children {
			if c.ParentCategoryID != nil {
				childrenByParent[*c.ParentCategoryID] = true
			}
			next = append(next, c.ID)
		}
		for _, id := range frontier {
			if !childrenByParent[id] {
				leaves = append(leaves, id)
			}
		}
		frontier = next
	}
	leaves = append(leaves, frontier...)
	return leaves, nil
}

// getOrCreateLocation resolves a Location row for (state, district),
// creating it when absent. Either field may be empty.
func getOrCreateLocation(tx *gorm.DB, state, district string) (*models.Location, error) {
	var loc models.Location
	q := tx.Where("state = ?", state)
	if district == "" {
		q = q.Where("district IS NULL")
	} else {
		q = q.Where("district = ?", district)
	}
	err := q.First(&loc).Error
	if err == nil {
		return &loc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	loc = models.Location{State: state}
	if district != "" {
		loc.District = &district
	}
	if err := tx.Create(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// CreateSellerProduct runs the full listing transaction: leaf check,
// dynamic-form validation, product-code allocation with collision
// retry, location get-or-create, then the Product, its specifications,
// images and the listed SellerProduct row. Any failure rolls the whole
// thing back.
func CreateSellerProduct(db *gorm.DB, sellerID string, in CreateProductInput) (*models.Product, *models.SellerProduct, error) {
	var category models.Category
	err := db.Where("category_code = ? AND is_active = ?", in.CategoryCode, true).
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
		return nil, nil, ErrNotLeafCategory
	}

	var config models.CategoryFormConfig
	err = db.Where("category_id = ? AND is_active = ?", category.ID, true).
		First(&config).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if err == nil {
		fields, derr := DecodeSchema(config.Schema)
		if derr != nil {
			return nil, nil, derr
		}
		if msgs := ValidateFormData(fields, in.ExtraInfo); len(msgs) > 0 {
			return nil, nil, &FormValidationError{Messages: msgs}
		}
	}

	var product models.Product
	var listing models.SellerProduct

	err = db.Transaction(func(tx *gorm.DB) error {
		var location *models.Location
		if in.State != "" || in.District != "" {
			location, err = getOrCreateLocation(tx, in.State, in.District)
			if err != nil {
				return err
			}
		}

		product = models.Product{
			Name:         in.Name,
			Description:  ptrOrNil(in.Description),
			CategoryID:   category.ID,
			SellerID:     sellerID,
			Tag:          ptrOrNil(in.Tag),
			Price:        in.Price,
			Currency:     defaultString(in.Currency, "INR"),
			Availability: defaultString(in.Availability, models.AvailabilityInStock),
			IsActive:     true,
		}
		if location != nil {
			product.LocationID = &location.ID
		}

		created := false
		for attempt := 0; attempt < productCodeAttempts; attempt++ {
			code, cerr := newProductCode(category.CategoryCode)
			if cerr != nil {
				return cerr
			}
			product.ProductCode = code
			cerr = tx.Create(&product).Error
			if cerr == nil {
				created = true
				break
			}
			if errors.Is(cerr, gorm.ErrDuplicatedKey) {
				product.ID = ""
				continue
			}
			return cerr
		}
		if !created {
			return ErrProductCodeExhausted
		}

		for key, value := range in.ExtraInfo {
			str := stringifyValue(value)
			if str == "" {
				continue
			}
			spec := models.ProductSpecification{
				ProductID: product.ID,
				Key:       key,
				Value:     str,
			}
			if serr := tx.Create(&spec).Error; serr != nil {
				return serr
			}
		}

		for i, url := range in.Images {
			img := models.ProductImage{
				ProductID: product.ID,
				ImageURL:  url,
				Order:     i,
			}
			if ierr := tx.Create(&img).Error; ierr != nil {
				return ierr
			}
		}

		extra := datatypes.JSONMap{}
		for k, v := range in.ExtraInfo {
			extra[k] = v
		}
		listing = models.SellerProduct{
			ProductID: product.ID,
			SellerID:  sellerID,
			Status:    models.SellerProductStatusListed,
			ExtraInfo: extra,
		}
		return tx.Create(&listing).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &product, &listing, nil
}

func stringifyValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		d := decimal.NewFromFloat(t)
		return d.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
