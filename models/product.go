package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AvailabilityInStock      = "In Stock"
	AvailabilityOutOfStock   = "Out of Stock"
	AvailabilityLimitedStock = "Limited Stock"
)

type Product struct {
	ID           string              `gorm:"primaryKey;type:char(36)" json:"id"`
	Name         string              `gorm:"size:255;not null" json:"name"`
	ProductCode  string              `gorm:"size:50;uniqueIndex;not null" json:"product_code"`
	Description  *string             `gorm:"type:text" json:"description"`
	CategoryID   string              `gorm:"type:char(36);index:idx_products_category_active" json:"category_id"`
	SellerID     string              `gorm:"type:char(36);index" json:"seller_id"`
	LocationID   *string             `gorm:"type:char(36);index" json:"location_id"`
	Tag          *string             `gorm:"size:100" json:"tag"`
	Price        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price"`
	Currency     string              `gorm:"size:10;default:'INR'" json:"currency"`
	Availability string              `gorm:"size:50;default:'In Stock'" json:"availability"`
	IsActive     bool                `gorm:"index:idx_products_category_active" json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Category       *Category              `gorm:"foreignKey:CategoryID" json:"-"`
	Seller         *Seller                `gorm:"foreignKey:SellerID" json:"-"`
	Location       *Location              `gorm:"foreignKey:LocationID" json:"-"`
	Images         []ProductImage         `gorm:"foreignKey:ProductID" json:"-"`
	Specifications []ProductSpecification `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ProductImage struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ProductID string    `gorm:"type:char(36);index:idx_product_images_product_order" json:"product_id"`
	ImageURL  string    `gorm:"size:500;not null" json:"image_url"`
	Order     int       `gorm:"column:order;default:0;index:idx_product_images_product_order" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

func (p *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ProductSpecification struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ProductID string    `gorm:"type:char(36);uniqueIndex:idx_product_specs_product_key" json:"product_id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_product_specs_product_key" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductSpecification) TableName() string {
	return "product_specifications"
}

func (p *ProductSpecification) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
