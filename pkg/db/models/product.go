package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Prices are nullable on purpose:
// the pricing waterfall decides which source wins at read time.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandID     *uuid.UUID          `gorm:"column:brand_id;type:uuid"`
	Brand       *Brand              `gorm:"foreignKey:BrandID"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Name        string              `gorm:"column:name;not null"`
	SKU         string              `gorm:"column:sku;not null"`
	Description *string             `gorm:"column:description"`
	BasePrice   decimal.NullDecimal `gorm:"column:base_price;type:numeric(12,2)"`
	SalePrice   decimal.NullDecimal `gorm:"column:sale_price;type:numeric(12,2)"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	Images      []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
