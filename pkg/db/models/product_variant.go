package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant belongs to exactly one product and carries its own pricing.
type ProductVariant struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	SKU          *string              `gorm:"column:sku"`
	Name         string               `gorm:"column:name;not null"`
	Price        decimal.Decimal      `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice    decimal.NullDecimal  `gorm:"column:sale_price;type:numeric(12,2)"`
	Stock        int                  `gorm:"column:stock;not null;default:0"`
	OptionValues []VariantOptionValue `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
