package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// CartItem is owned exclusively by its cart. Price is the decimal text
// snapshot taken at add time; the live waterfall price wins over it whenever
// the catalog still resolves.
type CartItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID     uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID  *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Quantity   int             `gorm:"column:quantity;not null"`
	Price      string          `gorm:"column:price;not null;default:'0'"`
	Attributes types.DraftData `gorm:"column:attributes;type:jsonb;serializer:json"`
	Product    *Product        `gorm:"foreignKey:ProductID"`
	Variant    *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
