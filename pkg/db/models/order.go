package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haroldnikoue/storefront-backend/pkg/enums"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// Order is an immutable snapshot created once at checkout. Only status and
// tracking fields may change afterwards.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string                 `gorm:"column:order_number;not null;index"`
	CustomerID      uuid.UUID              `gorm:"column:customer_id;type:uuid;not null"`
	Status          enums.OrderStatus      `gorm:"column:status;not null;default:'pending'"`
	CustomerEmail   string                 `gorm:"column:customer_email;not null"`
	CustomerName    string                 `gorm:"column:customer_name;not null"`
	CustomerPhone   *string                `gorm:"column:customer_phone"`
	ShippingMethod  string                 `gorm:"column:shipping_method;not null"`
	PaymentMethod   string                 `gorm:"column:payment_method;not null"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Subtotal        decimal.Decimal        `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal        `gorm:"column:shipping_cost;type:numeric(12,2);not null;default:0"`
	Total           decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	Notes           *string                `gorm:"column:notes"`
	TrackingNumber  *string                `gorm:"column:tracking_number"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
