package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haroldnikoue/storefront-backend/internal/cart"
	"github.com/haroldnikoue/storefront-backend/internal/customers"
	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// CreateOrderInput materializes one priced cart into an order. The cart view
// arrives pre-priced from the cart aggregator; this package never re-prices.
type CreateOrderInput struct {
	Customer        customers.CustomerInfo
	ShippingMethod  string
	PaymentMethod   string
	ShippingAddress *types.ShippingAddress
	Notes           *string
	Cart            *cart.CartView
	ShippingCost    decimal.Decimal
	CreateProfile   bool
	SaveAddress     bool
}

// OrderView is the response shape, assembled in memory at creation time and
// rebuilt purely from frozen snapshots on reads.
type OrderView struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	Status          enums.OrderStatus      `json:"status"`
	CustomerID      uuid.UUID              `json:"customer_id"`
	CustomerEmail   string                 `json:"customer_email"`
	CustomerName    string                 `json:"customer_name"`
	ShippingMethod  string                 `json:"shipping_method"`
	PaymentMethod   string                 `json:"payment_method"`
	ShippingAddress *types.ShippingAddress `json:"shipping_address,omitempty"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingCost    decimal.Decimal        `json:"shipping_cost"`
	Total           decimal.Decimal        `json:"total"`
	Notes           *string                `json:"notes,omitempty"`
	Items           []OrderItemView        `json:"items"`
	CreatedAt       time.Time              `json:"created_at"`
}

// OrderItemView renders one frozen line item.
type OrderItemView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName string          `json:"product_name"`
	SKU         *string         `json:"sku,omitempty"`
	VariantName *string         `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func newOrderView(order *models.Order, items []models.OrderItem) *OrderView {
	view := &OrderView{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		CustomerID:      order.CustomerID,
		CustomerEmail:   order.CustomerEmail,
		CustomerName:    order.CustomerName,
		ShippingMethod:  order.ShippingMethod,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Total:           order.Total,
		Notes:           order.Notes,
		Items:           make([]OrderItemView, 0, len(items)),
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range items {
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return view
}
