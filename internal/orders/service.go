// Package orders materializes priced carts into immutable order records.
// Line items are frozen copies of catalog state at purchase time; nothing in
// an order ever dereferences a live product row after creation.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/internal/cart"
	"github.com/haroldnikoue/storefront-backend/internal/customers"
	"github.com/haroldnikoue/storefront-backend/internal/notifications"
	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
)

// transactor is the transaction surface the service needs. *db.Client
// satisfies it.
type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// notifier receives post-commit order events. *notifications.Dispatcher
// satisfies it.
type notifier interface {
	OrderCreated(ctx context.Context, event notifications.OrderCreatedEvent)
}

// Service exposes order materialization and snapshot reads.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderView, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderView, error)
}

type service struct {
	repo      Repository
	customers customers.Service
	tx        transactor
	notify    notifier
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the order service. The notifier is optional.
func NewService(repo Repository, customerSvc customers.Service, tx transactor, notify notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if customerSvc == nil {
		return nil, fmt.Errorf("customers service is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor is required")
	}
	return &service{
		repo:      repo,
		customers: customerSvc,
		tx:        tx,
		notify:    notify,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// CreateOrder runs the materialization pipeline: upsert the customer by
// email, best-effort address bookkeeping, freeze the cart lines, then write
// order plus items in one transaction. The customer upsert deliberately sits
// outside that transaction; a crash in between leaves an orphaned customer
// row, which the upsert-by-email makes idempotent on retry.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderView, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	customer, err := s.customers.UpsertByEmail(ctx, input.Customer, input.CreateProfile)
	if err != nil {
		return nil, err
	}

	if input.SaveAddress && input.ShippingAddress != nil {
		s.customers.EnsureDefaultAddress(ctx, customer, *input.ShippingAddress)
	}

	order := s.buildOrder(customer, input)
	items := snapshotItems(input.Cart.Items)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("inserting order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "materializing order")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"total":        order.Total.String(),
		}), "order created")
	}

	if s.notify != nil {
		go s.notify.OrderCreated(ctx, notifications.OrderCreatedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerID:    customer.ID,
			CustomerEmail: order.CustomerEmail,
			Total:         order.Total,
			ItemCount:     input.Cart.ItemCount,
			CreatedAt:     order.CreatedAt,
		})
	}

	// The caller already holds every field; assemble the response without
	// a re-read.
	return newOrderView(order, items), nil
}

func validateCreateOrder(input CreateOrderInput) error {
	problems := map[string]string{}
	if input.Cart == nil || len(input.Cart.Items) == 0 {
		problems["cart"] = "cart must contain at least one item"
	}
	if strings.TrimSpace(input.Customer.Email) == "" {
		problems["email"] = "email is required"
	}
	if strings.TrimSpace(input.ShippingMethod) == "" {
		problems["shipping_method"] = "shipping method is required"
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		problems["payment_method"] = "payment method is required"
	}
	if input.ShippingCost.IsNegative() {
		problems["shipping_cost"] = "shipping cost cannot be negative"
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order input failed validation").
			WithDetails(problems)
	}
	return nil
}

func (s *service) buildOrder(customer *models.Customer, input CreateOrderInput) *models.Order {
	subtotal := input.Cart.Total
	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     newOrderNumber(s.now()),
		CustomerID:      customer.ID,
		Status:          enums.OrderStatusPending,
		CustomerEmail:   customer.Email,
		CustomerName:    displayName(customer),
		CustomerPhone:   customer.Phone,
		ShippingMethod:  input.ShippingMethod,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		Subtotal:        subtotal,
		ShippingCost:    input.ShippingCost,
		Total:           subtotal.Add(input.ShippingCost),
		Notes:           input.Notes,
		CreatedAt:       s.now().UTC(),
	}
}

func displayName(customer *models.Customer) string {
	if customer.LastName != nil && *customer.LastName != "" {
		return customer.FirstName + " " + *customer.LastName
	}
	return customer.FirstName
}

// newOrderNumber yields ORD-YYMM plus a random 4-digit suffix. Not globally
// unique; the uuid primary key is the real identity and a monthly collision
// at this volume only cosmetically duplicates a display number.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s%04d", now.UTC().Format("0601"), rand.IntN(10000))
}

// snapshotItems freezes the priced cart lines. Display names, SKUs, and
// prices are copied by value so later catalog edits can't reach back into
// the order.
func snapshotItems(lines []cart.CartItemView) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID
		item := models.OrderItem{
			ID:          uuid.New(),
			ProductID:   &productID,
			VariantID:   line.VariantID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.LineTotal,
		}
		if line.Product.SKU != "" {
			sku := line.Product.SKU
			item.SKU = &sku
		}
		if line.Variant != nil {
			name := line.Variant.DisplayName
			item.VariantName = &name
		}
		items = append(items, item)
	}
	return items
}

// GetOrderByID rebuilds the order view purely from the frozen snapshots.
func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up order")
	}
	return newOrderView(order, order.Items), nil
}

func (s *service) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderView, error) {
	orders, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *newOrderView(&orders[i], orders[i].Items))
	}
	return views, nil
}
