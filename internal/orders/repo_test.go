package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  customer_email TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT,
  shipping_method TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  shipping_address TEXT,
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  notes TEXT,
  tracking_number TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemsTable := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  variant_id TEXT,
  product_name TEXT NOT NULL,
  sku TEXT,
  variant_name TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(itemsTable).Error)
	return db
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		OrderNumber:    "ORD-26031234",
		CustomerID:     uuid.New(),
		Status:         enums.OrderStatusPending,
		CustomerEmail:  "nora@example.com",
		CustomerName:   "Nora Klein",
		ShippingMethod: "standard",
		PaymentMethod:  "card",
		Subtotal:       decimal.RequireFromString("350"),
		ShippingCost:   decimal.RequireFromString("9.90"),
		Total:          decimal.RequireFromString("359.90"),
	}
}

func sampleItems(orderID uuid.UUID) []models.OrderItem {
	return []models.OrderItem{
		{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductName: "Jacket",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("100"),
			TotalPrice:  decimal.RequireFromString("200"),
		},
		{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductName: "Tee",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("50"),
			TotalPrice:  decimal.RequireFromString("150"),
		},
	}
}

func TestCreateOrderWithItemsCommits(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := sampleOrder()
	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.CreateOrder(ctx, order); err != nil {
			return err
		}
		return txRepo.CreateItems(ctx, sampleItems(order.ID))
	})
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-26031234", loaded.OrderNumber)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Jacket", loaded.Items[0].ProductName)
}

func TestCreateOrderItemFailureRollsBackOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := sampleOrder()
	items := sampleItems(order.ID)
	// Duplicate primary key forces the item insert to fail after the order
	// row already went in.
	items[1].ID = items[0].ID

	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.CreateOrder(ctx, order); err != nil {
			return err
		}
		return txRepo.CreateItems(ctx, items)
	})
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount, "order must not survive a failed item insert")

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)
}

func TestFindByCustomerNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	first := sampleOrder()
	first.CustomerID = customerID
	first.OrderNumber = "ORD-26030001"
	require.NoError(t, repo.CreateOrder(ctx, first))

	second := sampleOrder()
	second.CustomerID = customerID
	second.OrderNumber = "ORD-26030002"
	require.NoError(t, repo.CreateOrder(ctx, second))
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", first.ID).
		UpdateColumn("created_at", "2026-01-01 00:00:00").Error)

	orders, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-26030002", orders[0].OrderNumber)
}
