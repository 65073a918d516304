package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  logo_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  brand_id TEXT,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  description TEXT,
  base_price NUMERIC,
  sale_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  alt_text TEXT,
  is_main INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  sale_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS variant_option_values (
  id TEXT PRIMARY KEY,
  variant_id TEXT NOT NULL,
  option_name TEXT NOT NULL,
  option_value TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  customer_id TEXT,
  session_id TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE UNIQUE INDEX IF NOT EXISTS uq_carts_active_session
  ON carts (session_id) WHERE status = 'active' AND session_id IS NOT NULL;`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  attributes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestProduct(t *testing.T, db *gorm.DB, name string, basePrice string) *models.Product {
	t.Helper()

	base, err := decimal.NewFromString(basePrice)
	require.NoError(t, err)
	product := &models.Product{
		ID:        uuid.New(),
		Slug:      name,
		Name:      name,
		SKU:       "SKU-" + name,
		BasePrice: decimal.NullDecimal{Decimal: base, Valid: true},
		IsActive:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newTestCart(t *testing.T, db *gorm.DB, sessionID string) *models.Cart {
	t.Helper()

	cart := &models.Cart{
		ID:        uuid.New(),
		SessionID: &sessionID,
		Status:    enums.CartStatusActive,
	}
	require.NoError(t, db.Create(cart).Error)
	return cart
}

func newTestItem(t *testing.T, db *gorm.DB, cartID, productID uuid.UUID, qty int, price string) *models.CartItem {
	t.Helper()

	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		Price:     price,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestCreateActiveFirstWins(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	session := "sess-123"
	first, err := repo.CreateActive(ctx, &models.Cart{
		ID:        uuid.New(),
		SessionID: &session,
		Status:    enums.CartStatusActive,
	})
	require.NoError(t, err)

	second, err := repo.CreateActive(ctx, &models.Cart{
		ID:        uuid.New(),
		SessionID: &session,
		Status:    enums.CartStatusActive,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "second create should resolve to the existing cart")

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("session_id = ?", session).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindActiveBySessionIgnoresConverted(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	session := "sess-converted"
	converted := &models.Cart{
		ID:        uuid.New(),
		SessionID: &session,
		Status:    enums.CartStatusConverted,
	}
	require.NoError(t, db.Create(converted).Error)

	_, err := repo.FindActiveBySession(ctx, session)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindItemDistinguishesNullVariant(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, db, "hoodie", "49.90")
	cart := newTestCart(t, db, "sess-variant")

	variantID := uuid.New()
	variantSKU := "SKU-hoodie-L"
	require.NoError(t, db.Create(&models.ProductVariant{
		ID:        variantID,
		ProductID: product.ID,
		SKU:       &variantSKU,
		Name:      "Large",
		Price:     decimal.NewFromInt(55),
	}).Error)

	bare := newTestItem(t, db, cart.ID, product.ID, 1, "49.90")
	withVariant := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: product.ID,
		VariantID: &variantID,
		Quantity:  2,
		Price:     "55",
	}
	require.NoError(t, db.Create(withVariant).Error)

	found, err := repo.FindItem(ctx, cart.ID, product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, bare.ID, found.ID)

	found, err = repo.FindItem(ctx, cart.ID, product.ID, &variantID)
	require.NoError(t, err)
	assert.Equal(t, withVariant.ID, found.ID)
}

func TestIncrementItemQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, db, "tee", "19.90")
	cart := newTestCart(t, db, "sess-incr")
	item := newTestItem(t, db, cart.ID, product.ID, 2, "19.90")

	require.NoError(t, repo.IncrementItemQuantity(ctx, item.ID, 3))

	var reloaded models.CartItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&reloaded).Error)
	assert.Equal(t, 5, reloaded.Quantity)
}

func TestSetItemQuantityScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, db, "cap", "14.50")
	cart := newTestCart(t, db, "sess-set")
	other := newTestCart(t, db, "sess-other")
	item := newTestItem(t, db, cart.ID, product.ID, 1, "14.50")

	err := repo.SetItemQuantity(ctx, other.ID, item.ID, 4)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetItemQuantity(ctx, cart.ID, item.ID, 4))

	var reloaded models.CartItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&reloaded).Error)
	assert.Equal(t, 4, reloaded.Quantity)
}

func TestDeleteItemScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, db, "socks", "6.00")
	cart := newTestCart(t, db, "sess-del")
	other := newTestCart(t, db, "sess-del-other")
	item := newTestItem(t, db, cart.ID, product.ID, 1, "6.00")

	err := repo.DeleteItem(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteItem(ctx, cart.ID, item.ID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteItemsByCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, db, "mug", "9.00")
	cart := newTestCart(t, db, "sess-clear")
	newTestItem(t, db, cart.ID, product.ID, 1, "9.00")
	newTestItem(t, db, cart.ID, uuid.New(), 2, "3.00")

	require.NoError(t, repo.DeleteItemsByCart(ctx, cart.ID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLoadAggregatePreloadsJoins(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	brand := &models.Brand{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(brand).Error)

	product := newTestProduct(t, db, "jacket", "120.00")
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("brand_id", brand.ID).Error)

	require.NoError(t, db.Create(&models.ProductImage{
		ID:        uuid.New(),
		ProductID: product.ID,
		URL:       "https://img.example/jacket-side.jpg",
		SortOrder: 2,
	}).Error)
	require.NoError(t, db.Create(&models.ProductImage{
		ID:        uuid.New(),
		ProductID: product.ID,
		URL:       "https://img.example/jacket-main.jpg",
		IsMain:    true,
		SortOrder: 1,
	}).Error)

	jacketSKU := "SKU-jacket-M"
	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKU:       &jacketSKU,
		Name:      "Medium",
		Price:     decimal.NewFromInt(130),
	}
	require.NoError(t, db.Create(variant).Error)
	require.NoError(t, db.Create(&models.VariantOptionValue{
		ID:          uuid.New(),
		VariantID:   variant.ID,
		OptionName:  "Size",
		OptionValue: "M",
		SortOrder:   1,
	}).Error)

	cart := newTestCart(t, db, "sess-agg")
	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: product.ID,
		VariantID: &variant.ID,
		Quantity:  1,
		Price:     "130",
	}
	require.NoError(t, db.Create(item).Error)

	loaded, err := repo.LoadAggregate(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)

	got := loaded.Items[0]
	require.NotNil(t, got.Product)
	require.NotNil(t, got.Product.Brand)
	assert.Equal(t, "Acme", got.Product.Brand.Name)
	require.Len(t, got.Product.Images, 2)
	assert.Equal(t, "https://img.example/jacket-main.jpg", got.Product.Images[0].URL)
	require.NotNil(t, got.Variant)
	require.Len(t, got.Variant.OptionValues, 1)
	assert.Equal(t, "M", got.Variant.OptionValues[0].OptionValue)
}

func TestTouchBumpsUpdatedAt(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart := newTestCart(t, db, "sess-touch")
	stale := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		UpdateColumn("updated_at", stale).Error)

	require.NoError(t, repo.Touch(ctx, cart.ID))

	var reloaded models.Cart
	require.NoError(t, db.Where("id = ?", cart.ID).First(&reloaded).Error)
	assert.True(t, reloaded.UpdatedAt.After(stale))
}
