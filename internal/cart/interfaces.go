package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
)

// Repository persists carts and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindActiveBySession(ctx context.Context, sessionID string) (*models.Cart, error)
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	CreateActive(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Touch(ctx context.Context, cartID uuid.UUID) error
	LoadAggregate(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)

	FindItem(ctx context.Context, cartID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	IncrementItemQuantity(ctx context.Context, itemID uuid.UUID, delta int) error
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error
}
