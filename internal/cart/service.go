// Package cart implements cart lifecycle and the aggregated cart view. A cart
// is found or created from whatever identity the caller carries, items are
// priced once at add time, and the view re-prices every line from the live
// catalog so sale changes show up without a write.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/internal/catalog"
	"github.com/haroldnikoue/storefront-backend/internal/pricing"
	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// FindOrCreateInput carries the identities a caller may present. CartID wins
// over SessionID; a miss on either falls through rather than erroring.
type FindOrCreateInput struct {
	CartID     *uuid.UUID
	SessionID  *string
	CustomerID *uuid.UUID
}

// AddItemInput describes one line to add to a cart.
type AddItemInput struct {
	CartID     uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	Quantity   int
	Attributes types.DraftData
}

// Service exposes cart operations.
type Service interface {
	FindOrCreateCart(ctx context.Context, input FindOrCreateInput) (*CartRef, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, cartID uuid.UUID) error
	GetCartWithItems(ctx context.Context, cartID uuid.UUID) (*CartView, error)
	GetActiveCartBySession(ctx context.Context, sessionID string) (*CartView, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Repository
	cache    viewCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the cart service. Cache and logger are optional; without a
// cache every view is computed from the database.
func NewService(repo Repository, cat catalog.Repository, cache viewCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{
		repo:     repo,
		catalog:  cat,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
	}, nil
}

// FindOrCreateCart resolves a cart by id first, then by session, then inserts
// a fresh active cart. Lookup misses fall through silently; only storage
// faults surface.
func (s *service) FindOrCreateCart(ctx context.Context, input FindOrCreateInput) (*CartRef, error) {
	if input.CartID != nil {
		cart, err := s.repo.FindByID(ctx, *input.CartID)
		if err == nil {
			return &CartRef{ID: cart.ID}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart by id")
		}
	}

	if input.SessionID != nil && *input.SessionID != "" {
		cart, err := s.repo.FindActiveBySession(ctx, *input.SessionID)
		if err == nil {
			return &CartRef{ID: cart.ID}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart by session")
		}
	}

	fresh := &models.Cart{
		CustomerID: input.CustomerID,
		SessionID:  input.SessionID,
		Status:     enums.CartStatusActive,
	}
	created, err := s.repo.CreateActive(ctx, fresh)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart")
	}
	return &CartRef{ID: created.ID}, nil
}

// AddItem merges into an existing line when the same product/variant pair is
// already in the cart, otherwise inserts a new line with a price snapshot
// from the current waterfall.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if _, err := s.repo.FindByID(ctx, input.CartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart")
	}

	existing, err := s.repo.FindItem(ctx, input.CartID, input.ProductID, input.VariantID)
	if err == nil {
		if err := s.repo.IncrementItemQuantity(ctx, existing.ID, input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "incrementing cart item")
		}
		existing.Quantity += input.Quantity
		s.touch(ctx, input.CartID)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart item")
	}

	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	var variant *models.ProductVariant
	if input.VariantID != nil {
		variant, err = s.catalog.GetVariant(ctx, *input.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading variant")
		}
		if variant.ProductID != product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
		}
	}

	unit := pricing.ResolveUnitPrice(product, variant)
	item := &models.CartItem{
		CartID:     input.CartID,
		ProductID:  input.ProductID,
		VariantID:  input.VariantID,
		Quantity:   input.Quantity,
		Price:      unit.String(),
		Attributes: input.Attributes,
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart item")
	}
	s.touch(ctx, input.CartID)
	return created, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := s.repo.SetItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item quantity")
	}
	s.touch(ctx, cartID)
	return nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, cartID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
	}
	s.touch(ctx, cartID)
	return nil
}

func (s *service) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart")
	}
	if err := s.repo.DeleteItemsByCart(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart items")
	}
	s.touch(ctx, cartID)
	return nil
}

// GetCartWithItems builds the aggregated, re-priced view of a cart. An empty
// cart is a valid view with a zero total. A line whose product row is gone,
// or whose variant reference no longer resolves, is a data fault and the
// whole view fails rather than rendering a partial cart.
func (s *service) GetCartWithItems(ctx context.Context, cartID uuid.UUID) (*CartView, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart")
	}
	return s.viewOf(ctx, cart)
}

// GetActiveCartBySession returns the session's active cart view, or nil when
// the session has no active cart.
func (s *service) GetActiveCartBySession(ctx context.Context, sessionID string) (*CartView, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	cart, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up cart by session")
	}
	return s.viewOf(ctx, cart)
}

func (s *service) viewOf(ctx context.Context, cart *models.Cart) (*CartView, error) {
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.CartViewKey(cart.ID.String(), cart.UpdatedAt)
		if view := cachedView(ctx, s.cache, s.logg, cacheKey); view != nil {
			return view, nil
		}
	}

	loaded, err := s.repo.LoadAggregate(ctx, cart.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart items")
	}

	view, err := buildView(loaded)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		storeView(ctx, s.cache, s.logg, cacheKey, view, s.cacheTTL)
	}
	return view, nil
}

func buildView(cart *models.Cart) (*CartView, error) {
	items := make([]CartItemView, 0, len(cart.Items))
	lines := make([]pricing.Line, 0, len(cart.Items))

	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConsistency,
				fmt.Sprintf("cart item %s references missing product %s", item.ID, item.ProductID))
		}
		if item.VariantID != nil && item.Variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConsistency,
				fmt.Sprintf("cart item %s references missing variant %s", item.ID, *item.VariantID))
		}

		line := pricing.Line{
			Quantity: item.Quantity,
			Product:  item.Product,
			Variant:  item.Variant,
			Snapshot: item.Price,
		}
		lines = append(lines, line)

		amount := pricing.ResolveLineAmount(line)
		unit := pricing.ResolveUnitPrice(item.Product, item.Variant)
		if unit.IsZero() {
			unit = pricing.ParseSnapshot(item.Price)
		}

		items = append(items, CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: amount,
			Product:   newProductSummary(item.Product),
			Variant:   newVariantSummary(item.Variant),
		})
	}

	total, itemCount := pricing.AggregateTotals(lines)
	return &CartView{
		ID:        cart.ID,
		Status:    cart.Status,
		Items:     items,
		Total:     total,
		ItemCount: itemCount,
		UpdatedAt: cart.UpdatedAt,
	}, nil
}

// touch bumps the cart's updated_at so cached views stop matching. Failure is
// logged, not surfaced: the mutation already committed.
func (s *service) touch(ctx context.Context, cartID uuid.UUID) {
	if err := s.repo.Touch(ctx, cartID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithCartID(ctx, cartID.String()), "failed to bump cart updated_at")
	}
}
