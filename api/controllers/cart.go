package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/api/middleware"
	"github.com/haroldnikoue/storefront-backend/api/responses"
	"github.com/haroldnikoue/storefront-backend/api/validators"
	cartsvc "github.com/haroldnikoue/storefront-backend/internal/cart"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

type getOrCreateCartRequest struct {
	CartID *uuid.UUID `json:"cart_id"`
}

// CartGetOrCreate resolves the caller's cart from an explicit id, the
// session header, or a fresh insert.
func CartGetOrCreate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload getOrCreateCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cartsvc.FindOrCreateInput{CartID: payload.CartID}
		if sessionID, ok := middleware.SessionIDFrom(r.Context()); ok {
			input.SessionID = &sessionID
		}
		if customerID, ok := middleware.CustomerIDFrom(r.Context()); ok {
			input.CustomerID = &customerID
		}

		ref, err := svc.FindOrCreateCart(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ref)
	}
}

// CartGet returns the aggregated, re-priced cart view.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParsePathUUID("cartId", chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCartWithItems(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartGetBySession returns the active cart for a session id, or null when
// the session has none.
func CartGetBySession(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionId")
		if sessionID == "" {
			if headerSession, ok := middleware.SessionIDFrom(r.Context()); ok {
				sessionID = headerSession
			}
		}

		view, err := svc.GetActiveCartBySession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addItemRequest struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"required"`
	VariantID  *uuid.UUID      `json:"variant_id"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	Attributes types.DraftData `json:"attributes"`
}

// CartAddItem adds or merges one line into the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParsePathUUID("cartId", chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddItem(r.Context(), cartsvc.AddItemInput{
			CartID:     cartID,
			ProductID:  payload.ProductID,
			VariantID:  payload.VariantID,
			Quantity:   payload.Quantity,
			Attributes: payload.Attributes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartUpdateItem sets a line's quantity.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParsePathUUID("cartId", chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParsePathUUID("itemId", chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateItemQuantity(r.Context(), cartID, itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// CartRemoveItem deletes one line.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParsePathUUID("cartId", chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParsePathUUID("itemId", chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), cartID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}

// CartClear deletes every line in the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParsePathUUID("cartId", chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearCart(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
