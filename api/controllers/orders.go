package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haroldnikoue/storefront-backend/api/responses"
	"github.com/haroldnikoue/storefront-backend/api/validators"
	cartsvc "github.com/haroldnikoue/storefront-backend/internal/cart"
	"github.com/haroldnikoue/storefront-backend/internal/customers"
	ordersvc "github.com/haroldnikoue/storefront-backend/internal/orders"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

type createOrderRequest struct {
	CartID          uuid.UUID              `json:"cart_id" validate:"required"`
	Email           string                 `json:"email" validate:"required,email"`
	FirstName       string                 `json:"first_name" validate:"required"`
	LastName        *string                `json:"last_name"`
	Phone           *string                `json:"phone"`
	CompanyName     *string                `json:"company_name"`
	ShippingMethod  string                 `json:"shipping_method" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	ShippingAddress *types.ShippingAddress `json:"shipping_address"`
	ShippingCost    decimal.Decimal        `json:"shipping_cost"`
	Notes           *string                `json:"notes"`
	CreateProfile   bool                   `json:"create_profile"`
	SaveAddress     bool                   `json:"save_address"`
}

// OrderCreate materializes the referenced cart into an order. The cart is
// re-priced through the cart aggregator before the snapshot is frozen, so a
// stale client total never leaks into the order.
func OrderCreate(svc ordersvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.GetCartWithItems(r.Context(), payload.CartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), ordersvc.CreateOrderInput{
			Customer: customers.CustomerInfo{
				Email:       payload.Email,
				FirstName:   payload.FirstName,
				LastName:    payload.LastName,
				Phone:       payload.Phone,
				CompanyName: payload.CompanyName,
			},
			ShippingMethod:  payload.ShippingMethod,
			PaymentMethod:   payload.PaymentMethod,
			ShippingAddress: payload.ShippingAddress,
			Notes:           payload.Notes,
			Cart:            view,
			ShippingCost:    payload.ShippingCost,
			CreateProfile:   payload.CreateProfile,
			SaveAddress:     payload.SaveAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderGet returns one order rebuilt from its frozen snapshots.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrderByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderListByCustomer returns a customer's orders, newest first.
func OrderListByCustomer(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParsePathUUID("customerId", chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListOrdersByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}
