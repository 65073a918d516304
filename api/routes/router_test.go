package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/internal/cart"
	"github.com/haroldnikoue/storefront-backend/internal/drafts"
	"github.com/haroldnikoue/storefront-backend/internal/orders"
	"github.com/haroldnikoue/storefront-backend/pkg/config"
	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct {
	bySession func(ctx context.Context, sessionID string) (*cart.CartView, error)
}

func (s stubCartService) FindOrCreateCart(ctx context.Context, input cart.FindOrCreateInput) (*cart.CartRef, error) {
	return &cart.CartRef{ID: uuid.New()}, nil
}

func (s stubCartService) AddItem(ctx context.Context, input cart.AddItemInput) (*models.CartItem, error) {
	panic("unimplemented")
}

func (s stubCartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	panic("unimplemented")
}

func (s stubCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubCartService) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	panic("unimplemented")
}

func (s stubCartService) GetCartWithItems(ctx context.Context, cartID uuid.UUID) (*cart.CartView, error) {
	panic("unimplemented")
}

func (s stubCartService) GetActiveCartBySession(ctx context.Context, sessionID string) (*cart.CartView, error) {
	if s.bySession != nil {
		return s.bySession(ctx, sessionID)
	}
	return nil, nil
}

type stubDraftService struct{}

func (stubDraftService) GetDraft(ctx context.Context, customerID *uuid.UUID, sessionID *string) (*models.CheckoutDraft, error) {
	return nil, nil
}

func (stubDraftService) SaveDraft(ctx context.Context, input drafts.SaveDraftInput) (*models.CheckoutDraft, error) {
	panic("unimplemented")
}

func (stubDraftService) DeleteDraft(ctx context.Context, input drafts.DeleteDraftInput) error {
	panic("unimplemented")
}

func (stubDraftService) CleanupOldDrafts(ctx context.Context, daysOld int) (int64, error) {
	return 0, nil
}

type stubOrderService struct{}

func (stubOrderService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderView, error) {
	panic("unimplemented")
}

func (stubOrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*orders.OrderView, error) {
	panic("unimplemented")
}

func (stubOrderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]orders.OrderView, error) {
	return []orders.OrderView{}, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return NewRouter(
		cfg,
		nil,
		nil,
		http.NotFoundHandler(),
		stubPinger{},
		nil,
		nil,
		stubCartService{},
		stubDraftService{},
		stubOrderService{},
	)
}

func TestPublicPing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestHealthLive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Storefront-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestMalformedCustomerHeaderRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Customer-Id", "not-a-uuid")
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionHeaderReachesHandlers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Session-Id", "sess-77")
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "sess-77") {
		t.Fatalf("expected session id echoed, got %s", body)
	}
}

func TestCartBySessionReturnsNullWhenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?sessionId=sess-1", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `"data":null`) {
		t.Fatalf("expected null data, got %s", body)
	}
}

func TestCartPathParamValidated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminCleanupRouted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/drafts/cleanup?daysOld=7", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `"removed":0`) {
		t.Fatalf("unexpected body %s", body)
	}
}
