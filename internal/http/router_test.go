package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

type identitiesStub struct {
	byToken map[string]*Identity
}

func (s *identitiesStub) Resolve(_ context.Context, token string) (*Identity, error) {
	if identity, ok := s.byToken[token]; ok {
		return identity, nil
	}
	return nil, errors.New("unknown token")
}

type wishlistServiceStub struct{}

func (wishlistServiceStub) Toggle(context.Context, string, string) (bool, error) { return true, nil }
func (wishlistServiceStub) List(context.Context, string) ([]domain.WishlistEntry, error) {
	return nil, nil
}
func (wishlistServiceStub) Clear(context.Context, string) error { return nil }

func testRouter() http.Handler {
	identities := &identitiesStub{byToken: map[string]*Identity{
		"user-token":  {UserID: "user-1"},
		"admin-token": {UserID: "admin-1", Admin: true},
	}}
	return NewRouter(
		identities,
		NewCartHandler(&cartServiceMock{}, 5*time.Second),
		NewOrderHandler(&checkoutServiceMock{orders: []*domain.Order{}}, 5*time.Second),
		NewWishlistHandler(wishlistServiceStub{}, 5*time.Second),
		30*time.Second,
	)
}

func TestRouter_HealthOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/get", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_RejectsUnknownToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/get", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_UserToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/get", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminRouteForbiddenForUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/order/list", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_AdminRouteAllowsAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/order/list", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-abc" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}
