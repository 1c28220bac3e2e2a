package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_erp/internal/httpserver"
	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/store/memstore"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	jwthelp "github.com/Skotchmaster/shop_erp/pkg/jwt"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type testEnv struct {
	e      *echo.Echo
	store  *memstore.Store
	events *mykafka.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, false)
}

func newTestEnvWith(t *testing.T, withCSRF bool) *testEnv {
	t.Helper()

	st := memstore.New()
	for _, name := range []string{"Tools", "Electronics", "Furniture", "Office Supplies"} {
		require.NoError(t, st.CreateCategory(context.Background(), &models.Category{Name: name}))
	}

	events := &mykafka.Recorder{}
	authSvc := &service.AuthService{
		Repo:          st,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        events,
	}

	marketSvc := &service.MarketplaceService{Repo: st, Events: events}

	e := httpserver.NewEcho(logging.NewWithWriter(io.Discard, "", "error"))
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:        &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler:     &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: st, Listings: marketSvc, Events: events}},
		CustomerHandler:    &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: st, Events: events}},
		OrderHandler:       &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: st, Events: events}},
		InvoiceHandler:     &httpserver.InvoiceHTTP{Svc: &service.InvoiceService{Repo: st, Events: events}},
		MarketplaceHandler: &httpserver.MarketplaceHTTP{Svc: marketSvc},
		DashboardHandler:   &httpserver.DashboardHTTP{Svc: &service.DashboardService{Repo: st}},
		JWTSecret:          authSvc.JWTSecret,
		Refresher:          authSvc,
		Ready:              st.Ping,
		CSRF:               withCSRF,
	})

	return &testEnv{e: e, store: st, events: events}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signUp(t *testing.T, username, role string) []*http.Cookie {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/register", map[string]any{
		"username": username,
		"password": "password123",
		"fullName": "Test " + username,
		"email":    username + "@example.com",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errResp struct {
	Message string               `json:"message"`
	Errors  []service.FieldError `json:"errors"`
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func (env *testEnv) createProduct(t *testing.T, cookies []*http.Cookie, sku string) models.Product {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":       "Product " + sku,
		"sku":        sku,
		"price":      "24.99",
		"categoryId": 1,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Product](t, rec)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil).Code)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cookies := env.signUp(t, "shopowner", "")
	access := cookieNamed(cookies, jwthelp.AccessCookie)
	refresh := cookieNamed(cookies, jwthelp.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	rec := env.do(t, http.MethodGet, "/api/user", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	user := decode[models.User](t, rec)
	assert.Equal(t, "shopowner", user.Username)
	assert.Equal(t, models.RoleShopOwner, user.Role)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access.Value)
	bearer := httptest.NewRecorder()
	env.e.ServeHTTP(bearer, req)
	assert.Equal(t, http.StatusOK, bearer.Code)

	rec = env.do(t, http.MethodPost, "/api/register", map[string]any{
		"username": "shopowner", "password": "password123", "fullName": "Other", "email": "o@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", decode[errResp](t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/login", map[string]any{"username": "shopowner", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/login", map[string]any{"username": "shopowner", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieNamed(rec.Result().Cookies(), jwthelp.AccessCookie))

	rec = env.do(t, http.MethodPost, "/api/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := cookieNamed(rec.Result().Cookies(), jwthelp.RefreshCookie)
	require.NotNil(t, rotated)

	rec = env.do(t, http.MethodPost, "/api/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/logout", nil, rotated)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookieNamed(rec.Result().Cookies(), jwthelp.AccessCookie)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	rec = env.do(t, http.MethodPost, "/api/refresh", nil, rotated)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.NotEmpty(t, env.events.Events(mykafka.TopicUsers))
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/register", map[string]any{
		"username": "ab", "password": "password123", "fullName": "x", "email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errResp](t, rec)
	fields := make([]string, 0, len(body.Errors))
	for _, fe := range body.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email"}, fields)
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/products"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/1"},
		{http.MethodDelete, "/api/products/1"},
		{http.MethodGet, "/api/customers"},
		{http.MethodPost, "/api/customers"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPost, "/api/orders"},
		{http.MethodPut, "/api/orders/1/status"},
		{http.MethodGet, "/api/invoices"},
		{http.MethodPost, "/api/invoices"},
		{http.MethodPut, "/api/invoices/1/status"},
		{http.MethodGet, "/api/marketplace/vendor"},
		{http.MethodPost, "/api/marketplace"},
		{http.MethodGet, "/api/dashboard"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := env.do(t, r.method, r.path, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	garbage := &http.Cookie{Name: jwthelp.AccessCookie, Value: "not-a-jwt"}
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/products", nil, garbage).Code)
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Category](t, rec), 4)

	rec = env.do(t, http.MethodGet, "/api/marketplace", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.MarketplaceListing](t, rec))
}

func TestOwnerScopedListings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	alice := env.signUp(t, "alice", "")
	bob := env.signUp(t, "bob", "")

	env.createProduct(t, alice, "ALICE-1")
	rec := env.do(t, http.MethodPost, "/api/customers", map[string]any{"name": "Acme", "email": "acme@example.com"}, alice...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, decode[models.Customer](t, rec).IsActive)

	for _, path := range []string{"/api/products", "/api/customers", "/api/orders", "/api/invoices", "/api/marketplace/vendor"} {
		rec := env.do(t, http.MethodGet, path, nil, bob...)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, "[]", rec.Body.String(), path)
	}

	rec = env.do(t, http.MethodGet, "/api/products", nil, alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)
}

func TestCreateProduct_Defaults(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")

	prod := env.createProduct(t, owner, "HAM-001")
	assert.Equal(t, 0, prod.Quantity)
	assert.False(t, prod.IsListed)
	assert.True(t, decimal.RequireFromString("24.99").Equal(prod.Price))
	assert.Len(t, env.events.Events(mykafka.TopicProducts), 1)
}

func TestCreateProduct_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	env.createProduct(t, owner, "DUP-001")

	tests := []struct {
		name      string
		body      map[string]any
		code      int
		wantField string
	}{
		{
			name:      "missing name",
			body:      map[string]any{"sku": "X-1", "price": "1.00", "categoryId": 1},
			code:      http.StatusBadRequest,
			wantField: "name",
		},
		{
			name:      "negative price",
			body:      map[string]any{"name": "x", "sku": "X-2", "price": "-1", "categoryId": 1},
			code:      http.StatusBadRequest,
			wantField: "price",
		},
		{
			name:      "negative quantity",
			body:      map[string]any{"name": "x", "sku": "X-3", "price": "1", "quantity": -5, "categoryId": 1},
			code:      http.StatusBadRequest,
			wantField: "quantity",
		},
		{
			name:      "unknown category",
			body:      map[string]any{"name": "x", "sku": "X-4", "price": "1", "categoryId": 99},
			code:      http.StatusBadRequest,
			wantField: "categoryId",
		},
		{
			name: "duplicate sku",
			body: map[string]any{"name": "x", "sku": "DUP-001", "price": "1", "categoryId": 1},
			code: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/products", tt.body, owner...)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.wantField == "" {
				return
			}
			body := decode[errResp](t, rec)
			assert.Equal(t, "Invalid product data", body.Message)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.wantField, body.Errors[0].Field)
		})
	}
}

func TestUpdateProduct_ForbiddenForOtherUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice", "")
	bob := env.signUp(t, "bob", "")
	prod := env.createProduct(t, alice, "ALICE-1")

	rec := env.do(t, http.MethodPut, "/api/products/1", map[string]any{"name": "stolen"}, bob...)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only update your own products", decode[errResp](t, rec).Message)

	stored, err := env.store.GetProduct(context.Background(), prod.ID)
	require.NoError(t, err)
	assert.Equal(t, prod.Name, stored.Name)

	rec = env.do(t, http.MethodPut, "/api/products/1", map[string]any{"name": "Renamed", "quantity": 7}, alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Product](t, rec)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, prod.SKU, updated.SKU)
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	other := env.signUp(t, "other", "")

	rec := env.do(t, http.MethodDelete, "/api/products/42", nil, owner...)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[errResp](t, rec).Message)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, "/api/products/abc", nil, owner...).Code)

	prod := env.createProduct(t, owner, "DEL-001")
	path := "/api/products/" + jsonID(prod.ID)

	rec = env.do(t, http.MethodDelete, path, nil, other...)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only delete your own products", decode[errResp](t, rec).Message)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, nil, owner...).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, nil, owner...).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, nil, owner...).Code)
}

func TestDeleteProduct_RemovesListings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	vendor := env.signUp(t, "vendor1", models.RoleVendor)
	prod := env.createProduct(t, vendor, "GONE-001")

	rec := env.do(t, http.MethodPost, "/api/marketplace", map[string]any{"productId": prod.ID, "price": "9.99"}, vendor...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	listing := decode[models.MarketplaceListing](t, rec)

	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/products/"+jsonID(prod.ID), nil, vendor...).Code)

	rec = env.do(t, http.MethodGet, "/api/marketplace", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/marketplace/vendor", nil, vendor...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	path := "/api/marketplace/" + jsonID(listing.ID)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, nil, vendor...).Code)
}

func (env *testEnv) createCustomer(t *testing.T, cookies []*http.Cookie, name string) models.Customer {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/customers", map[string]any{"name": name, "email": "buyer@example.com"}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Customer](t, rec)
}

func (env *testEnv) createOrder(t *testing.T, cookies []*http.Cookie, customerID uint, total string) transport.OrderResponse {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{"customerId": customerID, "totalAmount": total}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[transport.OrderResponse](t, rec)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestCreateOrder_WithItems(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	p := env.createProduct(t, owner, "P-1")
	q := env.createProduct(t, owner, "Q-1")
	buyer := env.createCustomer(t, owner, "Acme")

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": buyer.ID,
		"items": []map[string]any{
			{"productId": p.ID, "quantity": 2, "unitPrice": "10.00"},
			{"productId": q.ID, "quantity": 1, "unitPrice": "5.00"},
		},
	}, owner...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decode[transport.OrderResponse](t, rec)
	assert.Regexp(t, `^ORD-\d{6}$`, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(25).Equal(order.TotalAmount), order.TotalAmount.String())
	require.Len(t, order.Items, 2)
	for _, it := range order.Items {
		assert.Equal(t, order.ID, it.OrderID)
	}

	rec = env.do(t, http.MethodGet, "/api/orders/"+jsonID(order.ID)+"/items", nil, owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.OrderItem](t, rec), 2)

	events := env.events.Events(mykafka.TopicOrders)
	require.Len(t, events, 1)
	assert.Equal(t, "order_created", events[0].Type)
}

func TestCreateOrder_InvalidItemWritesNothing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	p := env.createProduct(t, owner, "P-1")
	q := env.createProduct(t, owner, "Q-1")
	buyer := env.createCustomer(t, owner, "Acme")

	rec := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": buyer.ID,
		"items": []map[string]any{
			{"productId": p.ID, "quantity": 2, "unitPrice": "10.00"},
			{"productId": q.ID, "quantity": 0, "unitPrice": "5.00"},
		},
	}, owner...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errResp](t, rec)
	assert.Equal(t, "Invalid order data", body.Message)
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "items[1].quantity", body.Errors[0].Field)

	rec = env.do(t, http.MethodGet, "/api/orders", nil, owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestOrderStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	other := env.signUp(t, "other", "")

	order := env.createOrder(t, owner, env.createCustomer(t, owner, "Acme").ID, "99.99")
	path := "/api/orders/" + jsonID(order.ID) + "/status"

	rec := env.do(t, http.MethodPut, path, map[string]any{"status": "shipped"}, owner...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", decode[errResp](t, rec).Message)
	stored, err := env.store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	rec = env.do(t, http.MethodPut, path, map[string]any{"status": "completed"}, other...)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only update your own orders", decode[errResp](t, rec).Message)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/orders/999/status", map[string]any{"status": "completed"}, owner...).Code)

	rec = env.do(t, http.MethodPut, path, map[string]any{"status": "completed"}, owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Order](t, rec)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, order.OrderNumber, updated.OrderNumber)
	assert.True(t, order.TotalAmount.Equal(updated.TotalAmount))
}

func TestSalesReferences_OtherTenant(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.signUp(t, "alice", "")
	bob := env.signUp(t, "bob", "")

	aliceBuyer := env.createCustomer(t, alice, "Acme")
	aliceProduct := env.createProduct(t, alice, "A-1")
	aliceOrder := env.createOrder(t, alice, aliceBuyer.ID, "50.00")
	bobBuyer := env.createCustomer(t, bob, "Globex")

	tests := []struct {
		name  string
		path  string
		body  map[string]any
		field string
	}{
		{
			name:  "order for another tenant's customer",
			path:  "/api/orders",
			body:  map[string]any{"customerId": aliceBuyer.ID, "totalAmount": "10"},
			field: "customerId",
		},
		{
			name:  "order for an unknown customer",
			path:  "/api/orders",
			body:  map[string]any{"customerId": 999, "totalAmount": "10"},
			field: "customerId",
		},
		{
			name: "item with another tenant's product",
			path: "/api/orders",
			body: map[string]any{"customerId": bobBuyer.ID, "items": []map[string]any{
				{"productId": aliceProduct.ID, "quantity": 1, "unitPrice": "5.00"},
			}},
			field: "items[0].productId",
		},
		{
			name:  "invoice for another tenant's order",
			path:  "/api/invoices",
			body:  map[string]any{"orderId": aliceOrder.ID, "amount": "50.00", "dueDate": "2026-12-01T00:00:00Z"},
			field: "orderId",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body, bob...)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decode[errResp](t, rec)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}

	for _, path := range []string{"/api/orders", "/api/invoices"} {
		rec := env.do(t, http.MethodGet, path, nil, bob...)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String(), path)
	}
}

func TestInvoiceStatus_Idempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	order := env.createOrder(t, owner, env.createCustomer(t, owner, "Acme").ID, "245.96")

	rec := env.do(t, http.MethodPost, "/api/invoices", map[string]any{
		"orderId": order.ID,
		"amount":  "245.96",
		"dueDate": "2026-12-01T00:00:00Z",
	}, owner...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decode[models.Invoice](t, rec)
	assert.Regexp(t, `^INV-\d{6}$`, inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusUnpaid, inv.Status)

	path := "/api/invoices/" + jsonID(inv.ID) + "/status"
	for range 2 {
		rec = env.do(t, http.MethodPut, path, map[string]any{"status": "paid"}, owner...)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.InvoiceStatusPaid, decode[models.Invoice](t, rec).Status)
	}

	statusEvents := 0
	for _, ev := range env.events.Events(mykafka.TopicInvoices) {
		if ev.Type == "invoice_status_changed" {
			statusEvents++
		}
	}
	assert.Equal(t, 1, statusEvents)

	rec = env.do(t, http.MethodPost, "/api/invoices", map[string]any{"orderId": order.ID, "amount": "1"}, owner...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "dueDate", decode[errResp](t, rec).Errors[0].Field)
}

func TestMarketplace_PublicHidesInactive(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	vendor := env.signUp(t, "vendor1", models.RoleVendor)
	other := env.signUp(t, "vendor2", models.RoleVendor)
	hammer := env.createProduct(t, vendor, "HAM-001")
	desk := env.createProduct(t, vendor, "DESK-001")

	rec := env.do(t, http.MethodPost, "/api/marketplace", map[string]any{"productId": hammer.ID, "price": "22.99"}, vendor...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	active := decode[models.MarketplaceListing](t, rec)
	assert.True(t, active.IsActive)
	assert.Equal(t, 1, active.MinOrderQuantity)

	rec = env.do(t, http.MethodPost, "/api/marketplace", map[string]any{"productId": desk.ID, "price": "179.99", "isActive": false}, vendor...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/marketplace", map[string]any{"productId": desk.ID, "price": "1"}, other...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/marketplace", nil, vendor...)
	require.Equal(t, http.StatusOK, rec.Code)
	public := decode[[]models.MarketplaceListing](t, rec)
	require.Len(t, public, 1)
	assert.Equal(t, active.ID, public[0].ID)

	rec = env.do(t, http.MethodGet, "/api/marketplace/vendor", nil, vendor...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.MarketplaceListing](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/marketplace/search?q=ham", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[transport.ListingSearchResult](t, rec)
	assert.EqualValues(t, 1, found.Meta.Total)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/marketplace/search", nil).Code)

	path := "/api/marketplace/" + jsonID(active.ID)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, path, map[string]any{"isActive": false}, other...).Code)
	rec = env.do(t, http.MethodPut, path, map[string]any{"isActive": false}, vendor...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.MarketplaceListing](t, rec).IsActive)

	rec = env.do(t, http.MethodGet, "/api/marketplace", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, nil, vendor...).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, nil, vendor...).Code)
}

func TestCustomers_UpdateDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	other := env.signUp(t, "other", "")

	rec := env.do(t, http.MethodPost, "/api/customers", map[string]any{"name": "Acme", "email": "acme@example.com", "isActive": false}, owner...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cust := decode[models.Customer](t, rec)
	assert.False(t, cust.IsActive)
	path := "/api/customers/" + jsonID(cust.ID)

	rec = env.do(t, http.MethodPut, path, map[string]any{"email": "bad"}, owner...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, path, map[string]any{"name": "Evil"}, other...).Code)

	rec = env.do(t, http.MethodPut, path, map[string]any{"isActive": true}, owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Customer](t, rec)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Acme", updated.Name)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, nil, owner...).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, nil, owner...).Code)
}

func TestDashboard_Revenue(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.signUp(t, "shopowner", "")
	buyer := env.createCustomer(t, owner, "Acme")

	for _, amount := range []string{"245.96", "371.97"} {
		env.createOrder(t, owner, buyer.ID, amount)
	}

	rec := env.do(t, http.MethodGet, "/api/dashboard", nil, owner...)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[transport.DashboardSnapshot](t, rec)
	assert.Equal(t, "617.93", snap.Revenue.String())
	assert.Equal(t, 2, snap.OrdersThisWeek)
	assert.Len(t, snap.RecentOrders, 2)
	assert.Len(t, snap.InventoryStatus, 4)
	assert.Len(t, snap.MonthlySales, 6)
}

func TestCSRF_CookieSessions(t *testing.T) {
	t.Parallel()
	env := newTestEnvWith(t, true)
	cookies := env.signUp(t, "vendor1", "shop_owner")

	rec := env.do(t, http.MethodGet, "/api/products", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	cookies = append(cookies, &http.Cookie{Name: "XSRF-TOKEN", Value: token})

	post := func(header string) *httptest.ResponseRecorder {
		b, err := json.Marshal(map[string]any{"name": "Stapler", "sku": "STP-1", "price": "4.50", "categoryId": 1})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(b))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Origin", "http://example.com")
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, post("").Code)
	assert.Equal(t, http.StatusCreated, post(token).Code)
}
