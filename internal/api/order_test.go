package api

import (
	"net/http"
	"testing"
	"time"

	"mobil_market/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartOf(products ...domain.Product) []domain.CartItem {
	items := make([]domain.CartItem, len(products))
	for i, p := range products {
		items[i] = domain.CartItem{Product: p, Quantity: i + 1}
	}
	return items
}

func TestPlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	products := seedCatalog(env)
	items := cartOf(products[1], products[2]) // 42000*1 + 800*2

	w := env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{
		"userId": "u1", "username": "ayse", "items": items, "totalPrice": 43600,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[domain.Order](t, w)
	assert.Regexp(t, `^ORD-[0-9A-F]{6}$`, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "u1", order.UserID)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(43600)), order.TotalPrice.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[1].Quantity)
	assert.Equal(t, []string{"/product_images/1_a.png", "/product_images/2_b.png"}, order.Items[1].Image.URLs())

	var stored domain.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order.ID).Error)
	assert.Len(t, stored.Items, 2)
}

func TestPlaceOrderTotalIsExact(t *testing.T) {
	env := newTestEnv(t)
	dime := env.createProduct(domain.Product{Name: "Sticker", Price: decimal.RequireFromString("0.1"), Category: "Aksesuar"})
	fifth := env.createProduct(domain.Product{Name: "Pin", Price: decimal.RequireFromString("0.2"), Category: "Aksesuar"})
	items := []domain.CartItem{{Product: dime, Quantity: 1}, {Product: fifth, Quantity: 1}}

	w := env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"items": items, "totalPrice": 0.3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"totalPrice":0.3`)
	order := decode[domain.Order](t, w)

	var stored domain.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, "0.3", stored.TotalPrice.String())
	assert.True(t, stored.TotalPrice.Equal(domain.CartTotal(stored.Items)))

	w = env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"items": items, "totalPrice": 0.31})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderRejects(t *testing.T) {
	env := newTestEnv(t)
	products := seedCatalog(env)

	w := env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"items": []domain.CartItem{}, "totalPrice": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", errorMessage(t, w))

	w = env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"items": cartOf(products[0]), "totalPrice": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := cartOf(products[0])
	bad[0].Quantity = 0
	w = env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"items": bad, "totalPrice": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"userId": "a1", "items": cartOf(products[0]), "totalPrice": 74999})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListOrdersScopesAndOrdering(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("u2", "zeynep", "secret3", domain.RoleUser)
	now := time.Now()
	for i, o := range []domain.Order{
		{ID: "ORD-000001", UserID: "u1", Username: "ayse", Status: domain.StatusPending, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "ORD-000002", UserID: "u2", Username: "zeynep", Status: domain.StatusApproved, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "ORD-000003", UserID: "u1", Username: "ayse", Status: domain.StatusRejected, CreatedAt: now.Add(-1 * time.Hour)},
	} {
		o.Items = domain.OrderItems{{Product: domain.Product{ID: uint(i + 1), Price: decimal.NewFromInt(1)}, Quantity: 1}}
		o.TotalPrice = decimal.NewFromInt(1)
		require.NoError(t, env.db.Create(&o).Error)
	}

	w := env.do(http.MethodGet, "/api/orders", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]domain.Order](t, w)
	require.Len(t, mine, 2)
	assert.Equal(t, "ORD-000003", mine[0].ID)
	assert.Equal(t, "ORD-000001", mine[1].ID)

	w = env.do(http.MethodGet, "/api/orders?userId=u2", env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/orders", env.adminToken, nil)
	all := decode[[]domain.Order](t, w)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"ORD-000003", "ORD-000002", "ORD-000001"}, []string{all[0].ID, all[1].ID, all[2].ID})

	w = env.do(http.MethodGet, "/api/orders?userId=u2", env.adminToken, nil)
	assert.Len(t, decode[[]domain.Order](t, w), 1)

	w = env.do(http.MethodGet, "/api/orders?status=PENDING", env.adminToken, nil)
	pending := decode[[]domain.Order](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, "ORD-000001", pending[0].ID)

	w = env.do(http.MethodGet, "/api/orders?status=LOST", env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	products := seedCatalog(env)
	w := env.do(http.MethodPost, "/api/orders", env.userToken, jsonBody{"items": cartOf(products[2]), "totalPrice": 800})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode[domain.Order](t, w)

	w = env.do(http.MethodPost, "/api/orders/"+order.ID+"/status", env.userToken, jsonBody{"status": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/orders/"+order.ID+"/status", env.adminToken, jsonBody{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored domain.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	require.NotNil(t, stored.StatusUpdatedAt)

	// Any declared status is accepted; no transition rule is enforced
	w = env.do(http.MethodPost, "/api/orders/"+order.ID+"/status", env.adminToken, jsonBody{"status": "DELIVERED"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/orders/"+order.ID+"/status", env.adminToken, jsonBody{"status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/orders/ORD-NOPE00/status", env.adminToken, jsonBody{"status": "REJECTED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
