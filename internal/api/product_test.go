package api

import (
	"net/http"
	"testing"

	"mobil_market/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(env *testEnv) []domain.Product {
	return []domain.Product{
		env.createProduct(domain.Product{Name: "iPhone 14 Pro", Price: decimal.NewFromInt(74999), Category: "Elektronik", Image: domain.SingleImage("https://picsum.photos/400/400?random=1")}),
		env.createProduct(domain.Product{Name: "MacBook Air M2", Price: decimal.NewFromInt(42000), Category: "Bilgisayar"}),
		env.createProduct(domain.Product{Name: "Logitech Mouse", Price: decimal.NewFromInt(800), Category: "Aksesuar", Image: domain.ImageList("/product_images/1_a.png", "/product_images/2_b.png")}),
	}
}

func TestListProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	w := env.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]domain.Product](t, w)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"/product_images/1_a.png", "/product_images/2_b.png"}, all[2].Image.URLs())
	assert.True(t, all[2].Image.IsList())

	w = env.do(http.MethodGet, "/api/products?search=mac", "", nil)
	got := decode[[]domain.Product](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "MacBook Air M2", got[0].Name)

	w = env.do(http.MethodGet, "/api/products?category=Aksesuar", "", nil)
	got = decode[[]domain.Product](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "Logitech Mouse", got[0].Name)

	w = env.do(http.MethodGet, "/api/products?category=T%C3%BCm%C3%BC", "", nil)
	assert.Len(t, decode[[]domain.Product](t, w), 3)

	w = env.do(http.MethodGet, "/api/products?search=zzz", "", nil)
	assert.Equal(t, "[]", w.Body.String())
}

func TestListProductsCacheInvalidatedOnWrite(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	w := env.do(http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	w = env.do(http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = env.do(http.MethodPost, "/api/products", env.adminToken, jsonBody{"name": "Sony Kulaklık", "price": 4500, "category": "Aksesuar"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Len(t, decode[[]domain.Product](t, w), 4)
}

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/products", env.adminToken, jsonBody{
		"name":        "Kamera",
		"price":       12500.5,
		"category":    "Elektronik",
		"image":       `["/product_images/1_a.png","/product_images/2_b.png"]`,
		"videoUrl":    "https://example.com/v.mp4",
		"description": "Aynasız",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Product](t, w)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []string{"/product_images/1_a.png", "/product_images/2_b.png"}, created.Image.URLs())

	var stored domain.Product
	require.NoError(t, env.db.First(&stored, created.ID).Error)
	assert.Equal(t, "https://example.com/v.mp4", stored.VideoURL)
	assert.True(t, stored.Image.IsList())

	w = env.do(http.MethodPut, "/api/products/"+itoa(created.ID), env.adminToken, jsonBody{"name": "Kamera X", "price": 9900, "category": "Elektronik", "image": "https://example.com/x.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, env.db.First(&stored, created.ID).Error)
	assert.Equal(t, "Kamera X", stored.Name)
	assert.False(t, stored.Image.IsList())
	assert.Empty(t, stored.VideoURL)

	w = env.do(http.MethodPut, "/api/products/999", env.adminToken, jsonBody{"name": "Ghost", "price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, "/api/products/"+itoa(created.ID), env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, "/api/products/"+itoa(created.ID), env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductValidationAndAuthorization(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/products", env.adminToken, jsonBody{"name": "", "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodPost, "/api/products", env.adminToken, jsonBody{"name": "Neg", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodPut, "/api/products/abc", env.adminToken, jsonBody{"name": "x", "price": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/products", env.userToken, jsonBody{"name": "Sneaky", "price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodPost, "/api/products", "", jsonBody{"name": "Anon", "price": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteProductClearsMemberships(t *testing.T) {
	env := newTestEnv(t)
	products := seedCatalog(env)
	id := products[0].ID
	require.NoError(t, env.db.Create(&domain.Favorite{UserID: "u1", ProductID: id}).Error)
	require.NoError(t, env.db.Create(&domain.Saved{UserID: "u1", ProductID: id}).Error)

	w := env.do(http.MethodDelete, "/api/products/"+itoa(id), env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var favs, saved int64
	env.db.Model(&domain.Favorite{}).Count(&favs)
	env.db.Model(&domain.Saved{}).Count(&saved)
	assert.Zero(t, favs)
	assert.Zero(t, saved)
}

func TestExportProducts(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(env)

	w := env.do(http.MethodGet, "/api/products/export", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=products.xlsx", w.Header().Get("Content-Disposition"))
	// xlsx files are zip archives
	assert.Equal(t, "PK", w.Body.String()[:2])

	w = env.do(http.MethodGet, "/api/products/export", env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
