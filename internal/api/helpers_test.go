package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"mobil_market/internal/db"
	"mobil_market/internal/domain"
	"mobil_market/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t          *testing.T
	db         *gorm.DB
	mr         *miniredis.Miniredis
	router     *gin.Engine
	feed       *OrderFeed
	uploadDir  string
	userToken  string
	adminToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{t: t, db: gdb, mr: mr, uploadDir: t.TempDir(), feed: NewOrderFeed([]string{"*"})}
	env.router = NewRouter(Deps{
		DB:          gdb,
		Redis:       rdb,
		JWTSecret:   testSecret,
		UploadDir:   env.uploadDir,
		CORSOrigins: []string{"*"},
		Feed:        env.feed,
	})
	t.Cleanup(env.feed.Close)

	env.userToken = env.createUser("u1", "ayse", "secret1", domain.RoleUser)
	env.adminToken = env.createUser(db.AdminID, "boss", "secret2", domain.RoleAdmin)
	return env
}

func (e *testEnv) createUser(id, username, password, role string) string {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(e.t, err)
	require.NoError(e.t, e.db.Create(&domain.User{ID: id, Username: username, Password: string(hash), Role: role}).Error)
	token, err := utils.GenerateJWT(id, role, testSecret)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) createProduct(p domain.Product) domain.Product {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

type jsonBody = map[string]any

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
