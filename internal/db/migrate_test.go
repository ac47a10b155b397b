package db

import (
	"testing"

	"mobil_market/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestMigrateAndSeed(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, Seed(gdb, "Boss@Example.com", "supersecret"))

	var admin domain.User
	require.NoError(t, gdb.First(&admin, "id = ?", AdminID).Error)
	assert.Equal(t, "boss@example.com", admin.Username)
	assert.Equal(t, "boss@example.com", admin.Email)
	assert.True(t, admin.IsAdmin())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("supersecret")))

	var products []domain.Product
	require.NoError(t, gdb.Order("id").Find(&products).Error)
	require.Len(t, products, len(sampleProducts))
	assert.Equal(t, "iPhone 14 Pro", products[0].Name)
	assert.Equal(t, "https://picsum.photos/400/400?random=1", products[0].Image.Primary())

	// Seeding again is a no-op
	require.NoError(t, Seed(gdb, "other", "another"))
	var users, count int64
	gdb.Model(&domain.User{}).Count(&users)
	gdb.Model(&domain.Product{}).Count(&count)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, len(sampleProducts), count)
}

func TestSeedWithoutAdminPassword(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, Seed(gdb, "admin", ""))

	var users int64
	gdb.Model(&domain.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestOrderItemsPersist(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, Migrate(gdb))

	order := domain.Order{
		ID:         domain.NewOrderID(),
		UserID:     "u1",
		Username:   "ayse",
		Items:      domain.OrderItems{{Product: domain.Product{ID: 3, Name: "Mouse", Price: decimal.NewFromInt(800), Image: domain.ImageList("a.png", "b.png")}, Quantity: 2}},
		TotalPrice: decimal.NewFromInt(1600),
		Status:     domain.StatusPending,
	}
	require.NoError(t, gdb.Create(&order).Error)

	var back domain.Order
	require.NoError(t, gdb.First(&back, "id = ?", order.ID).Error)
	require.Len(t, back.Items, 1)
	assert.Equal(t, []string{"a.png", "b.png"}, back.Items[0].Image.URLs())
	assert.Equal(t, domain.StatusPending, back.Status)
}

func TestDuplicateUsernameIsTranslated(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, gdb.Create(&domain.User{ID: "u1", Username: "ayse", Password: "x", Role: domain.RoleUser}).Error)

	err := gdb.Create(&domain.User{ID: "u2", Username: "ayse", Password: "y", Role: domain.RoleUser}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
