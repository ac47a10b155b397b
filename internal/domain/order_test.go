package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, st := range OrderStatuses {
		got, err := ParseOrderStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseOrderStatus("CANCELLED")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	_, err = ParseOrderStatus("pending")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestNewOrderID(t *testing.T) {
	id := NewOrderID()
	assert.True(t, strings.HasPrefix(id, "ORD-"))
	assert.Len(t, id, 10)
	assert.Equal(t, strings.ToUpper(id), id)
	assert.NotEqual(t, id, NewOrderID())
}

func TestOrderItemsRoundTripThroughColumn(t *testing.T) {
	items := OrderItems{{Product: Product{ID: 1, Name: "Mouse", Price: decimal.NewFromInt(800)}, Quantity: 2}}
	v, err := items.Value()
	require.NoError(t, err)

	var back OrderItems
	require.NoError(t, back.Scan(v))
	require.Len(t, back, 1)
	assert.Equal(t, 2, back[0].Quantity)
	assert.Equal(t, "Mouse", back[0].Name)
	assert.True(t, back[0].Price.Equal(decimal.NewFromInt(800)))
}

func TestOrderItemsKeepExactPrices(t *testing.T) {
	items := OrderItems{
		{Product: Product{ID: 1, Price: decimal.RequireFromString("0.1")}, Quantity: 1},
		{Product: Product{ID: 2, Price: decimal.RequireFromString("0.2")}, Quantity: 1},
	}
	v, err := items.Value()
	require.NoError(t, err)
	assert.Contains(t, v, `"price":0.1`)

	var back OrderItems
	require.NoError(t, back.Scan(v))
	assert.Equal(t, "0.3", CartTotal(back).String())
	assert.True(t, CartTotal(back).Equal(CartTotal(items)))
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: 1, Price: decimal.NewFromInt(74999)}, Quantity: 1},
		{Product: Product{ID: 2, Price: decimal.RequireFromString("799.99")}, Quantity: 3},
	}
	assert.Equal(t, "77398.97", CartTotal(items).String())
	assert.True(t, CartTotal(nil).IsZero())
}
