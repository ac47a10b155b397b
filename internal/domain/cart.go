package domain

import "github.com/shopspring/decimal" // Exact money arithmetic

// CartItem is a product with a quantity. It is never stored on its own, only
// inside an order snapshot.
type CartItem struct {
	Product
	Quantity int `json:"quantity"` // Always >= 1
}

// Subtotal is price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums the subtotals of all items
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
