package domain

import "github.com/shopspring/decimal" // Exact money arithmetic

func init() {
	// Prices travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Product Model
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	Name        string          `gorm:"size:191;not null;index" json:"name"`      // Display name, searched with LIKE
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // Unit price
	Category    string          `gorm:"size:64;index" json:"category"`            // Category label
	Image       ProductImages   `gorm:"type:text" json:"image"`                   // One URL or an ordered list
	VideoURL    string          `gorm:"size:512" json:"videoUrl,omitempty"`       // Optional video attachment
	FileURL     string          `gorm:"size:512" json:"fileUrl,omitempty"`        // Optional file attachment
	Description string          `gorm:"type:text" json:"description"`             // Free text
}
