package domain

import "time"

// Favorite marks a product as liked by a user
type Favorite struct {
	UserID    string    `gorm:"primaryKey;size:64"`             // Composite key part
	ProductID uint      `gorm:"primaryKey;autoIncrement:false"` // Composite key part
	CreatedAt time.Time // Toggle-on time
}

// Saved marks a product as bookmarked by a user
type Saved struct {
	UserID    string    `gorm:"primaryKey;size:64"`             // Composite key part
	ProductID uint      `gorm:"primaryKey;autoIncrement:false"` // Composite key part
	CreatedAt time.Time // Toggle-on time
}

// TableName keeps the table name singular
func (Saved) TableName() string { return "saved" }
