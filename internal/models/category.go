package models

// DefaultCategoryName is the name of the category transactions fall into
// when none is provided. It is created lazily per user.
const DefaultCategoryName = "General"

// Category represents a transaction category
type Category struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
