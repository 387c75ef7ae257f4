package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome       TransactionType = "income"
	TransactionTypeExpense      TransactionType = "expense"
	TransactionTypeFixedExpense TransactionType = "fixed_expense"
)

// Transaction represents a financial transaction in the system.
//
// A fixed_expense row is a recurring template, not a dated event: its Date
// is only the first occurrence, and balance queries derive the actual
// occurrences from RecurrenceDay within the queried window. Income and
// expense rows are literal dated events.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// Recurrence fields, meaningful only when Type is fixed_expense.
	RecurrenceDay     *int       `json:"recurrence_day,omitempty"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON renders Amount as a fixed two-decimal string so API
// consumers always see exact money values ("55.00", never 55).
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Amount string `json:"amount"`
	}{alias(t), t.Amount.StringFixed(2)})
}

// IsTemplate reports whether the row is a recurring fixed-expense template.
func (t *Transaction) IsTemplate() bool {
	return t.Type == TransactionTypeFixedExpense
}
