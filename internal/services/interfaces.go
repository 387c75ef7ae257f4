package services

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// UserUpdateFields holds an explicit patch for a user profile. Nil fields
// are left untouched.
type UserUpdateFields struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateUser(userID uint, fields UserUpdateFields) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	GetOrCreateDefault(userID uint) (*models.Category, error)
}

// TransactionInput holds the fields for creating a transaction.
type TransactionInput struct {
	CategoryID        *uint
	Type              models.TransactionType
	Amount            decimal.Decimal
	Description       string
	Date              time.Time
	RecurrenceDay     *int
	RecurrenceEndDate *time.Time
}

// TransactionUpdateFields holds an explicit patch for a transaction.
// Nil fields are left untouched; the patch is applied as a whole and
// produces the updated record, never an in-place partial merge.
// ClearRecurrenceEndDate removes an existing end date from a template,
// since a nil RecurrenceEndDate only means "unchanged".
type TransactionUpdateFields struct {
	CategoryID             *uint
	Type                   *models.TransactionType
	Amount                 *decimal.Decimal
	Description            *string
	Date                   *time.Time
	RecurrenceDay          *int
	RecurrenceEndDate      *time.Time
	ClearRecurrenceEndDate bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BalanceSummary contains the aggregated totals for a window.
type BalanceSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// MarshalJSON renders the totals as fixed two-decimal strings.
func (s BalanceSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalIncome  string `json:"totalIncome"`
		TotalExpense string `json:"totalExpense"`
		Balance      string `json:"balance"`
	}{s.TotalIncome.StringFixed(2), s.TotalExpense.StringFixed(2), s.Balance.StringFixed(2)})
}

// Entry is one row of a merged window listing: either a stored transaction
// or a virtual occurrence of a fixed-expense template. Virtual entries have
// no TransactionID because they are never persisted.
type Entry struct {
	TransactionID *uint                  `json:"transaction_id,omitempty"`
	Type          models.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Description   string                 `json:"description"`
	Date          time.Time              `json:"date"`
	CategoryID    *uint                  `json:"category_id,omitempty"`
	Category      *models.Category       `json:"category,omitempty"`
	Virtual       bool                   `json:"virtual"`
}

// MarshalJSON renders Amount as a fixed two-decimal string, matching the
// stored transaction representation.
func (e Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	return json.Marshal(struct {
		alias
		Amount string `json:"amount"`
	}{alias(e), e.Amount.StringFixed(2)})
}

// BalanceServicer defines the contract for the balance and recurrence engine.
type BalanceServicer interface {
	WindowBalance(userID uint, w recurrence.Window, categoryIDs []uint) (*BalanceSummary, error)
	WindowEntries(userID uint, w recurrence.Window, categoryIDs []uint, page pagination.PageRequest) (*pagination.PageResponse[Entry], error)
}
