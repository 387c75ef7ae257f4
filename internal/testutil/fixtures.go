package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a literal transaction of the given type,
// amount (decimal string), and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTemplate creates a fixed-expense template recurring on the given
// day of month, optionally bounded by an end date.
func CreateTestTemplate(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, amount string, day int, endDate *time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:            userID,
		CategoryID:        categoryID,
		Type:              models.TransactionTypeFixedExpense,
		Amount:            decimal.RequireFromString(amount),
		Date:              time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		RecurrenceDay:     &day,
		RecurrenceEndDate: endDate,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return tx
}
