package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
	}
}

// CreateTransaction records a new transaction for a user. Transactions
// without a category are attached to the user's default category, created
// on first use. Recurrence fields only apply to fixed expenses; for other
// types they are ignored.
func (s *transactionService) CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	switch in.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeFixedExpense:
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if !in.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	// Default date to today if not provided; dates are day-granular.
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = recurrence.DateOnly(date)

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
	}

	if in.Type == models.TransactionTypeFixedExpense {
		if in.RecurrenceDay == nil || *in.RecurrenceDay < 1 || *in.RecurrenceDay > 31 {
			return nil, apperrors.ErrInvalidRecurrence
		}
		transaction.RecurrenceDay = in.RecurrenceDay
		if in.RecurrenceEndDate != nil {
			end := recurrence.DateOnly(*in.RecurrenceEndDate)
			transaction.RecurrenceEndDate = &end
		}
	}

	// Resolve the category: verify ownership when given, otherwise fall
	// back to the user's default category.
	if in.CategoryID != nil {
		category, err := s.categoryService.GetCategoryByID(userID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		transaction.CategoryID = &category.ID
	} else {
		category, err := s.categoryService.GetOrCreateDefault(userID)
		if err != nil {
			return nil, err
		}
		transaction.CategoryID = &category.ID
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated list of the user's stored rows,
// newest first. Fixed-expense templates appear as stored, not expanded;
// window-expanded listings are served by the balance engine.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.Limit, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies an explicit patch to an existing transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	newType := transaction.Type
	if fields.Type != nil {
		switch *fields.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeFixedExpense:
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}
		newType = *fields.Type
		updates["type"] = newType
	}

	if fields.Amount != nil {
		if !fields.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *fields.Amount
	}

	if fields.Description != nil {
		updates["description"] = *fields.Description
	}

	if fields.Date != nil {
		updates["date"] = recurrence.DateOnly(*fields.Date)
	}

	if fields.CategoryID != nil {
		category, catErr := s.categoryService.GetCategoryByID(userID, *fields.CategoryID)
		if catErr != nil {
			return nil, catErr
		}
		updates["category_id"] = category.ID
	}

	if newType == models.TransactionTypeFixedExpense {
		if fields.RecurrenceDay != nil {
			if *fields.RecurrenceDay < 1 || *fields.RecurrenceDay > 31 {
				return nil, apperrors.ErrInvalidRecurrence
			}
			updates["recurrence_day"] = *fields.RecurrenceDay
		} else if transaction.RecurrenceDay == nil {
			// Switching an existing row into a template needs a recurrence day.
			return nil, apperrors.ErrInvalidRecurrence
		}
		if fields.ClearRecurrenceEndDate {
			updates["recurrence_end_date"] = nil
		} else if fields.RecurrenceEndDate != nil {
			end := recurrence.DateOnly(*fields.RecurrenceEndDate)
			updates["recurrence_end_date"] = end
		}
	} else if fields.Type != nil && transaction.Type == models.TransactionTypeFixedExpense {
		// No longer a template: recurrence fields lose their meaning.
		updates["recurrence_day"] = nil
		updates["recurrence_end_date"] = nil
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
