package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	balanceService     services.BalanceServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, balanceService services.BalanceServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, balanceService: balanceService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	CategoryID        *uint                  `json:"category_id"`
	Type              models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount            decimal.Decimal        `json:"amount" binding:"required"`
	Description       string                 `json:"description" binding:"max=500"`
	Date              *string                `json:"date"`
	RecurrenceDay     *int                   `json:"recurrence_day" binding:"omitempty,recurrence_day"`
	RecurrenceEndDate *string                `json:"recurrence_end_date"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// Only provided fields are changed.
type UpdateTransactionRequest struct {
	CategoryID        *uint                   `json:"category_id"`
	Type              *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount            *decimal.Decimal        `json:"amount"`
	Description       *string                 `json:"description" binding:"omitempty,max=500"`
	Date              *string                 `json:"date"`
	RecurrenceDay     *int                    `json:"recurrence_day" binding:"omitempty,recurrence_day"`
	RecurrenceEndDate *string                 `json:"recurrence_end_date"`
}

// TransactionResponse represents a transaction in the response
type TransactionResponse struct {
	ID                uint                   `json:"id"`
	UserID            uint                   `json:"user_id"`
	CategoryID        *uint                  `json:"category_id,omitempty"`
	Type              models.TransactionType `json:"type"`
	Amount            string                 `json:"amount" example:"55.00"`
	Description       string                 `json:"description"`
	Date              time.Time              `json:"date"`
	RecurrenceDay     *int                   `json:"recurrence_day,omitempty"`
	RecurrenceEndDate *time.Time             `json:"recurrence_end_date,omitempty"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Create an income, expense, or recurring fixed-expense template
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.TransactionInput{
		CategoryID:    req.CategoryID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		RecurrenceDay: req.RecurrenceDay,
	}

	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		in.Date = parsed
	}

	if req.RecurrenceEndDate != nil && *req.RecurrenceEndDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.RecurrenceEndDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid recurrence_end_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		in.RecurrenceEndDate = &parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of transactions for the authenticated user.
// Without window parameters it lists stored rows. With a window (year+month or
// start_date+end_date) it returns the merged list of literal transactions and
// virtual fixed-expense occurrences inside that window.
// @Summary     Get user transactions
// @Description Get a paginated list of transactions, optionally expanded over a date window
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page         query int    false "Page number (default 1)"
// @Param       limit        query int    false "Items per page (default 10, max 100)"
// @Param       year         query int    false "Window year (with month)"
// @Param       month        query int    false "Window month 1-12 (with year)"
// @Param       start_date   query string false "Window start (RFC3339 or YYYY-MM-DD, with end_date)"
// @Param       end_date     query string false "Window end, inclusive (with start_date)"
// @Param       category_ids query string false "Comma-separated category IDs to filter by"
// @Success     200 {object} pagination.PageResponse[services.Entry] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	window, err := parseWindowQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if window == nil {
		result, listErr := h.transactionService.GetUserTransactions(userID, page)
		if listErr != nil {
			respondWithError(c, listErr)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	categoryIDs, err := parseCategoryIDs(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.balanceService.WindowEntries(userID, *window, categoryIDs, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating a transaction
// @Summary     Update transaction
// @Description Apply a partial update to a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		CategoryID:    req.CategoryID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		RecurrenceDay: req.RecurrenceDay,
	}

	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		fields.Date = &parsed
	}

	if req.RecurrenceEndDate != nil {
		if *req.RecurrenceEndDate == "" {
			// An explicit empty string removes the end date, making the
			// template open-ended again.
			fields.ClearRecurrenceEndDate = true
		} else {
			parsed, parseErr := parseFlexibleTime(*req.RecurrenceEndDate)
			if parseErr != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid recurrence_end_date format, use RFC3339 or YYYY-MM-DD"))
				return
			}
			fields.RecurrenceEndDate = &parsed
		}
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
