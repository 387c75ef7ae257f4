package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/recurrence"
	"fintrack/internal/services"
)

// BalanceHandler handles balance queries over the recurrence engine.
type BalanceHandler struct {
	balanceService services.BalanceServicer
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceService services.BalanceServicer) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// BalanceResponse represents the aggregated balance for a window.
type BalanceResponse struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CategoryIDs  []uint `json:"category_ids,omitempty"`
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

// parseMonthWindow builds a calendar-month window from year and month
// query parameters. Both are required.
func parseMonthWindow(c *gin.Context) (recurrence.Window, error) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		return recurrence.Window{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month are required")
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return recurrence.Window{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return recurrence.Window{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month, must be 1-12")
	}

	return recurrence.MonthWindow(year, time.Month(month)), nil
}

// parseRangeWindow builds an explicit window from start_date and end_date
// query parameters. Both are required; the end date is inclusive.
func parseRangeWindow(c *gin.Context) (recurrence.Window, error) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		return recurrence.Window{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date and end_date are required")
	}

	start, err := parseFlexibleTime(startStr)
	if err != nil {
		return recurrence.Window{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format, use RFC3339 or YYYY-MM-DD")
	}
	end, err := parseFlexibleTime(endStr)
	if err != nil {
		return recurrence.Window{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format, use RFC3339 or YYYY-MM-DD")
	}

	w, err := recurrence.NewWindow(start, end)
	if err != nil {
		if errors.Is(err, recurrence.ErrEndBeforeStart) {
			return recurrence.Window{}, apperrors.ErrInvalidDateRange
		}
		return recurrence.Window{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return w, nil
}

// parseWindowQuery detects which window shape, if any, the query carries.
// Returns nil when no window parameters are present.
func parseWindowQuery(c *gin.Context) (*recurrence.Window, error) {
	if c.Query("year") != "" || c.Query("month") != "" {
		w, err := parseMonthWindow(c)
		if err != nil {
			return nil, err
		}
		return &w, nil
	}
	if c.Query("start_date") != "" || c.Query("end_date") != "" {
		w, err := parseRangeWindow(c)
		if err != nil {
			return nil, err
		}
		return &w, nil
	}
	return nil, nil
}

// newBalanceResponse formats the totals with StringFixed so money is
// always an exact two-decimal string on the wire.
func newBalanceResponse(w recurrence.Window, categoryIDs []uint, summary *services.BalanceSummary) BalanceResponse {
	return BalanceResponse{
		StartDate:    w.Start.Format("2006-01-02"),
		EndDate:      w.End.Format("2006-01-02"),
		CategoryIDs:  categoryIDs,
		TotalIncome:  summary.TotalIncome.StringFixed(2),
		TotalExpense: summary.TotalExpense.StringFixed(2),
		Balance:      summary.Balance.StringFixed(2),
	}
}

// GetMonthlyBalance returns the aggregated balance for a calendar month
// @Summary     Get monthly balance
// @Description Get total income, total expense, and balance for a calendar month, including recurring fixed-expense occurrences
// @Tags        balance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year         query int    true  "Year"
// @Param       month        query int    true  "Month (1-12)"
// @Param       category_ids query string false "Comma-separated category IDs to filter by"
// @Success     200 {object} BalanceResponse "Aggregated balance"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance [get]
func (h *BalanceHandler) GetMonthlyBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := parseMonthWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryIDs, err := parseCategoryIDs(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.balanceService.WindowBalance(userID, window, categoryIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBalanceResponse(window, categoryIDs, summary))
}

// GetRangeBalance returns the aggregated balance for an explicit date range
// @Summary     Get balance for a date range
// @Description Get total income, total expense, and balance for an inclusive date range, including recurring fixed-expense occurrences
// @Tags        balance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start_date   query string true  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date     query string true  "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Param       category_ids query string false "Comma-separated category IDs to filter by"
// @Success     200 {object} BalanceResponse "Aggregated balance"
// @Failure     400 {object} ErrorResponse "Invalid input or end date before start date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance/range [get]
func (h *BalanceHandler) GetRangeBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := parseRangeWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryIDs, err := parseCategoryIDs(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.balanceService.WindowBalance(userID, window, categoryIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBalanceResponse(window, categoryIDs, summary))
}
