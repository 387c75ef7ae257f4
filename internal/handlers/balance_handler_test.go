package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/recurrence"
	"fintrack/internal/services"
)

func setupBalanceRouter(handler *BalanceHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/balance", handler.GetMonthlyBalance)
	auth.GET("/balance/range", handler.GetRangeBalance)
	return r
}

func TestBalanceHandler_GetMonthlyBalance(t *testing.T) {
	t.Run("returns totals for the month window", func(t *testing.T) {
		var gotWindow recurrence.Window
		balSvc := &mockBalanceService{
			windowBalanceFn: func(_ uint, w recurrence.Window, _ []uint) (*services.BalanceSummary, error) {
				gotWindow = w
				return &services.BalanceSummary{
					TotalIncome:  decimal.RequireFromString("1000.00"),
					TotalExpense: decimal.RequireFromString("250.00"),
					Balance:      decimal.RequireFromString("750.00"),
				}, nil
			},
		}
		r := setupBalanceRouter(NewBalanceHandler(balSvc))

		rec := doRequest(r, "GET", "/balance?year=2025&month=7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotWindow.Start != time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) {
			t.Errorf("expected window start 2025-07-01, got %v", gotWindow.Start)
		}
		if gotWindow.End != time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC) {
			t.Errorf("expected window end 2025-07-31, got %v", gotWindow.End)
		}

		result := parseJSON(t, rec)
		if result["totalIncome"] != "1000.00" {
			t.Errorf("expected totalIncome 1000.00, got %v", result["totalIncome"])
		}
		if result["totalExpense"] != "250.00" {
			t.Errorf("expected totalExpense 250.00, got %v", result["totalExpense"])
		}
		if result["balance"] != "750.00" {
			t.Errorf("expected balance 750.00, got %v", result["balance"])
		}
		if result["start_date"] != "2025-07-01" || result["end_date"] != "2025-07-31" {
			t.Errorf("unexpected window echo: %v .. %v", result["start_date"], result["end_date"])
		}
	})

	t.Run("returns 400 on missing month", func(t *testing.T) {
		r := setupBalanceRouter(NewBalanceHandler(&mockBalanceService{}))

		rec := doRequest(r, "GET", "/balance?year=2025", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on month out of range", func(t *testing.T) {
		r := setupBalanceRouter(NewBalanceHandler(&mockBalanceService{}))

		rec := doRequest(r, "GET", "/balance?year=2025&month=13", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes category filter through", func(t *testing.T) {
		var gotIDs []uint
		balSvc := &mockBalanceService{
			windowBalanceFn: func(_ uint, _ recurrence.Window, categoryIDs []uint) (*services.BalanceSummary, error) {
				gotIDs = categoryIDs
				return &services.BalanceSummary{}, nil
			},
		}
		r := setupBalanceRouter(NewBalanceHandler(balSvc))

		rec := doRequest(r, "GET", "/balance?year=2025&month=7&category_ids=1,3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(gotIDs) != 2 || gotIDs[0] != 1 || gotIDs[1] != 3 {
			t.Errorf("expected category IDs [1 3], got %v", gotIDs)
		}
	})

	t.Run("returns 400 on malformed category_ids", func(t *testing.T) {
		r := setupBalanceRouter(NewBalanceHandler(&mockBalanceService{}))

		rec := doRequest(r, "GET", "/balance?year=2025&month=7&category_ids=1,abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBalanceHandler_GetRangeBalance(t *testing.T) {
	t.Run("returns totals for an explicit range", func(t *testing.T) {
		var gotWindow recurrence.Window
		balSvc := &mockBalanceService{
			windowBalanceFn: func(_ uint, w recurrence.Window, _ []uint) (*services.BalanceSummary, error) {
				gotWindow = w
				return &services.BalanceSummary{}, nil
			},
		}
		r := setupBalanceRouter(NewBalanceHandler(balSvc))

		rec := doRequest(r, "GET", "/balance/range?start_date=2025-06-15&end_date=2025-09-15", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotWindow.Start != time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) {
			t.Errorf("expected start 2025-06-15, got %v", gotWindow.Start)
		}
		if gotWindow.End != time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC) {
			t.Errorf("expected end 2025-09-15, got %v", gotWindow.End)
		}
	})

	t.Run("accepts a single-day range", func(t *testing.T) {
		balSvc := &mockBalanceService{}
		r := setupBalanceRouter(NewBalanceHandler(balSvc))

		rec := doRequest(r, "GET", "/balance/range?start_date=2025-07-01&end_date=2025-07-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 when end precedes start", func(t *testing.T) {
		r := setupBalanceRouter(NewBalanceHandler(&mockBalanceService{}))

		rec := doRequest(r, "GET", "/balance/range?start_date=2025-07-31&end_date=2025-07-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})

	t.Run("returns 400 on missing end_date", func(t *testing.T) {
		r := setupBalanceRouter(NewBalanceHandler(&mockBalanceService{}))

		rec := doRequest(r, "GET", "/balance/range?start_date=2025-07-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed start_date", func(t *testing.T) {
		r := setupBalanceRouter(NewBalanceHandler(&mockBalanceService{}))

		rec := doRequest(r, "GET", "/balance/range?start_date=July&end_date=2025-07-31", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
