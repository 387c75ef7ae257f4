package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// balanceService is the balance and recurrence engine. It is a pure read
// computation over stored rows: literal income/expense rows inside the
// window are combined with the virtual occurrences expanded from every
// fixed-expense template, then aggregated with exact decimal arithmetic.
// It holds no state beyond the database handle and is safe for concurrent
// use across users and windows.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// WindowBalance computes income, expense, and balance totals for a window.
func (s *balanceService) WindowBalance(userID uint, w recurrence.Window, categoryIDs []uint) (*BalanceSummary, error) {
	literals, occurrences, err := s.collect(userID, w, categoryIDs)
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero

	for _, t := range literals {
		switch t.Type {
		case models.TransactionTypeIncome:
			totalIncome = totalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			totalExpense = totalExpense.Add(t.Amount)
		}
	}

	for _, e := range occurrences {
		totalExpense = totalExpense.Add(e.Amount)
	}

	return &BalanceSummary{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      totalIncome.Sub(totalExpense),
	}, nil
}

// WindowEntries returns the merged sequence of literal rows and virtual
// occurrences for a window, sorted by date descending and paged in memory
// (virtual occurrences have no rows to page in SQL).
func (s *balanceService) WindowEntries(userID uint, w recurrence.Window, categoryIDs []uint, page pagination.PageRequest) (*pagination.PageResponse[Entry], error) {
	page.Defaults()

	literals, occurrences, err := s.collect(userID, w, categoryIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(literals)+len(occurrences))
	for i := range literals {
		t := &literals[i]
		id := t.ID
		entries = append(entries, Entry{
			TransactionID: &id,
			Type:          t.Type,
			Amount:        t.Amount,
			Description:   t.Description,
			Date:          t.Date,
			CategoryID:    t.CategoryID,
			Category:      t.Category,
		})
	}
	entries = append(entries, occurrences...)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	result := pagination.Slice(entries, page)
	return &result, nil
}

// collect runs the two fetches of the engine and expands templates.
//
// Literal fetch: income and expense rows in the window. Fixed-expense rows
// are deliberately excluded here; a fixed-expense row is only a template,
// and its sole contribution to any window comes from expansion. That is the
// canonical dedup rule: a template whose stored anchor date lies inside the
// window still appears exactly once.
//
// Template fetch: every fixed-expense row of the user, with no date filter,
// since the stored date is just the first occurrence.
func (s *balanceService) collect(userID uint, w recurrence.Window, categoryIDs []uint) ([]models.Transaction, []Entry, error) {
	literalTypes := []models.TransactionType{
		models.TransactionTypeIncome,
		models.TransactionTypeExpense,
	}

	q := s.db.
		Where("user_id = ? AND type IN ?", userID, literalTypes).
		Where("date >= ? AND date < ?", w.Start, w.End.AddDate(0, 0, 1))
	if len(categoryIDs) > 0 {
		q = q.Where("category_id IN ?", categoryIDs)
	}

	var literals []models.Transaction
	if err := q.Preload("Category").Find(&literals).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var templates []models.Transaction
	if err := s.db.
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeFixedExpense).
		Preload("Category").
		Find(&templates).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	occurrences := expandTemplates(templates, w, categoryIDs)
	return literals, occurrences, nil
}

// expandTemplates projects each template onto the window's calendar days.
// The category filter applies to virtual occurrences through the template's
// category, exactly as it applies to literal rows.
func expandTemplates(templates []models.Transaction, w recurrence.Window, categoryIDs []uint) []Entry {
	var filter map[uint]bool
	if len(categoryIDs) > 0 {
		filter = make(map[uint]bool, len(categoryIDs))
		for _, id := range categoryIDs {
			filter[id] = true
		}
	}

	var entries []Entry
	for i := range templates {
		t := &templates[i]
		if t.RecurrenceDay == nil {
			continue
		}
		if filter != nil && (t.CategoryID == nil || !filter[*t.CategoryID]) {
			continue
		}

		tpl := recurrence.Template{
			Amount:      t.Amount,
			Description: t.Description,
			CategoryID:  t.CategoryID,
			Day:         *t.RecurrenceDay,
			EndDate:     t.RecurrenceEndDate,
		}
		for _, occ := range recurrence.Expand(tpl, w) {
			entries = append(entries, Entry{
				Type:        models.TransactionTypeFixedExpense,
				Amount:      occ.Amount,
				Description: occ.Description,
				Date:        occ.Date,
				CategoryID:  occ.CategoryID,
				Category:    t.Category,
				Virtual:     true,
			})
		}
	}
	return entries
}
