package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Groceries")
		testutil.AssertNoError(t, err)
		if cat.ID == 0 || cat.Name != "Groceries" {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name_same_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Groceries")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, "Groceries")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("same_name_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Groceries")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user2.ID, "Groceries")
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestCategory(t, db, user.ID)
	testutil.CreateTestCategory(t, db, user.ID)
	testutil.CreateTestCategory(t, db, other.ID)

	resp, err := svc.GetUserCategories(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 categories, got %d", len(resp.Data))
	}
	if resp.Meta.TotalItems != 2 {
		t.Errorf("expected total 2, got %d", resp.Meta.TotalItems)
	}
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		updated, err := svc.UpdateCategory(user.ID, cat.ID, "Renamed")
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %q", updated.Name)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID)

		_, err := svc.UpdateCategory(other.ID, cat.ID, "Renamed")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("keeps_referencing_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		catSvc := NewCategoryService(db)
		txSvc := NewTransactionService(db, catSvc)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		tx := testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, "10.00", date(2025, 7, 1))

		testutil.AssertNoError(t, catSvc.DeleteCategory(user.ID, cat.ID))

		// The category is gone ...
		_, err := catSvc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		// ... but the transaction survives, with its relation now absent.
		got, err := txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.Category != nil {
			t.Error("expected the category relation to resolve to nothing")
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID)

		err := svc.DeleteCategory(other.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetOrCreateDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	first, err := svc.GetOrCreateDefault(user.ID)
	testutil.AssertNoError(t, err)
	if first.Name != models.DefaultCategoryName {
		t.Errorf("expected default name %q, got %q", models.DefaultCategoryName, first.Name)
	}

	second, err := svc.GetOrCreateDefault(user.ID)
	testutil.AssertNoError(t, err)
	if second.ID != first.ID {
		t.Error("expected the default category to be created once")
	}
}
