package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
	"cashmesh/internal/testutil"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func page(skip, limit int) pagination.PageRequest {
	return pagination.PageRequest{Skip: skip, Limit: limit}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, apperrors.ErrUserNotFound, apperrors.ErrConflict))
	assert.Equal(t, apperrors.ErrUserNotFound, translate(gorm.ErrRecordNotFound, apperrors.ErrUserNotFound, apperrors.ErrConflict))
	assert.Equal(t, apperrors.ErrCategoryForbidden, translate(apperrors.ErrCategoryForbidden, apperrors.ErrUserNotFound, apperrors.ErrConflict))

	testutil.AssertAppError(t, translate(gorm.ErrDuplicatedKey, apperrors.ErrUserNotFound, apperrors.ErrDuplicateCategoryName), "DUPLICATE_CATEGORY_NAME")
	testutil.AssertAppError(t, translate(gorm.ErrForeignKeyViolated, apperrors.ErrUserNotFound, apperrors.ErrUserHasDependents), "USER_HAS_DEPENDENTS")

	err := translate(errors.New("connection reset"), apperrors.ErrUserNotFound, apperrors.ErrConflict)
	testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	assert.EqualError(t, errors.Unwrap(err), "connection reset")
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	s := NewUserStore(db)

	alice := &models.User{Email: "alice@example.com", Username: "alice"}
	require.NoError(t, s.Create(ctx, alice))
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	t.Run("duplicate email names the column", func(t *testing.T) {
		err := s.Create(ctx, &models.User{Email: "alice@example.com", Username: "other"})
		appErr := testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
		assert.Contains(t, appErr.Details, "email")
	})

	t.Run("duplicate username names the column", func(t *testing.T) {
		err := s.Create(ctx, &models.User{Email: "other@example.com", Username: "alice"})
		appErr := testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
		assert.Contains(t, appErr.Details, "username")
	})

	t.Run("update onto another user's email", func(t *testing.T) {
		bob := &models.User{Email: "bob@example.com", Username: "bob"}
		require.NoError(t, s.Create(ctx, bob))

		err := s.Update(ctx, bob, "alice@example.com", "bob")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")

		got, err := s.Get(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("find by email and username", func(t *testing.T) {
		got, err := s.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)

		got, err = s.FindByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, alice, "alice@new.example.com", "alice2"))
		got, err := s.Get(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", got.Email)
		assert.Equal(t, "alice2", got.Username)
	})

	t.Run("list pages by id", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			testutil.CreateTestUser(t, db)
		}
		users, total, err := s.List(ctx, page(1, 2))
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, users, 2)
		assert.Less(t, users[0].ID, users[1].ID)
	})

	t.Run("dependents block delete", func(t *testing.T) {
		owner := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, owner.ID, nil, models.TransactionTypeIncome, "1", "2025-01-01")

		has, err := s.HasDependents(ctx, owner.ID)
		require.NoError(t, err)
		assert.True(t, has)

		testutil.AssertAppError(t, s.Delete(ctx, owner), "USER_HAS_DEPENDENTS")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, alice))
		_, err := s.Get(ctx, alice.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestCategoryStore(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	s := NewCategoryStore(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	food := &models.Category{UserID: owner.ID, Name: "Food"}
	require.NoError(t, s.Create(ctx, food))

	t.Run("names are unique across owners", func(t *testing.T) {
		err := s.Create(ctx, &models.Category{UserID: other.ID, Name: "Food"})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})

	t.Run("find by name", func(t *testing.T) {
		got, err := s.FindByName(ctx, "Food")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, food.ID, got.ID)
	})

	t.Run("list is scoped to owner", func(t *testing.T) {
		testutil.CreateTestCategory(t, db, other.ID)
		cats, total, err := s.List(ctx, owner.ID, page(0, 100))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, cats, 1)
		assert.Equal(t, "Food", cats[0].Name)
	})

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, food, "Groceries"))
		assert.Equal(t, "Groceries", food.Name)
	})

	t.Run("delete nulls referencing transactions", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(t, db, owner.ID, &food.ID, models.TransactionTypeExpense, "12.50", "2025-02-01")

		require.NoError(t, s.Delete(ctx, food))

		_, err := s.Get(ctx, food.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		got, err := NewTransactionStore(db).Get(ctx, tx.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})
}

func TestCategoryStore_DeleteRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewCategoryStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions` SET `category_id`=NULL").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `categories`").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), &models.Category{Base: models.Base{ID: 7}})
	testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	s := NewTransactionStore(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategoryNamed(t, db, owner.ID, "Food")

	jan := testutil.CreateTestTransaction(t, db, owner.ID, &food.ID, models.TransactionTypeExpense, "10.00", "2025-01-10")
	febA := testutil.CreateTestTransaction(t, db, owner.ID, nil, models.TransactionTypeIncome, "2500", "2025-02-01")
	febB := testutil.CreateTestTransaction(t, db, owner.ID, &food.ID, models.TransactionTypeExpense, "5000.50", "2025-02-01")
	testutil.CreateTestTransaction(t, db, other.ID, nil, models.TransactionTypeExpense, "1", "2025-03-01")

	ids := func(txs []models.Transaction) []uint {
		out := make([]uint, 0, len(txs))
		for _, tx := range txs {
			out = append(out, tx.ID)
		}
		return out
	}

	t.Run("list orders by date then id descending", func(t *testing.T) {
		txs, total, err := s.List(ctx, owner.ID, TransactionFilter{}, page(0, 100))
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Equal(t, []uint{febB.ID, febA.ID, jan.ID}, ids(txs))
	})

	t.Run("filters", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		txs, _, err := s.List(ctx, owner.ID, TransactionFilter{Type: &expense}, page(0, 100))
		require.NoError(t, err)
		assert.Equal(t, []uint{febB.ID, jan.ID}, ids(txs))

		txs, _, err = s.List(ctx, owner.ID, TransactionFilter{CategoryID: &food.ID}, page(0, 100))
		require.NoError(t, err)
		assert.Equal(t, []uint{febB.ID, jan.ID}, ids(txs))

		start, _ := models.ParseDate("2025-02-01")
		end, _ := models.ParseDate("2025-02-01")
		txs, total, err := s.List(ctx, owner.ID, TransactionFilter{StartDate: &start, EndDate: &end}, page(0, 1))
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Equal(t, []uint{febB.ID}, ids(txs))
	})

	t.Run("all preloads categories", func(t *testing.T) {
		txs, err := s.All(ctx, owner.ID, TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, txs, 3)
		require.NotNil(t, txs[0].Category)
		assert.Equal(t, "Food", txs[0].Category.Name)
		assert.Nil(t, txs[1].Category)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		day, _ := models.ParseDate("2025-03-15")
		desc := "salary"
		err := s.Update(ctx, febA, TransactionFields{
			CategoryID:      &food.ID,
			Amount:          febA.Amount.Add(febA.Amount),
			Type:            models.TransactionTypeIncome,
			Description:     &desc,
			TransactionDate: day,
		})
		require.NoError(t, err)
		assert.Equal(t, "5000.00", febA.Amount.StringFixed(2))
		require.NotNil(t, febA.Description)
		assert.Equal(t, "salary", *febA.Description)
		assert.Equal(t, "2025-03-15", febA.TransactionDate.Format(models.DateLayout))

		err = s.Update(ctx, febA, TransactionFields{
			Amount:          febA.Amount,
			Type:            models.TransactionTypeIncome,
			TransactionDate: day,
		})
		require.NoError(t, err)
		assert.Nil(t, febA.CategoryID)
		assert.Nil(t, febA.Description)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, jan))
		_, err := s.Get(ctx, jan.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
