package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"cashmesh/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWith(t, db, fmt.Sprintf("user%d@test.com", n), fmt.Sprintf("user%d", n))
}

// CreateTestUserWith creates a user with the given email and username.
func CreateTestUserWith(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Username: username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, fmt.Sprintf("Category %d", nextID()))
}

// CreateTestCategoryNamed creates a category with the given name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID uint, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID, Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction. amount is a decimal string and
// date a YYYY-MM-DD calendar date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, kind models.TransactionType, amount, date string) *models.Transaction {
	t.Helper()

	day, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", date, err)
	}
	tx := &models.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          decimal.RequireFromString(amount),
		Type:            kind,
		TransactionDate: day,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
