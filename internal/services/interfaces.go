package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
	"cashmesh/internal/store"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, username string) (*models.User, error)
	GetUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, email, username string) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID uint, name string) (*models.Category, error)
	GetUserCategories(ctx context.Context, userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(ctx context.Context, userID, categoryID uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter = store.TransactionFilter

// TransactionInput carries the client-supplied fields of a transaction.
// Create and update both take the full set.
type TransactionInput struct {
	CategoryID      *uint
	Amount          decimal.Decimal
	Type            models.TransactionType
	Description     *string
	TransactionDate time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID uint, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uint) error
	ExportTransactions(ctx context.Context, userID uint, filter TransactionFilter, w io.Writer) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
