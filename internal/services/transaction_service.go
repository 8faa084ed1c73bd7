package services

import (
	"context"
	"io"

	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/export"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
	"cashmesh/internal/store"
	"cashmesh/internal/validator"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	transactions *store.TransactionStore
	categories   *store.CategoryStore
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{
		transactions: store.NewTransactionStore(db),
		categories:   store.NewCategoryStore(db),
	}
}

// CreateTransaction records an income or expense for userID.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validator.ValidateTransaction(in.Amount, in.Type, in.Description); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, in.CategoryID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          userID,
		CategoryID:      in.CategoryID,
		Amount:          in.Amount,
		Type:            in.Type,
		Description:     in.Description,
		TransactionDate: in.TransactionDate,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	transactions, total, err := s.transactions.List(ctx, userID, filter, page)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(transactions, page.Skip, page.Limit, total)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID uint) (*models.Transaction, error) {
	transaction, err := s.transactions.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, apperrors.ErrTransactionForbidden
	}
	return transaction, nil
}

// UpdateTransaction replaces every client-editable field of a transaction.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validator.ValidateTransaction(in.Amount, in.Type, in.Description); err != nil {
		return nil, err
	}
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, in.CategoryID); err != nil {
		return nil, err
	}

	if err := s.transactions.Update(ctx, transaction, store.TransactionFields(in)); err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction deletes a transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	return s.transactions.Delete(ctx, transaction)
}

// ExportTransactions writes every matching transaction of the user to w as an
// xlsx workbook.
func (s *transactionService) ExportTransactions(ctx context.Context, userID uint, filter TransactionFilter, w io.Writer) error {
	transactions, err := s.transactions.All(ctx, userID, filter)
	if err != nil {
		return err
	}
	if err := export.WriteTransactions(w, transactions); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// checkCategory verifies that a referenced category exists and belongs to userID.
func (s *transactionService) checkCategory(ctx context.Context, userID uint, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categories.Get(ctx, *categoryID)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return apperrors.ErrCategoryForbidden
	}
	return nil
}
