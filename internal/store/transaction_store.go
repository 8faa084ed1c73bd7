package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
)

// TransactionFilter holds optional filter parameters for listing transactions.
// Nil fields are not applied.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionFields are the mutable columns of a transaction. Update replaces
// all of them.
type TransactionFields struct {
	CategoryID      *uint
	Amount          decimal.Decimal
	Type            models.TransactionType
	Description     *string
	TransactionDate time.Time
}

// TransactionStore reads and writes transactions.
type TransactionStore struct {
	db *gorm.DB
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Get retrieves a transaction by ID regardless of owner.
func (s *TransactionStore) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).First(&transaction, id).Error; err != nil {
		return nil, translate(err, apperrors.ErrTransactionNotFound, apperrors.ErrConflict)
	}
	return &transaction, nil
}

// List returns a page of the owner's transactions matching filter, newest
// transaction date first. Rows sharing a date are ordered by descending ID.
func (s *TransactionStore) List(ctx context.Context, ownerID uint, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", ownerID)
	base = applyTransactionFilters(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, total, nil
}

// All returns every transaction of the owner matching filter, in List order,
// with categories preloaded.
func (s *TransactionStore) All(ctx context.Context, ownerID uint, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", ownerID)
	q = applyTransactionFilters(q, filter)

	var transactions []models.Transaction
	if err := q.Preload("Category").
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("transaction_type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", *f.EndDate)
	}
	return q
}

// Create inserts transaction and reloads it.
func (s *TransactionStore) Create(ctx context.Context, transaction *models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
		return tx.First(transaction, transaction.ID).Error
	})
	return translate(err, apperrors.ErrTransactionNotFound, apperrors.ErrConflict)
}

// Update replaces the mutable fields of transaction and reloads it.
func (s *TransactionStore) Update(ctx context.Context, transaction *models.Transaction, fields TransactionFields) error {
	var categoryID, description interface{}
	if fields.CategoryID != nil {
		categoryID = *fields.CategoryID
	}
	if fields.Description != nil {
		description = *fields.Description
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(transaction).Updates(map[string]interface{}{
			"category_id":      categoryID,
			"amount":           fields.Amount,
			"transaction_type": fields.Type,
			"description":      description,
			"transaction_date": fields.TransactionDate,
		}).Error; err != nil {
			return err
		}
		*transaction = models.Transaction{Base: models.Base{ID: transaction.ID}}
		return tx.First(transaction, transaction.ID).Error
	})
	return translate(err, apperrors.ErrTransactionNotFound, apperrors.ErrConflict)
}

// Delete removes a transaction.
func (s *TransactionStore) Delete(ctx context.Context, transaction *models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(transaction).Error
	})
	return translate(err, apperrors.ErrTransactionNotFound, apperrors.ErrConflict)
}
