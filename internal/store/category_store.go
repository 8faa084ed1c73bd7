package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
)

// CategoryStore reads and writes categories.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Get retrieves a category by ID regardless of owner.
func (s *CategoryStore) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err, apperrors.ErrCategoryNotFound, apperrors.ErrConflict)
	}
	return &category, nil
}

// FindByName returns the category with the given name, or nil if there is none.
// Names are unique across all owners.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// List returns a page of the owner's categories ordered by ID, plus the total count.
func (s *CategoryStore) List(ctx context.Context, ownerID uint, page pagination.PageRequest) ([]models.Category, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ?", ownerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, total, nil
}

// Create inserts category and reloads it.
func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(category).Error; err != nil {
			return err
		}
		return tx.First(category, category.ID).Error
	})
	return translate(err, apperrors.ErrCategoryNotFound, apperrors.ErrDuplicateCategoryName)
}

// Update renames a category and reloads it.
func (s *CategoryStore) Update(ctx context.Context, category *models.Category, name string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(category).Updates(map[string]interface{}{"name": name}).Error; err != nil {
			return err
		}
		return tx.First(category, category.ID).Error
	})
	return translate(err, apperrors.ErrCategoryNotFound, apperrors.ErrDuplicateCategoryName)
}

// Delete removes a category. Transactions that referenced it keep existing
// with a NULL category_id, matching the ON DELETE SET NULL constraint; the
// explicit update keeps that true on connections without FK enforcement.
func (s *CategoryStore) Delete(ctx context.Context, category *models.Category) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", category.ID).
			UpdateColumn("category_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	return translate(err, apperrors.ErrCategoryNotFound, apperrors.ErrConflict)
}
