package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
	"cashmesh/internal/store"
	"cashmesh/internal/validator"
)

// categoryService handles category-related business logic.
type categoryService struct {
	categories *store.CategoryStore
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{categories: store.NewCategoryStore(db)}
}

// CreateCategory creates a new category owned by userID.
func (s *categoryService) CreateCategory(ctx context.Context, userID uint, name string) (*models.Category, error) {
	if err := validator.ValidateCategoryName(name); err != nil {
		return nil, err
	}
	if err := s.checkUniqueName(ctx, 0, name); err != nil {
		return nil, err
	}

	category := &models.Category{UserID: userID, Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(ctx context.Context, userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	categories, total, err := s.categories.List(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(categories, page.Skip, page.Limit, total)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user.
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, apperrors.ErrCategoryForbidden
	}
	return category, nil
}

// UpdateCategory renames an existing category.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID uint, name string) (*models.Category, error) {
	if err := validator.ValidateCategoryName(name); err != nil {
		return nil, err
	}
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkUniqueName(ctx, category.ID, name); err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, category, name); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category. Its transactions are kept uncategorized.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	return s.categories.Delete(ctx, category)
}

func (s *categoryService) checkUniqueName(ctx context.Context, selfID uint, name string) error {
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.ErrDuplicateCategoryName
	}
	return nil
}
