package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
)

// UserStore reads and writes users.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, apperrors.ErrConflict)
	}
	return &user, nil
}

// FindByEmail returns the user owning email, or nil if there is none.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

// FindByUsername returns the user owning username, or nil if there is none.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *UserStore) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// List returns a page of users ordered by ID, plus the total count.
func (s *UserStore) List(ctx context.Context, page pagination.PageRequest) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Scopes(pagination.Paginate(page)).Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, total, nil
}

// Create inserts user and reloads it.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.First(user, user.ID).Error
	})
	return s.translateWrite(ctx, err, 0, user.Email, user.Username)
}

// Update replaces email and username of an existing user and reloads it.
func (s *UserStore) Update(ctx context.Context, user *models.User, email, username string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Updates(map[string]interface{}{
			"email":    email,
			"username": username,
		}).Error; err != nil {
			return err
		}
		return tx.First(user, user.ID).Error
	})
	return s.translateWrite(ctx, err, user.ID, email, username)
}

// translateWrite maps a failed insert or update of selfID. A unique index
// violation is reported against the column another user already holds.
func (s *UserStore) translateWrite(ctx context.Context, err error, selfID uint, email, username string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return translate(err, apperrors.ErrUserNotFound, apperrors.ErrConflict)
	}
	if other, _ := s.FindByEmail(ctx, email); other != nil && other.ID != selfID {
		return apperrors.Wrap(apperrors.ErrDuplicateEmail, err)
	}
	if other, _ := s.FindByUsername(ctx, username); other != nil && other.ID != selfID {
		return apperrors.Wrap(apperrors.ErrDuplicateUsername, err)
	}
	return apperrors.Wrap(apperrors.ErrConflict, err)
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(user).Error
	})
	return translate(err, apperrors.ErrUserNotFound, apperrors.ErrUserHasDependents)
}

// HasDependents reports whether the user still owns categories or transactions.
func (s *UserStore) HasDependents(ctx context.Context, userID uint) (bool, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
