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

// userService handles user-related business logic.
type userService struct {
	users *store.UserStore
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{users: store.NewUserStore(db)}
}

// CreateUser creates a new user with a unique email and username.
func (s *userService) CreateUser(ctx context.Context, email, username string) (*models.User, error) {
	if err := validator.ValidateUser(email, username); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, 0, email, username); err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Username: username}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsers retrieves a page of users ordered by ID.
func (s *userService) GetUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(users, page.Skip, page.Limit, total)
	return &result, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// UpdateUser replaces the email and username of an existing user.
func (s *userService) UpdateUser(ctx context.Context, id uint, email, username string) (*models.User, error) {
	if err := validator.ValidateUser(email, username); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, user.ID, email, username); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user, email, username); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user that no longer owns any categories or transactions.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}

	has, err := s.users.HasDependents(ctx, user.ID)
	if err != nil {
		return err
	}
	if has {
		return apperrors.ErrUserHasDependents
	}

	return s.users.Delete(ctx, user)
}

// checkUnique rejects email or username values held by a user other than selfID.
func (s *userService) checkUnique(ctx context.Context, selfID uint, email, username string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.ErrDuplicateEmail
	}

	existing, err = s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.ErrDuplicateUsername
	}
	return nil
}
