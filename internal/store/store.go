// Package store is the persistence access layer. Every mutating operation
// runs in its own database transaction and re-reads the row before
// returning, so callers observe server-assigned ids and timestamps.
package store

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
)

// translate maps driver-level failures onto application errors. notFound is
// returned for missing rows, conflict for unique and foreign key violations.
func translate(err error, notFound, conflict *apperrors.AppError) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Wrap(conflict, err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
