package store

import (
	"context"

	"gorm.io/gorm"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
)

// AuditStore appends audit log entries. Entries are never updated or deleted.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Append inserts entry. The write ignores cancellation of ctx: the mutation
// it records has already committed.
func (s *AuditStore) Append(ctx context.Context, entry *models.AuditLog) error {
	err := s.db.WithContext(context.WithoutCancel(ctx)).Create(entry).Error
	return translate(err, apperrors.ErrNotFound, apperrors.ErrConflict)
}
