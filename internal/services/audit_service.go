package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"cashmesh/internal/logger"
	"cashmesh/internal/models"
	"cashmesh/internal/store"
)

type auditService struct {
	logs *store.AuditStore
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{logs: store.NewAuditStore(db)}
}

// Log records a mutation performed by userID. Failures are logged and
// swallowed; the audited operation has already succeeded.
func (s *auditService) Log(ctx context.Context, userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	if err := s.logs.Append(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// encodeChanges renders changes as a JSON object, or "" when there are none.
func encodeChanges(action string, changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
