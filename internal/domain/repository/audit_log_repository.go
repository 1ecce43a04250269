package repository

import (
	"context"

	"healthcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]entity.AuditLog, error)
}
