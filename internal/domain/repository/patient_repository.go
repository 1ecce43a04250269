package repository

import (
	"context"

	"healthcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByCreator(ctx context.Context, db *gorm.DB, creatorID uuid.UUID) ([]entity.Patient, error)
	ExistsForCreator(ctx context.Context, db *gorm.DB, id, creatorID uuid.UUID) (bool, error)
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
