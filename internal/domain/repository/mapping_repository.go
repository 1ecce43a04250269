package repository

import (
	"context"

	"healthcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MappingFilter narrows a mapping listing. PatientID is optional.
type MappingFilter struct {
	OwnerID   uuid.UUID
	PatientID *uuid.UUID
}

type MappingRepository interface {
	Create(ctx context.Context, db *gorm.DB, mapping *entity.PatientDoctorMapping) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PatientDoctorMapping, error)
	FindByPatientAndDoctor(ctx context.Context, db *gorm.DB, patientID, doctorID uuid.UUID) (*entity.PatientDoctorMapping, error)
	FindVisible(ctx context.Context, db *gorm.DB, filter MappingFilter) ([]entity.PatientDoctorMapping, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) error
	DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) error
}
