package repository

import (
	"context"
	"errors"

	"healthcare-backend/internal/domain/entity"
	domainRepo "healthcare-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Preload("CreatedBy").Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByCreator(ctx context.Context, db *gorm.DB, creatorID uuid.UUID) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).Preload("CreatedBy").
		Where("created_by_id = ?", creatorID).
		Order("created_at ASC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) ExistsForCreator(ctx context.Context, db *gorm.DB, id, creatorID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).
		Where("id = ? AND created_by_id = ?", id, creatorID).
		Count(&count).Error
	return count > 0, err
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(patient).Error
}

func (r *patientRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}
