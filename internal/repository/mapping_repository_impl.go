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

type mappingRepository struct{}

func NewMappingRepository() domainRepo.MappingRepository {
	return &mappingRepository{}
}

func (r *mappingRepository) Create(ctx context.Context, db *gorm.DB, mapping *entity.PatientDoctorMapping) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(mapping).Error
}

func (r *mappingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PatientDoctorMapping, error) {
	var mapping entity.PatientDoctorMapping
	err := db.WithContext(ctx).Preload("Patient").Preload("Doctor").Where("id = ?", id).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

func (r *mappingRepository) FindByPatientAndDoctor(ctx context.Context, db *gorm.DB, patientID, doctorID uuid.UUID) (*entity.PatientDoctorMapping, error) {
	var mapping entity.PatientDoctorMapping
	err := db.WithContext(ctx).Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

// FindVisible returns the mappings whose patient was created by filter.OwnerID,
// optionally narrowed to one patient.
func (r *mappingRepository) FindVisible(ctx context.Context, db *gorm.DB, filter domainRepo.MappingFilter) ([]entity.PatientDoctorMapping, error) {
	var mappings []entity.PatientDoctorMapping
	query := db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Joins("JOIN patients ON patients.id = patient_doctor_mappings.patient_id").
		Where("patients.created_by_id = ?", filter.OwnerID)

	if filter.PatientID != nil {
		query = query.Where("patient_doctor_mappings.patient_id = ?", *filter.PatientID)
	}

	err := query.Order("patient_doctor_mappings.assigned_at ASC").Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *mappingRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PatientDoctorMapping{})
	return result.RowsAffected, result.Error
}

func (r *mappingRepository) DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) error {
	return db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&entity.PatientDoctorMapping{}).Error
}

func (r *mappingRepository) DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) error {
	return db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.PatientDoctorMapping{}).Error
}
