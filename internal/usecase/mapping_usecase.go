package usecase

import (
	"context"

	"healthcare-backend/internal/converter"
	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/domain/entity"
	"healthcare-backend/internal/domain/policy"
	"healthcare-backend/internal/domain/repository"
	"healthcare-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgInvalidPK = "Invalid pk - object does not exist."

type MappingUsecase interface {
	AssignDoctor(ctx context.Context, requesterID uuid.UUID, req *dto.AssignDoctorRequest) (*dto.MappingResponse, error)
	ListMappings(ctx context.Context, requesterID uuid.UUID, patientID *uuid.UUID) ([]dto.MappingResponse, error)
	RemoveMapping(ctx context.Context, requesterID, id uuid.UUID) error
}

type mappingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	mappingRepo  repository.MappingRepository
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewMappingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	mappingRepo repository.MappingRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) MappingUsecase {
	return &mappingUsecase{
		db:           db,
		log:          log,
		mappingRepo:  mappingRepo,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

// AssignDoctor checks, in order: the patient exists, the doctor exists, the
// requester created the patient, and the pair is not assigned yet.
func (u *mappingUsecase) AssignDoctor(ctx context.Context, requesterID uuid.UUID, req *dto.AssignDoctorRequest) (*dto.MappingResponse, error) {
	patientID, err := uuid.Parse(req.Patient)
	if err != nil {
		return nil, fieldError("patient", msgInvalidPK)
	}
	doctorID, err := uuid.Parse(req.Doctor)
	if err != nil {
		return nil, fieldError("doctor", msgInvalidPK)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, fieldError("patient", msgInvalidPK)
	}

	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, fieldError("doctor", msgInvalidPK)
	}

	if !policy.CanAssign(patient, requesterID) {
		return nil, fieldError("patient", "You can only assign a doctor to a patient you created.")
	}

	existing, err := u.mappingRepo.FindByPatientAndDoctor(ctx, tx, patientID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find mapping: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyAssigned
	}

	mapping := &entity.PatientDoctorMapping{
		PatientID: patientID,
		DoctorID:  doctorID,
	}

	if err := u.mappingRepo.Create(ctx, tx, mapping); err != nil {
		// a concurrent assign of the same pair loses on the unique index
		if isDuplicateKeyError(err, "doctor") {
			return nil, ErrAlreadyAssigned
		}
		u.log.Warnf("Failed to create mapping: %+v", err)
		return nil, err
	}

	mapping.Patient = *patient
	mapping.Doctor = *doctor
	resp := converter.MappingToResponse(mapping)

	if err := u.auditService.LogCreate(ctx, tx, requesterID, entity.AuditActionMappingAssign, "mapping", mapping.ID.String(), map[string]string{
		"patient_id": patientID.String(),
		"doctor_id":  doctorID.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

// ListMappings returns the mappings of the requester's patients. When patientID
// is set the patient must belong to the requester; a missing patient and a
// foreign one are reported the same way.
func (u *mappingUsecase) ListMappings(ctx context.Context, requesterID uuid.UUID, patientID *uuid.UUID) ([]dto.MappingResponse, error) {
	if patientID != nil {
		owned, err := u.patientRepo.ExistsForCreator(ctx, u.db, *patientID, requesterID)
		if err != nil {
			u.log.Warnf("Failed to check patient ownership: %+v", err)
			return nil, err
		}
		if !owned {
			return nil, ErrPatientNotAccessible
		}
	}

	mappings, err := u.mappingRepo.FindVisible(ctx, u.db, repository.MappingFilter{
		OwnerID:   requesterID,
		PatientID: patientID,
	})
	if err != nil {
		u.log.Warnf("Failed to find mappings: %+v", err)
		return nil, err
	}

	return converter.MappingsToResponses(mappings), nil
}

func (u *mappingUsecase) RemoveMapping(ctx context.Context, requesterID, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	mapping, err := u.mappingRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find mapping by ID: %+v", err)
		return err
	}
	if mapping == nil {
		return ErrMappingNotFound
	}
	if !policy.CanDeleteMapping(mapping, requesterID) {
		return ErrPermissionDenied
	}

	if _, err := u.mappingRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete mapping: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, requesterID, entity.AuditActionMappingRemove, "mapping", id.String(), converter.MappingToResponse(mapping)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
