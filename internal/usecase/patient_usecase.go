package usecase

import (
	"context"
	"time"

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

const msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

type PatientUsecase interface {
	CreatePatient(ctx context.Context, requesterID uuid.UUID, req *dto.PatientRequest) (*dto.PatientResponse, error)
	GetMyPatients(ctx context.Context, requesterID uuid.UUID) ([]dto.PatientResponse, error)
	GetPatient(ctx context.Context, requesterID, id uuid.UUID) (*dto.PatientResponse, error)
	AuthorizeWrite(ctx context.Context, requesterID, id uuid.UUID) error
	UpdatePatient(ctx context.Context, requesterID, id uuid.UUID, req *dto.PatchPatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, requesterID, id uuid.UUID) error
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	mappingRepo  repository.MappingRepository
	auditService service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	mappingRepo repository.MappingRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		mappingRepo:  mappingRepo,
		auditService: auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, requesterID uuid.UUID, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	dob, err := time.Parse(entity.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, fieldError("date_of_birth", msgDateFormat)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient := &entity.Patient{
		CreatedByID: requesterID,
		Name:        req.Name,
		DateOfBirth: dob,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}

	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	created, err := u.patientRepo.FindByID(ctx, tx, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to reload patient: %+v", err)
		return nil, err
	}

	resp := converter.PatientToResponse(created)
	if err := u.auditService.LogCreate(ctx, tx, requesterID, entity.AuditActionPatientCreate, "patient", patient.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

// GetMyPatients lists only the patients the requester created.
func (u *patientUsecase) GetMyPatients(ctx context.Context, requesterID uuid.UUID) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindByCreator(ctx, u.db, requesterID)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, requesterID, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !policy.CanRead(patient, requesterID) {
		return nil, ErrPermissionDenied
	}

	return converter.PatientToResponse(patient), nil
}

// AuthorizeWrite reports whether requester may update or delete the patient,
// before any request body is looked at.
func (u *patientUsecase) AuthorizeWrite(ctx context.Context, requesterID, id uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	if !policy.CanWrite(patient, requesterID) {
		return ErrPermissionDenied
	}
	return nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, requesterID, id uuid.UUID, req *dto.PatchPatientRequest) (*dto.PatientResponse, error) {
	var dob *time.Time
	if req.DateOfBirth != nil {
		parsed, err := time.Parse(entity.DateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, fieldError("date_of_birth", msgDateFormat)
		}
		dob = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !policy.CanWrite(patient, requesterID) {
		return nil, ErrPermissionDenied
	}

	before := converter.PatientToResponse(patient)

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if dob != nil {
		patient.DateOfBirth = *dob
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		patient.PhoneNumber = *req.PhoneNumber
	}

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	after := converter.PatientToResponse(patient)
	if err := u.auditService.LogUpdate(ctx, tx, requesterID, entity.AuditActionPatientUpdate, "patient", patient.ID.String(), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

// DeletePatient removes the patient together with its doctor assignments.
func (u *patientUsecase) DeletePatient(ctx context.Context, requesterID, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	if !policy.CanWrite(patient, requesterID) {
		return ErrPermissionDenied
	}

	if err := u.mappingRepo.DeleteByPatientID(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient mappings: %+v", err)
		return err
	}

	if _, err := u.patientRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, requesterID, entity.AuditActionPatientDelete, "patient", id.String(), converter.PatientToResponse(patient)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
