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

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, requesterID uuid.UUID, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context, requesterID uuid.UUID) ([]dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, requesterID, id uuid.UUID) (*dto.DoctorResponse, error)
	AuthorizeWrite(ctx context.Context, requesterID, id uuid.UUID) error
	UpdateDoctor(ctx context.Context, requesterID, id uuid.UUID, req *dto.PatchDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, requesterID, id uuid.UUID) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	mappingRepo  repository.MappingRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	mappingRepo repository.MappingRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		mappingRepo:  mappingRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, requesterID uuid.UUID, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor := &entity.Doctor{
		CreatedByID:    requesterID,
		Name:           req.Name,
		Specialization: req.Specialization,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
	}

	if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
		if verr := doctorUniqueError(err); verr != nil {
			return nil, verr
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	created, err := u.doctorRepo.FindByID(ctx, tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to reload doctor: %+v", err)
		return nil, err
	}

	resp := converter.DoctorToResponse(created)
	if err := u.auditService.LogCreate(ctx, tx, requesterID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context, requesterID uuid.UUID) ([]dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, requesterID, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !policy.CanRead(doctor, requesterID) {
		return nil, ErrPermissionDenied
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) AuthorizeWrite(ctx context.Context, requesterID, id uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	if !policy.CanWrite(doctor, requesterID) {
		return ErrPermissionDenied
	}
	return nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, requesterID, id uuid.UUID, req *dto.PatchDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !policy.CanWrite(doctor, requesterID) {
		return nil, ErrPermissionDenied
	}

	before := converter.DoctorToResponse(doctor)

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.ContactNumber != nil {
		doctor.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}

	if err := u.doctorRepo.Update(ctx, tx, doctor); err != nil {
		if verr := doctorUniqueError(err); verr != nil {
			return nil, verr
		}
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	after := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, tx, requesterID, entity.AuditActionDoctorUpdate, "doctor", doctor.ID.String(), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

// DeleteDoctor removes the doctor and every assignment that references it.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, requesterID, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	if !policy.CanWrite(doctor, requesterID) {
		return ErrPermissionDenied
	}

	if err := u.mappingRepo.DeleteByDoctorID(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete doctor mappings: %+v", err)
		return err
	}

	if _, err := u.doctorRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, requesterID, entity.AuditActionDoctorDelete, "doctor", id.String(), converter.DoctorToResponse(doctor)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func doctorUniqueError(err error) *ValidationError {
	switch {
	case isDuplicateKeyError(err, "contact_number"):
		return fieldError("contact_number", "doctor with this contact number already exists.")
	case isDuplicateKeyError(err, "email"):
		return fieldError("email", "doctor with this email already exists.")
	}
	return nil
}
