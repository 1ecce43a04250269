package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"healthcare-backend/config"
	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/domain/entity"
	repo "healthcare-backend/internal/repository"
	"healthcare-backend/internal/service"
	"healthcare-backend/internal/testutil"
	"healthcare-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	tokens   *testutil.MemoryTokenRepository
	jwt      *jwt.JWTService
	auth     AuthUsecase
	doctors  DoctorUsecase
	patients PatientUsecase
	mappings MappingUsecase
	audit    AuditLogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  10 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	tokens := testutil.NewMemoryTokenRepository()

	userRepo := repo.NewUserRepository()
	doctorRepo := repo.NewDoctorRepository()
	patientRepo := repo.NewPatientRepository()
	mappingRepo := repo.NewMappingRepository()
	auditRepo := repo.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditRepo)

	return &testEnv{
		db:       db,
		tokens:   tokens,
		jwt:      jwtService,
		auth:     NewAuthUsecase(db, log, userRepo, tokens, jwtService, auditService),
		doctors:  NewDoctorUsecase(db, log, doctorRepo, mappingRepo, auditService),
		patients: NewPatientUsecase(db, log, patientRepo, mappingRepo, auditService),
		mappings: NewMappingUsecase(db, log, mappingRepo, patientRepo, doctorRepo, auditService),
		audit:    NewAuditLogUsecase(db, log, auditRepo),
	}
}

func (e *testEnv) user(t *testing.T, email string) uuid.UUID {
	t.Helper()
	return testutil.CreateUser(t, e.db, email, email).ID
}

func (e *testEnv) doctor(t *testing.T, owner uuid.UUID, email, contact string) *dto.DoctorResponse {
	t.Helper()
	resp, err := e.doctors.CreateDoctor(context.Background(), owner, &dto.DoctorRequest{
		Name:           "House",
		Specialization: "Diagnostics",
		ContactNumber:  contact,
		Email:          email,
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) patient(t *testing.T, owner uuid.UUID, name string) *dto.PatientResponse {
	t.Helper()
	resp, err := e.patients.CreatePatient(context.Background(), owner, &dto.PatientRequest{
		Name:        name,
		DateOfBirth: "1990-01-02",
		Address:     "1 Main St",
		PhoneNumber: "555-0100",
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) countMappings(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&entity.PatientDoctorMapping{}).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T {
	return &v
}
