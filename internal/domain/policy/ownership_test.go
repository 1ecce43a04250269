package policy

import (
	"testing"

	"healthcare-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanRead_AnyAuthenticatedRequester(t *testing.T) {
	owner, other := uuid.New(), uuid.New()
	patient := &entity.Patient{CreatedByID: owner}

	assert.True(t, CanRead(patient, owner))
	assert.True(t, CanRead(patient, other))
	assert.False(t, CanRead(patient, uuid.Nil))
}

func TestCanWrite_OnlyCreator(t *testing.T) {
	owner, other := uuid.New(), uuid.New()

	records := map[string]Owned{
		"doctor":  &entity.Doctor{CreatedByID: owner},
		"patient": &entity.Patient{CreatedByID: owner},
	}

	for name, record := range records {
		t.Run(name, func(t *testing.T) {
			assert.True(t, CanWrite(record, owner))
			assert.False(t, CanWrite(record, other))
			assert.False(t, CanWrite(record, uuid.Nil))
		})
	}
}

func TestCanWrite_NilRecord(t *testing.T) {
	assert.False(t, CanWrite(nil, uuid.New()))
}

func TestCanDeleteMapping_FollowsPatientCreator(t *testing.T) {
	patientOwner, doctorOwner := uuid.New(), uuid.New()
	mapping := &entity.PatientDoctorMapping{
		Patient: entity.Patient{CreatedByID: patientOwner},
		Doctor:  entity.Doctor{CreatedByID: doctorOwner},
	}

	assert.True(t, CanDeleteMapping(mapping, patientOwner))
	assert.False(t, CanDeleteMapping(mapping, doctorOwner))
	assert.False(t, CanDeleteMapping(nil, patientOwner))
}

func TestCanAssign(t *testing.T) {
	owner := uuid.New()
	patient := &entity.Patient{CreatedByID: owner}

	assert.True(t, CanAssign(patient, owner))
	assert.False(t, CanAssign(patient, uuid.New()))
}
