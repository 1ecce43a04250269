// Package policy holds the ownership rules every record operation is gated by.
// The rules are pure functions of the record and the requester.
package policy

import (
	"healthcare-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// Owned is any record that links back to exactly one owning user.
type Owned interface {
	OwnerID() uuid.UUID
}

// CanRead allows fetch and list to any authenticated requester.
func CanRead(record Owned, requester uuid.UUID) bool {
	return requester != uuid.Nil
}

// CanWrite allows update and delete to the record's creator only.
func CanWrite(record Owned, requester uuid.UUID) bool {
	if record == nil || requester == uuid.Nil {
		return false
	}
	return record.OwnerID() == requester
}

// CanAssign reports whether requester may attach doctors to patient.
func CanAssign(patient *entity.Patient, requester uuid.UUID) bool {
	if patient == nil {
		return false
	}
	return CanWrite(patient, requester)
}

// CanDeleteMapping defers to the patient's creator; the doctor's creator has no say.
// The mapping must have its Patient loaded.
func CanDeleteMapping(mapping *entity.PatientDoctorMapping, requester uuid.UUID) bool {
	if mapping == nil {
		return false
	}
	return CanWrite(&mapping.Patient, requester)
}
