package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientDoctorMapping assigns one doctor to one patient. The pair is unique
// and AssignedAt is written once on insert.
type PatientDoctorMapping struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mappings_patient_doctor,priority:1" json:"patient_id"`
	DoctorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mappings_patient_doctor,priority:2;index" json:"doctor_id"`
	AssignedAt time.Time `gorm:"<-:create;not null" json:"assigned_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (PatientDoctorMapping) TableName() string {
	return "patient_doctor_mappings"
}

func (m *PatientDoctorMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.AssignedAt.IsZero() {
		m.AssignedAt = time.Now()
	}
	return nil
}

// OwnerID is the creator of the mapped patient, which requires Patient to be loaded.
func (m *PatientDoctorMapping) OwnerID() uuid.UUID {
	return m.Patient.CreatedByID
}
