package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor is shared reference data: every authenticated user can read it,
// only its creator can change it.
type Doctor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedByID    uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Specialization string    `gorm:"type:varchar(100);not null" json:"specialization"`
	ContactNumber  string    `gorm:"type:varchar(15);uniqueIndex:idx_doctors_contact_number;not null" json:"contact_number"`
	Email          string    `gorm:"type:varchar(254);uniqueIndex:idx_doctors_email;not null" json:"email"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *Doctor) OwnerID() uuid.UUID {
	return d.CreatedByID
}

func (d Doctor) String() string {
	return fmt.Sprintf("Dr. %s (%s)", d.Name, d.Specialization)
}
